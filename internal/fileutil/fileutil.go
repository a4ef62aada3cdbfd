// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrInvalidFilename        = errors.New("invalid file name")
)

// maxCollisionSuffix bounds the "name (n).ext" search in WriteFileAtomic.
const maxCollisionSuffix = 999

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "proofa-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// ValidateFilename rejects names that would escape the target directory.
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q contains a path separator or null byte", ErrInvalidFilename, name)
	}
	return nil
}

// collisionName returns name for n == 0, and "base (n).ext" otherwise,
// mirroring how browsers name repeated downloads.
func collisionName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + " (" + strconv.Itoa(n) + ")" + ext
}

// WriteFileAtomic writes data to a hidden temp file in dir, syncs it and
// publishes it under name, or "base (n).ext" when name is taken. Each final
// name is claimed exclusively, so concurrent writers never overwrite each
// other, and readers never observe a partially written file. Returns the
// final path.
func WriteFileAtomic(dir, name string, data []byte) (string, error) {
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".proofa-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	// Removed on failure, and after a hard link publishes it.
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	// #nosec G302 -- downloaded documents are meant to be readable
	_ = os.Chmod(tmpPath, 0o644)

	for n := 0; n <= maxCollisionSuffix; n++ {
		final := filepath.Join(dir, collisionName(name, n))
		err := publish(tmpPath, final)
		if err == nil {
			return final, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("publishing download: %w", err)
		}
	}
	return "", fmt.Errorf("%w: too many files named %q in %s", ErrInvalidFilename, name, dir)
}

// publish makes tmpPath visible as final, failing with fs.ErrExist if final
// is taken. A hard link claims and fills the name in one step; where links
// are unsupported, an exclusive placeholder claims it and the rename fills it.
func publish(tmpPath, final string) error {
	err := os.Link(tmpPath, final)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}

	placeholder, err := os.OpenFile(final, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- final is dir + validated name
	if err != nil {
		return err
	}
	_ = placeholder.Close()
	if err := os.Rename(tmpPath, final); err != nil {
		_ = os.Remove(final)
		return err
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsDataURL returns true if the string is an inline data: URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}
