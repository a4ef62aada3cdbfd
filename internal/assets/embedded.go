package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// builtin holds the stylesheets and templates shipped in the binary.
//
//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the built-in document templates.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader returns a loader over the built-in assets.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: builtin}
}

// LoadStyle returns the built-in stylesheet for name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readAsset(e.fsys, styleKind, name)
}

// LoadTemplate returns the built-in template for name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readAsset(e.fsys, templateKind, name)
}

// Files lists the built-in asset paths, relative to the loader root.
func (e *EmbeddedLoader) Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(e.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// ExportBuiltin copies the built-in assets into dir with the layout
// FilesystemLoader reads, and returns the written paths. Existing files are
// left alone unless overwrite is set.
func ExportBuiltin(dir string, overwrite bool) ([]string, error) {
	loader := NewEmbeddedLoader()
	files, err := loader.Files()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	written := make([]string, 0, len(files))
	for _, rel := range files {
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(dst); err == nil && !overwrite {
			return written, fmt.Errorf("%w: %s", ErrAssetExists, dst)
		}
		data, err := fs.ReadFile(loader.fsys, rel)
		if err != nil {
			return written, fmt.Errorf("%w: %s: %v", ErrAssetRead, rel, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return written, err
		}
		// #nosec G306 -- templates are meant to be edited by the user
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, dst)
	}
	return written, nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
