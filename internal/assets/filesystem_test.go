package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeAsset(t *testing.T, base, dir, name, content string) {
	t.Helper()
	full := filepath.Join(base, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(full, name), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if _, err := NewFilesystemLoader(file); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", "bold.css", ".doc-bold { color: red; }")
	writeAsset(t, base, "templates", "bold.html", `{{define "document"}}<div id="{{.TargetID}}"></div>{{end}}`)

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	css, err := loader.LoadStyle("bold")
	if err != nil || css != ".doc-bold { color: red; }" {
		t.Errorf("LoadStyle(bold) = %q, %v", css, err)
	}
	if _, err := loader.LoadTemplate("bold"); err != nil {
		t.Errorf("LoadTemplate(bold) error = %v", err)
	}
	if _, err := loader.LoadStyle("classic"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(classic) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplate("classic"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(classic) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	base := t.TempDir()
	outside := t.TempDir()
	writeAsset(t, outside, ".", "secret.css", "secret")
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(base, "styles", "evil.css")); err != nil {
		t.Fatalf("setup: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(evil) error = %v, want ErrPathTraversal", err)
	}
}
