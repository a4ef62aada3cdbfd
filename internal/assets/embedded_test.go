package assets

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestEmbeddedLoader_DocumentTemplates(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	for _, name := range TemplateSetNames {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			html, err := loader.LoadTemplate(name)
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error = %v", name, err)
			}
			if !strings.Contains(html, `{{define "document"}}`) {
				t.Errorf("%s.html does not define the document template", name)
			}
			if strings.Count(html, `id="{{.TargetID}}"`) != 1 {
				t.Errorf("%s.html must carry the target id exactly once", name)
			}

			css, err := loader.LoadStyle(name)
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", name, err)
			}
			if !strings.Contains(css, ".doc-"+name) {
				t.Errorf("%s.css does not style .doc-%s", name, name)
			}
		})
	}
}

func TestEmbeddedLoader_Partials(t *testing.T) {
	t.Parallel()

	html, err := NewEmbeddedLoader().LoadTemplate(PartialsTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate(partials) error = %v", err)
	}
	for _, block := range []string{"watermark", "logo", "lines", "summary", "extras", "branding"} {
		if !strings.Contains(html, `{{define "`+block+`"}}`) {
			t.Errorf("partials.html missing %q", block)
		}
	}
	if !strings.Contains(html, "Created with Proofa") {
		t.Error("partials.html missing branding text")
	}
}

func TestEmbeddedLoader_Errors(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	if _, err := loader.LoadStyle("nonexistent-style-xyz"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplate("nonexistent"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadTemplate("../page"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
	}
}

func TestEmbeddedLoader_Files(t *testing.T) {
	t.Parallel()

	files, err := NewEmbeddedLoader().Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	for _, want := range []string{"styles/base.css", "templates/page.html", "templates/partials.html"} {
		if !slices.Contains(files, want) {
			t.Errorf("Files() missing %q in %v", want, files)
		}
	}
	for _, name := range TemplateSetNames {
		if !slices.Contains(files, styleKind.rel(name)) || !slices.Contains(files, templateKind.rel(name)) {
			t.Errorf("Files() missing assets for %q", name)
		}
	}
}

func TestExportBuiltin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	written, err := ExportBuiltin(dir, false)
	if err != nil {
		t.Fatalf("ExportBuiltin() error = %v", err)
	}
	files, _ := NewEmbeddedLoader().Files()
	if len(written) != len(files) {
		t.Errorf("wrote %d files, want %d", len(written), len(files))
	}

	fsLoader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	for _, name := range TemplateSetNames {
		if _, err := loadTemplateSet(fsLoader, name); err != nil {
			t.Errorf("exported %q does not assemble: %v", name, err)
		}
	}

	if _, err := ExportBuiltin(dir, false); !errors.Is(err, ErrAssetExists) {
		t.Errorf("second ExportBuiltin() error = %v, want ErrAssetExists", err)
	}

	edited := filepath.Join(dir, "styles", "bold.css")
	if err := os.WriteFile(edited, []byte(".doc-bold{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExportBuiltin(dir, true); err != nil {
		t.Fatalf("forced ExportBuiltin() error = %v", err)
	}
	got, _ := os.ReadFile(edited)
	if string(got) == ".doc-bold{}" {
		t.Error("overwrite did not restore the built-in stylesheet")
	}
}

func TestEmbeddedLoader_PageExecutesDocument(t *testing.T) {
	t.Parallel()

	page, err := NewEmbeddedLoader().LoadTemplate(PageTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate(page) error = %v", err)
	}
	if !strings.Contains(page, `{{template "document" .Doc}}`) {
		t.Error("page template must execute the document template")
	}
}
