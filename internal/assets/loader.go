package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// AssetLoader reads the raw files a TemplateSet is assembled from.
// Names are bare: "bold", not "templates/bold.html".
type AssetLoader interface {
	LoadStyle(name string) (string, error)    // styles/{name}.css
	LoadTemplate(name string) (string, error) // templates/{name}.html
}

// assetKind locates one family of files inside a loader root.
type assetKind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = assetKind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = assetKind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// rel returns the slash-separated path of name relative to the loader root.
func (k assetKind) rel(name string) string {
	return path.Join(k.dir, name+k.ext)
}

// readAsset validates name and reads it from fsys.
func readAsset(fsys fs.FS, kind assetKind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(fsys, kind.rel(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", kind.notFound, name)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, kind.rel(name), err)
	}
	return string(content), nil
}
