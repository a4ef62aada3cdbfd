package render

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/alnah/go-proofa/internal/fileutil"
)

// MaxImageSize bounds logo and signature files inlined into documents.
const MaxImageSize = 5 << 20

// inlineImage turns a file reference into a data URL so the page never
// loads it from disk or across origins at capture time. Data and http(s)
// URLs pass through unchanged. Empty input returns "".
func inlineImage(ref string) (template.URL, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", nil
	case fileutil.IsDataURL(ref):
		if !strings.HasPrefix(ref, "data:image/") {
			return "", fmt.Errorf("%w: data URL is not an image", ErrImageInvalid)
		}
		return template.URL(ref), nil // #nosec G203 -- image data URL
	case fileutil.IsURL(ref):
		return template.URL(ref), nil // #nosec G203 -- http(s) only
	}

	f, err := os.Open(ref) // #nosec G304 -- user-provided logo path
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrImageNotFound, ref)
		}
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrImageInvalid, ref, MaxImageSize)
	}

	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "text/xml") && strings.HasSuffix(strings.ToLower(ref), ".svg") {
		mime = "image/svg+xml"
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s is %s", ErrImageInvalid, ref, mime)
	}

	// #nosec G203 -- built from a sniffed image type
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}
