package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// PNGDataURLPrefix starts every data URL produced by Raster.DataURL.
const PNGDataURLPrefix = "data:image/png;base64,"

// ErrInvalidDataURL is returned when a data URL is not a base64 PNG.
var ErrInvalidDataURL = errors.New("invalid PNG data URL")

// Raster is a captured PNG. It is never modified after Capture returns it.
type Raster struct {
	PNG    []byte
	Width  int     // pixels
	Height int     // pixels
	Scale  float64 // device pixels per CSS pixel

	// Natural size of the target in CSS pixels.
	CSSWidth  float64
	CSSHeight float64
}

// DataURL encodes the raster as a base64 PNG data URL.
func (r *Raster) DataURL() string {
	return PNGDataURLPrefix + base64.StdEncoding.EncodeToString(r.PNG)
}

// DecodeDataURL returns the PNG bytes held by a data URL.
func DecodeDataURL(u string) ([]byte, error) {
	if !strings.HasPrefix(u, PNGDataURLPrefix) {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, PNGDataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidDataURL
	}
	return data, nil
}

// PNGBytes returns the encoded image.
func (r *Raster) PNGBytes() ([]byte, error) {
	if r == nil || len(r.PNG) == 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrInvalidDataURL)
	}
	return r.PNG, nil
}
