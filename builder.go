package proofa

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"

	"github.com/alnah/go-proofa/internal/fileutil"
)

// A4 page size in millimeters.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// DefaultLongContentThreshold is the natural height, in CSS pixels, above
// which exports warn that they may take longer.
const DefaultLongContentThreshold = 2000

// LongContent describes a document taller than the configured threshold.
type LongContent struct {
	Type      DocumentType
	Height    float64 // CSS pixels
	Threshold float64
}

// Builder turns rasters into saved PNG and PDF files.
type Builder struct {
	capturer  capturer
	dir       string
	brand     string
	now       func() time.Time
	paginate  bool
	threshold float64
	onLong    func(LongContent)
	logger    zerolog.Logger
}

// Filename returns <brand>-<doctype>-<unixms>.<ext> for the current time.
func (b *Builder) Filename(kind DocumentType, ext string) string {
	return filename(b.brand, kind, b.now(), ext)
}

// Dir is the download directory.
func (b *Builder) Dir() string {
	return b.dir
}

// ToDownloadableImage saves src as filename in the download directory and
// returns the final path. The bytes go to a hidden temporary file first,
// which is synced and renamed into place, so the download is never seen
// half-written. An existing file with the same name gets a " (n)" suffix.
func (b *Builder) ToDownloadableImage(ctx context.Context, src ImageSource, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if src == nil {
		return "", fmt.Errorf("%w: no image", ErrBuild)
	}
	data, err := src.PNGBytes()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return b.save(filename, data)
}

// ToPDF captures doc and saves it as a PDF named filename. It reports
// success and never returns an error or panics; failures are logged.
func (b *Builder) ToPDF(ctx context.Context, doc *RenderedDocument, filename string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Msg("pdf export panicked")
			ok = false
		}
	}()

	path, err := b.ExportPDF(ctx, doc, filename)
	if err != nil {
		b.logger.Error().Err(err).Str("file", filename).Msg("pdf export failed")
		return false
	}
	b.logger.Info().Str("path", path).Msg("pdf saved")
	return true
}

// ExportPDF captures doc, builds the PDF and saves it. Returns the final path.
func (b *Builder) ExportPDF(ctx context.Context, doc *RenderedDocument, filename string) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: no document", ErrBuild)
	}
	if b.capturer == nil {
		return "", fmt.Errorf("%w: no capture engine", ErrBuild)
	}
	raster, err := b.capturer.Capture(ctx, doc)
	if err != nil {
		return "", err
	}
	return b.SavePDF(ctx, raster, doc.Kind, filename)
}

// SavePDF builds a PDF from an existing raster and saves it.
func (b *Builder) SavePDF(ctx context.Context, raster *RasterArtifact, kind DocumentType, filename string) (string, error) {
	b.checkLength(raster, kind)

	data, err := b.BuildPDF(raster)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.save(filename, data)
}

// BuildPDF lays raster out on A4-wide pages. In single-page mode the page
// height follows the raster's aspect ratio (210 × h / w mm) and the image
// fills the page. In paginated mode the raster is sliced into A4 pages.
// The result is validated before it is returned.
func (b *Builder) BuildPDF(raster *RasterArtifact) ([]byte, error) {
	if raster == nil || len(raster.PNG) == 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrBuild)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raster.PNG))
	if err != nil {
		return nil, fmt.Errorf("%w: reading image size: %v", ErrBuild, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrBuild, cfg.Width, cfg.Height)
	}

	pages := []pdfPage{{png: raster.PNG, height: A4WidthMM * float64(cfg.Height) / float64(cfg.Width)}}
	if b.paginate {
		pages, err = slicePages(raster.PNG, cfg.Width)
		if err != nil {
			return nil, err
		}
	}

	data, err := writePDF(pages, b.paginate)
	if err != nil {
		return nil, err
	}
	if err := validatePDF(data, len(pages)); err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Builder) save(name string, data []byte) (string, error) {
	path, err := fileutil.WriteFileAtomic(b.dir, name, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuild, err)
	}
	b.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("file saved")
	return path, nil
}

func (b *Builder) checkLength(raster *RasterArtifact, kind DocumentType) {
	if raster == nil || b.threshold <= 0 || raster.CSSHeight <= b.threshold {
		return
	}
	b.logger.Warn().
		Float64("height", raster.CSSHeight).
		Float64("threshold", b.threshold).
		Msg("long document, export may take longer")
	if b.onLong != nil {
		b.onLong(LongContent{Type: kind, Height: raster.CSSHeight, Threshold: b.threshold})
	}
}

// pdfPage is one page image and its height in millimeters at A4 width.
type pdfPage struct {
	png    []byte
	height float64
}

func writePDF(pages []pdfPage, a4 bool) ([]byte, error) {
	pageHeight := func(p pdfPage) float64 {
		if a4 {
			return A4HeightMM
		}
		return p.height
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		Unit:     gopdf.UnitMM,
		PageSize: gopdf.Rect{W: A4WidthMM, H: pageHeight(pages[0])},
	})

	for i, p := range pages {
		holder, err := gopdf.ImageHolderByBytes(p.png)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d image: %v", ErrBuild, i+1, err)
		}
		pdf.AddPageWithOption(gopdf.PageOption{PageSize: &gopdf.Rect{W: A4WidthMM, H: pageHeight(p)}})
		if err := pdf.ImageByHolder(holder, 0, 0, &gopdf.Rect{W: A4WidthMM, H: p.height}); err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrBuild, i+1, err)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: writing PDF: %v", ErrBuild, err)
	}
	return buf.Bytes(), nil
}

// slicePages cuts the image into strips with the A4 aspect ratio. The last
// strip keeps its natural height.
func slicePages(data []byte, width int) ([]pdfPage, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", ErrBuild, err)
	}
	bounds := img.Bounds()
	stripHeight := int(float64(width) * A4HeightMM / A4WidthMM)

	var pages []pdfPage
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stripHeight {
		rect := image.Rect(bounds.Min.X, y, bounds.Max.X, min(y+stripHeight, bounds.Max.Y))
		strip := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Draw(strip, strip.Bounds(), img, rect.Min, draw.Src)

		var buf bytes.Buffer
		if err := png.Encode(&buf, strip); err != nil {
			return nil, fmt.Errorf("%w: encoding page: %v", ErrBuild, err)
		}
		pages = append(pages, pdfPage{
			png:    buf.Bytes(),
			height: A4WidthMM * float64(rect.Dy()) / float64(width),
		})
	}
	return pages, nil
}

var disablePDFConfigDir sync.Once

// validatePDF parses data with pdfcpu and checks the page count.
func validatePDF(data []byte, wantPages int) error {
	disablePDFConfigDir.Do(api.DisableConfigDir)

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return fmt.Errorf("%w: invalid PDF: %v", ErrBuild, err)
	}
	if ctx.PageCount != wantPages {
		return fmt.Errorf("%w: PDF has %d pages, want %d", ErrBuild, ctx.PageCount, wantPages)
	}
	return nil
}
