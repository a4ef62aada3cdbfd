package proofa

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/alnah/go-proofa/internal/assets"
	"github.com/alnah/go-proofa/internal/capture"
	"github.com/alnah/go-proofa/internal/history"
	"github.com/alnah/go-proofa/internal/render"
)

// capturer abstracts rasterization to allow testing without a browser.
type capturer interface {
	Capture(ctx context.Context, doc *render.Document) (*capture.Raster, error)
	Close() error
}

// Compile-time interface check
var _ capturer = (*capture.Engine)(nil)

// Service renders, captures and exports documents. It owns one headless
// browser, started on first capture. Create with New and Close when done.
type Service struct {
	cfg      serviceConfig
	renderer *render.Renderer
	capturer capturer
	builder  *Builder
	history  HistoryStore
	logger   zerolog.Logger
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithDownloadDir).
// Returns error if the asset path is unusable.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg:    defaultServiceConfig(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	resolver, err := assets.NewAssetResolver(s.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	s.renderer = render.New(resolver)

	// Create capture engine if not injected (e.g., by tests)
	if s.capturer == nil {
		s.capturer = capture.New(capture.NewBrowserTab(),
			capture.WithLogger(s.logger.With().Str("component", "capture").Logger()),
			capture.WithScale(s.cfg.scale),
			capture.WithSettleDelay(s.cfg.settle),
			capture.WithTimeout(s.cfg.timeout),
			capture.WithMeasureHook(func(r capture.Rect) {
				s.logger.Debug().Float64("width", r.Width).Float64("height", r.Height).Msg("measured")
			}),
		)
	}

	s.builder = &Builder{
		capturer:  s.capturer,
		dir:       s.cfg.downloadDir,
		brand:     s.cfg.brand,
		now:       s.cfg.now,
		paginate:  s.cfg.paginate,
		threshold: s.cfg.longThreshold,
		onLong:    s.cfg.onLong,
		logger:    s.logger.With().Str("component", "builder").Logger(),
	}
	return s, nil
}

// Render produces the page for p in template t.
func (s *Service) Render(p Payload, t TemplateName) (*RenderedDocument, error) {
	if t == "" {
		t = DefaultTemplate
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrInvalidPayload)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.renderer.Render(p, t, render.Options{
		Currency:     s.cfg.currency,
		DateFormat:   s.cfg.dateFormat,
		Now:          s.cfg.now(),
		PreviewScale: s.cfg.previewScale,
	})
}

// Capture renders p in template t and rasterizes it.
func (s *Service) Capture(ctx context.Context, p Payload, t TemplateName) (*RasterArtifact, error) {
	doc, err := s.Render(p, t)
	if err != nil {
		return nil, err
	}
	return s.capturer.Capture(ctx, doc)
}

// Builder returns the artifact builder.
func (s *Service) Builder() *Builder {
	return s.builder
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.capturer != nil {
		return s.capturer.Close()
	}
	return nil
}

// record saves an export to history. Failures are logged only.
func (s *Service) record(ctx context.Context, p Payload, t TemplateName, path string) {
	if s.history == nil || p == nil {
		return
	}
	rec, err := history.NewRecord(p, t, path)
	if err == nil {
		_, err = s.history.Save(context.WithoutCancel(ctx), rec)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("saving to history")
	}
}
