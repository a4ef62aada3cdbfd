// Package capture rasterizes the capture target of a rendered document.
//
// The engine never screenshots the on-screen preview. It deep-clones the
// target into an off-screen container below the document, strips shadows,
// animations and the clone's own transforms, and screenshots the clone at a
// supersampling device scale factor. The container is removed on every exit
// path.
package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-proofa/internal/render"
)

// Capture defaults.
const (
	DefaultScale       = 2.0
	MinScale           = 2.0
	DefaultSettleDelay = 100 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
)

// releaseTimeout bounds clone removal, which runs even after ctx is done.
const releaseTimeout = 5 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithScale sets the supersampling factor. Values below MinScale are raised to it.
func WithScale(s float64) Option {
	return func(e *Engine) {
		e.scale = s
	}
}

// WithSettleDelay sets the pause between scroll reset and measurement.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.settle = d
	}
}

// WithTimeout bounds page load, image loading and the screenshot.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("capture: WithTimeout duration must be positive")
	}
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithMeasureHook registers fn, called with the clone's natural size before
// the screenshot is taken.
func WithMeasureHook(fn func(Rect)) Option {
	return func(e *Engine) {
		e.onMeasure = fn
	}
}

// Engine captures documents one at a time through a single tab.
// Safe for concurrent use; captures are serialized.
type Engine struct {
	tab       Tab
	logger    zerolog.Logger
	scale     float64
	settle    time.Duration
	timeout   time.Duration
	onMeasure func(Rect)

	// sem guards the tab and its clone container.
	sem chan struct{}
}

// New creates an Engine driving tab. The engine owns tab and closes it.
func New(tab Tab, opts ...Option) *Engine {
	e := &Engine{
		tab:     tab,
		logger:  zerolog.Nop(),
		scale:   DefaultScale,
		settle:  DefaultSettleDelay,
		timeout: DefaultTimeout,
		sem:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.scale < MinScale {
		e.scale = MinScale
	}
	return e
}

// Scale returns the supersampling factor in use.
func (e *Engine) Scale() float64 {
	return e.scale
}

// Close releases the tab.
func (e *Engine) Close() error {
	return e.tab.Close()
}

type probeResult struct {
	Count  int     `json:"count"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type imagesResult struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

type cloneResult struct {
	Found bool `json:"found"`
	Rect
}

// Capture loads doc and rasterizes its target.
// Errors are ErrNotFound, ErrCapture (possibly ErrTargetNotLaidOut or
// ErrDuplicateTarget) or a context error. Captures are never retried.
func (e *Engine) Capture(ctx context.Context, doc *render.Document) (*Raster, error) {
	if doc == nil || doc.TargetID == "" {
		return nil, fmt.Errorf("%w: no document", ErrCapture)
	}

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.sem }()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	log := e.logger.With().Str("target", doc.TargetID).Str("key", doc.Key.Short()).Logger()
	start := time.Now()

	raster, err := e.capture(ctx, doc.HTML, doc.TargetID)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("capture failed")
		return nil, err
	}

	log.Debug().
		Int("width", raster.Width).
		Int("height", raster.Height).
		Dur("elapsed", time.Since(start)).
		Msg("captured")
	return raster, nil
}

func (e *Engine) capture(ctx context.Context, html, targetID string) (*Raster, error) {
	if err := e.tab.Load(ctx, html); err != nil {
		return nil, e.wrap(ctx, err)
	}

	// Off-screen bounds are miscomputed when the page is scrolled.
	if _, err := e.tab.Eval(ctx, scrollTopScript); err != nil {
		return nil, e.wrap(ctx, err)
	}
	if err := sleep(ctx, e.settle); err != nil {
		return nil, err
	}

	var probe probeResult
	if err := e.eval(ctx, &probe, probeScript, targetID); err != nil {
		return nil, err
	}
	switch {
	case probe.Count == 0:
		return nil, fmt.Errorf("%w: #%s", ErrNotFound, targetID)
	case probe.Count > 1:
		return nil, fmt.Errorf("%w: %d elements with id %q", ErrDuplicateTarget, probe.Count, targetID)
	case probe.Width <= 0 || probe.Height <= 0:
		return nil, ErrTargetNotLaidOut
	}

	var imgs imagesResult
	if err := e.eval(ctx, &imgs, waitImagesScript, targetID); err != nil {
		return nil, err
	}
	if imgs.Failed > 0 {
		e.logger.Warn().Int("failed", imgs.Failed).Int("total", imgs.Total).Msg("images failed to load")
	}

	clip, release, err := e.acquireClone(ctx, targetID)
	if err != nil {
		return nil, err
	}
	defer release()

	if e.onMeasure != nil {
		e.onMeasure(clip)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := e.tab.Screenshot(ctx, clip, e.scale)
	if err != nil {
		return nil, e.wrap(ctx, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding screenshot: %v", ErrCapture, err)
	}

	return &Raster{
		PNG:       data,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Scale:     e.scale,
		CSSWidth:  clip.Width,
		CSSHeight: clip.Height,
	}, nil
}

// acquireClone inserts the clone container and returns its bounds with a
// release func that removes it. Release is safe to call after ctx is done.
func (e *Engine) acquireClone(ctx context.Context, targetID string) (Rect, func(), error) {
	release := func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if _, err := e.tab.Eval(rctx, releaseCloneScript, CloneRootID); err != nil {
			e.logger.Warn().Err(err).Msg("removing capture clone")
		}
	}

	var res cloneResult
	if err := e.eval(ctx, &res, acquireCloneScript, targetID, CloneRootID, neutralizeStyle); err != nil {
		// The script may have inserted the container before failing.
		release()
		return Rect{}, nil, err
	}
	if !res.Found {
		return Rect{}, nil, fmt.Errorf("%w: #%s", ErrNotFound, targetID)
	}
	if res.Width <= 0 || res.Height <= 0 {
		release()
		return Rect{}, nil, ErrTargetNotLaidOut
	}
	return res.Rect, release, nil
}

// CloneCount reports how many clone containers the loaded page holds.
func (e *Engine) CloneCount(ctx context.Context) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := e.eval(ctx, &res, countClonesScript, CloneRootID); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (e *Engine) eval(ctx context.Context, out any, js string, args ...any) error {
	raw, err := e.tab.Eval(ctx, js, args...)
	if err != nil {
		return e.wrap(ctx, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: decoding script result: %v", ErrCapture, err)
	}
	return nil
}

// wrap passes context errors through and wraps everything else as ErrCapture,
// keeping browser errors such as ErrBrowserConnect matchable.
func (e *Engine) wrap(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", ErrCapture, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
