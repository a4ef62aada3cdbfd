package proofa

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-proofa/internal/capture"
	"github.com/alnah/go-proofa/internal/history"
)

// Option configures a Service.
type Option func(*Service)

// Defaults applied by New.
const (
	defaultTimeout      = capture.DefaultTimeout
	DefaultDebounce     = 400 * time.Millisecond
	DefaultBakeWait     = 1500 * time.Millisecond
	DefaultWhatsAppURL  = "https://wa.me/"
	DefaultDownloadDir  = "."
	DefaultPreviewScale = 0.8
)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout      time.Duration
	scale        float64
	settle       time.Duration
	assetPath    string
	brand        string
	currency     string
	dateFormat   string
	previewScale float64

	downloadDir   string
	paginate      bool
	longThreshold float64
	onLong        func(LongContent)

	debounce    time.Duration
	bakeWait    time.Duration
	whatsAppURL string
	genericURL  string
	message     string

	now func() time.Time
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		timeout:       defaultTimeout,
		scale:         capture.DefaultScale,
		settle:        capture.DefaultSettleDelay,
		brand:         DefaultBrand,
		previewScale:  DefaultPreviewScale,
		downloadDir:   DefaultDownloadDir,
		longThreshold: DefaultLongContentThreshold,
		debounce:      DefaultDebounce,
		bakeWait:      DefaultBakeWait,
		whatsAppURL:   DefaultWhatsAppURL,
		now:           time.Now,
	}
}

// WithTimeout bounds each capture.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("proofa: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithScale sets the supersampling factor (minimum 2).
func WithScale(scale float64) Option {
	return func(s *Service) {
		s.cfg.scale = scale
	}
}

// WithSettleDelay sets the pause between page load and measurement.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Service) {
		s.cfg.settle = d
	}
}

// WithAssetPath loads templates and styles from dir, falling back to the
// embedded ones.
func WithAssetPath(dir string) Option {
	return func(s *Service) {
		s.cfg.assetPath = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithBrand sets the prefix of file names.
func WithBrand(brand string) Option {
	return func(s *Service) {
		if brand != "" {
			s.cfg.brand = brand
		}
	}
}

// WithCurrency sets the ISO 4217 currency of amounts (default NGN).
func WithCurrency(code string) Option {
	return func(s *Service) {
		s.cfg.currency = code
	}
}

// WithDateFormat sets how document dates print.
func WithDateFormat(format string) Option {
	return func(s *Service) {
		s.cfg.dateFormat = format
	}
}

// WithPreviewScale sets the CSS scale of the on-screen preview wrapper.
// It never affects captures.
func WithPreviewScale(scale float64) Option {
	return func(s *Service) {
		s.cfg.previewScale = scale
	}
}

// WithDownloadDir sets where downloads are saved.
func WithDownloadDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.cfg.downloadDir = dir
		}
	}
}

// WithPagination slices tall documents into A4 pages instead of one tall page.
func WithPagination(on bool) Option {
	return func(s *Service) {
		s.cfg.paginate = on
	}
}

// WithLongContentThreshold sets the height, in CSS pixels, above which
// OnLongContent fires. Zero disables the warning.
func WithLongContentThreshold(px float64) Option {
	return func(s *Service) {
		s.cfg.longThreshold = px
	}
}

// OnLongContent registers fn, called before a long document's PDF is built.
func OnLongContent(fn func(LongContent)) Option {
	return func(s *Service) {
		s.cfg.onLong = fn
	}
}

// WithDebounce sets how long a session waits after an edit before baking.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.cfg.debounce = d
		}
	}
}

// WithBakeWait bounds how long a share waits for an in-flight bake.
func WithBakeWait(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.cfg.bakeWait = d
		}
	}
}

// WithWhatsAppURL sets the deep-link endpoint for WhatsApp fallbacks.
func WithWhatsAppURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.cfg.whatsAppURL = u
		}
	}
}

// WithGenericShareURL sets a deep-link endpoint for generic share
// fallbacks. The message is appended as the "text" query parameter.
func WithGenericShareURL(u string) Option {
	return func(s *Service) {
		s.cfg.genericURL = u
	}
}

// WithShareMessage replaces the text sent with shares and deep links.
func WithShareMessage(msg string) Option {
	return func(s *Service) {
		s.cfg.message = msg
	}
}

// HistoryRecord is one exported document kept in history.
type HistoryRecord = history.Record

// HistoryStore records exports.
type HistoryStore interface {
	Save(ctx context.Context, rec HistoryRecord) (HistoryRecord, error)
}

// WithHistory records every download and share in h.
func WithHistory(h HistoryStore) Option {
	return func(s *Service) {
		s.history = h
	}
}

// WithClock sets the clock used for file names and "auto" dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.cfg.now = now
		}
	}
}

// withCapturer replaces the browser capture engine (tests).
func withCapturer(c capturer) Option {
	return func(s *Service) {
		s.capturer = c
	}
}
