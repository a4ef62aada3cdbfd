package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/config"
	"github.com/alnah/go-proofa/internal/history"
	"github.com/alnah/go-proofa/internal/logging"
)

// historyFileName is the SQLite file kept in the user config directory.
const historyFileName = "history.db"

// app holds what a document command needs once flags, environment and
// config file are resolved.
type app struct {
	env      *Environment
	cfg      *config.Config
	logger   zerolog.Logger
	pool     Pool
	platform proofa.Platform
	store    *history.Store
	// template is set when --template overrides the document's own template.
	template proofa.TemplateName
	quiet    bool
	verbose  bool
}

// newApp resolves configuration and creates a pool of poolSize services.
func newApp(ctx context.Context, flags *intentFlags, poolSize int, env *Environment) (*app, error) {
	var tmpl proofa.TemplateName
	if flags.document.template != "" {
		t, err := proofa.ParseTemplateName(flags.document.template)
		if err != nil {
			return nil, err
		}
		tmpl = t
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg, env)
	if err != nil {
		return nil, err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveTimeout(flags.capture.timeout, envCfg.Timeout, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		env:      env,
		cfg:      cfg,
		logger:   logging.New(env.Stderr, logging.ModeFor(flags.common.verbose, flags.common.quiet, isTerminal(env.Stderr))),
		platform: selectPlatform(cfg.Share.Command, cfg.Share.CancelExitCode),
		quiet:    flags.common.quiet,
		verbose:  flags.common.verbose,
	}
	a.template = tmpl

	if cfg.History.Enabled {
		a.store, err = openHistory(ctx, cfg)
		if err != nil {
			// Exports still work without history.
			a.logger.Warn().Err(err).Msg("history disabled")
		}
	}

	a.logger.Debug().
		Int("pool", poolSize).
		Stringer("platform", a.platform.Capability()).
		Dur("timeout", timeout).
		Msg("starting")
	a.pool = env.NewPool(poolSize, a.serviceOptions(timeout)...)
	return a, nil
}

// serviceOptions translates the resolved config into service options.
func (a *app) serviceOptions(timeout time.Duration) []proofa.Option {
	cfg := a.cfg
	opts := []proofa.Option{
		proofa.WithLogger(a.logger),
		proofa.WithClock(a.env.Now),
		proofa.WithBrand(cfg.Brand.Name),
		proofa.WithCurrency(cfg.Brand.Currency),
		proofa.WithDateFormat(cfg.Brand.DateFormat),
		proofa.WithDownloadDir(resolveDownloadDir(cfg)),
		proofa.WithPagination(cfg.PDF.Paginate),
		proofa.WithLongContentThreshold(float64(cfg.PDF.LongContentThreshold)),
		proofa.OnLongContent(func(lc proofa.LongContent) {
			a.logger.Warn().
				Str("type", string(lc.Type)).
				Float64("height", lc.Height).
				Msg("long document, the PDF will be a single tall page (use --paginate for A4 pages)")
		}),
		proofa.WithDebounce(cfg.Session.Debounce()),
		proofa.WithBakeWait(cfg.Session.BakeWait()),
		proofa.WithWhatsAppURL(cfg.Share.WhatsAppURL),
		proofa.WithGenericShareURL(cfg.Share.GenericURL),
		proofa.WithShareMessage(cfg.Share.Message),
		proofa.WithTimeout(timeout),
	}
	if cfg.Capture.Scale > 0 {
		opts = append(opts, proofa.WithScale(cfg.Capture.Scale))
	}
	if cfg.Capture.SettleDelayMS > 0 {
		opts = append(opts, proofa.WithSettleDelay(cfg.Capture.SettleDelay()))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, proofa.WithAssetPath(cfg.Assets.BasePath))
	}
	if a.store != nil {
		opts = append(opts, proofa.WithHistory(a.store))
	}
	return opts
}

// templateFor picks the template: --template, then the document's own,
// then the config.
func (a *app) templateFor(doc proofa.TemplateName) proofa.TemplateName {
	if a.template != "" {
		return a.template
	}
	if doc != "" {
		return doc
	}
	// Validated with the config.
	t, _ := proofa.ParseTemplateName(a.cfg.Template.Name)
	return t
}

// Close releases the browsers and the history store.
func (a *app) Close() error {
	var errs []error
	if a.pool != nil {
		errs = append(errs, a.pool.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// loadConfig resolves the config file: --config, then PROOFA_CONFIG, then
// the injected config, then "proofa" in the search paths. Defaults apply
// when no file exists. Environment values are applied on top.
func loadConfig(flagPath string, envCfg *envConfig, env *Environment) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = envCfg.ConfigPath
	}

	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadConfig(path)
	case env.Config != nil:
		c := *env.Config
		cfg = &c
	default:
		cfg, err = config.LoadConfig(defaultConfigName)
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.DefaultConfig(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags applies CLI flags to config (CLI wins).
func mergeFlags(flags *intentFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Template.Name, flags.document.template)
	set(&cfg.Brand.Name, flags.document.brand)
	set(&cfg.Brand.Currency, flags.document.currency)
	set(&cfg.Brand.DateFormat, flags.document.dateFormat)
	set(&cfg.Output.DownloadDir, flags.output.dir)
	set(&cfg.Assets.BasePath, flags.capture.assetPath)
	set(&cfg.Share.Command, flags.share.command)
	set(&cfg.Share.Message, flags.share.message)

	if flags.output.paginate {
		cfg.PDF.Paginate = true
	}
	if flags.output.noHistory {
		cfg.History.Enabled = false
	}
	if flags.capture.scale != 0 {
		cfg.Capture.Scale = flags.capture.scale
	}
}

// resolveTimeout picks the capture timeout: flag, then PROOFA_TIMEOUT,
// then the config, then the library default.
func resolveTimeout(flagValue string, envValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, usageError("invalid timeout %q: %v", flagValue, err)
		}
		if d <= 0 {
			return 0, usageError("timeout must be positive, got %s", flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	if d := cfg.Capture.Timeout(); d > 0 {
		return d, nil
	}
	return config.DefaultTimeout, nil
}

// resolveDownloadDir returns the configured directory, else ~/Downloads
// when it exists, else the current directory.
func resolveDownloadDir(cfg *config.Config) string {
	if cfg.Output.DownloadDir != "" {
		return cfg.Output.DownloadDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return proofa.DefaultDownloadDir
}

// historyPath returns the configured history file or the default one in the
// user config directory.
func historyPath(cfg *config.Config) (string, error) {
	if cfg.History.Path != "" {
		return cfg.History.Path, nil
	}
	dir, err := config.UserDir()
	if err != nil {
		return "", fmt.Errorf("%w: locating config directory: %v", history.ErrStore, err)
	}
	return filepath.Join(dir, historyFileName), nil
}

// openHistory opens the history store, creating its directory.
func openHistory(ctx context.Context, cfg *config.Config) (*history.Store, error) {
	path, err := historyPath(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", history.ErrStore, err)
	}
	return history.Open(ctx, path)
}
