// Package config loads and validates proofa's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-proofa/internal/fileutil"
	"github.com/alnah/go-proofa/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched for configs.
const AppDirName = "go-proofa"

// Field length limits.
const (
	MaxBrandLength    = 50   // Prefix of exported file names
	MaxCurrencyLength = 3    // ISO 4217 code
	MaxDateLength     = 50   // Date format string
	MaxTemplateLength = 30   // "minimalist", "bold", "classic"
	MaxPathLength     = 4096 // Filesystem path
	MaxURLLength      = 2048 // Browser limit
	MaxCommandLength  = 1024 // Share command line
	MaxMessageLength  = 500  // Deep-link share text
)

// Default values.
const (
	DefaultBrand                = "Proofa"
	DefaultCurrency             = "NGN"
	DefaultTemplate             = "minimalist"
	DefaultScale                = 2.0
	DefaultSettleDelay          = 100 * time.Millisecond
	DefaultTimeout              = 30 * time.Second
	DefaultLongContentThreshold = 2000
	DefaultDebounce             = 400 * time.Millisecond
	DefaultBakeWait             = 1500 * time.Millisecond
	DefaultWhatsAppURL          = "https://wa.me/"
	DefaultCancelExitCode       = 130
	MaxHistoryItems             = 20
)

// Config holds all configuration for document export and sharing.
type Config struct {
	Brand    BrandConfig    `yaml:"brand"`
	Template TemplateConfig `yaml:"template"`
	Output   OutputConfig   `yaml:"output"`
	Capture  CaptureConfig  `yaml:"capture"`
	PDF      PDFConfig      `yaml:"pdf"`
	Share    ShareConfig    `yaml:"share"`
	Session  SessionConfig  `yaml:"session"`
	History  HistoryConfig  `yaml:"history"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// BrandConfig defines how documents and file names are branded.
type BrandConfig struct {
	Name       string `yaml:"name"`       // File name prefix (default: "Proofa")
	Currency   string `yaml:"currency"`   // ISO 4217 code (default: "NGN")
	DateFormat string `yaml:"dateFormat"` // Token format or preset (default: "D MMM YYYY")
}

// TemplateConfig selects the default document template.
type TemplateConfig struct {
	Name string `yaml:"name"` // "minimalist", "bold", "classic"
}

// OutputConfig defines where downloads land.
type OutputConfig struct {
	DownloadDir string `yaml:"downloadDir"` // Empty = ~/Downloads or current directory
}

// CaptureConfig tunes rasterization.
type CaptureConfig struct {
	Scale         float64 `yaml:"scale"`         // Supersampling factor, >= 2
	SettleDelayMS int     `yaml:"settleDelayMs"` // Wait after load before capture
	TimeoutSec    int     `yaml:"timeoutSec"`    // Page load timeout
}

// PDFConfig defines PDF layout options.
type PDFConfig struct {
	Paginate             bool `yaml:"paginate"`             // Slice long documents into A4 pages
	LongContentThreshold int  `yaml:"longContentThreshold"` // CSS px before a long-content warning
}

// ShareConfig defines how documents leave the machine.
type ShareConfig struct {
	Command        string `yaml:"command"`        // e.g. "kdeconnect-cli --share {file}"; empty = download only
	CancelExitCode int    `yaml:"cancelExitCode"` // Exit status meaning "user dismissed" (default: 130)
	WhatsAppURL    string `yaml:"whatsappUrl"`    // Deep-link endpoint (default: https://wa.me/)
	GenericURL     string `yaml:"genericUrl"`     // Deep-link endpoint for generic shares; empty = none
	Message        string `yaml:"message"`        // Text sent with the deep link
}

// SessionConfig tunes the pre-bake state machine.
type SessionConfig struct {
	DebounceMS int `yaml:"debounceMs"`
	BakeWaitMS int `yaml:"bakeWaitMs"`
}

// HistoryConfig defines the local document history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite file; empty = user config dir
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// SettleDelay returns the capture settle delay as a duration.
func (c CaptureConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// Timeout returns the page load timeout as a duration.
func (c CaptureConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Debounce returns the bake debounce window.
func (c SessionConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// BakeWait returns the tap-time wait for an in-flight bake.
func (c SessionConfig) BakeWait() time.Duration {
	return time.Duration(c.BakeWaitMS) * time.Millisecond
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"brand.name", c.Brand.Name, MaxBrandLength},
		{"brand.currency", c.Brand.Currency, MaxCurrencyLength},
		{"brand.dateFormat", c.Brand.DateFormat, MaxDateLength},
		{"template.name", c.Template.Name, MaxTemplateLength},
		{"output.downloadDir", c.Output.DownloadDir, MaxPathLength},
		{"share.command", c.Share.Command, MaxCommandLength},
		{"share.whatsappUrl", c.Share.WhatsAppURL, MaxURLLength},
		{"share.genericUrl", c.Share.GenericURL, MaxURLLength},
		{"share.message", c.Share.Message, MaxMessageLength},
		{"history.path", c.History.Path, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if strings.ContainsAny(c.Brand.Name, "/\\\x00") {
		return fmt.Errorf("%w: brand.name must not contain path separators", ErrInvalidValue)
	}
	if c.Template.Name != "" {
		switch strings.ToLower(c.Template.Name) {
		case "minimalist", "bold", "classic":
			// valid
		default:
			return fmt.Errorf("%w: template.name %q (must be minimalist, bold, or classic)", ErrInvalidValue, c.Template.Name)
		}
	}
	if c.Capture.Scale != 0 && c.Capture.Scale < 2 {
		return fmt.Errorf("%w: capture.scale must be at least 2, got %.2f", ErrInvalidValue, c.Capture.Scale)
	}
	if c.Capture.Scale > 4 {
		return fmt.Errorf("%w: capture.scale must be at most 4, got %.2f", ErrInvalidValue, c.Capture.Scale)
	}
	if c.Capture.SettleDelayMS < 0 || c.Capture.TimeoutSec < 0 {
		return fmt.Errorf("%w: capture delays must not be negative", ErrInvalidValue)
	}
	if c.PDF.LongContentThreshold < 0 {
		return fmt.Errorf("%w: pdf.longContentThreshold must not be negative", ErrInvalidValue)
	}
	if c.Session.DebounceMS < 0 || c.Session.BakeWaitMS < 0 {
		return fmt.Errorf("%w: session timings must not be negative", ErrInvalidValue)
	}
	for name, u := range map[string]string{"share.whatsappUrl": c.Share.WhatsAppURL, "share.genericUrl": c.Share.GenericURL} {
		if u != "" && !fileutil.IsURL(u) {
			return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidValue, name, u)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Brand:    BrandConfig{Name: DefaultBrand, Currency: DefaultCurrency},
		Template: TemplateConfig{Name: DefaultTemplate},
		Capture: CaptureConfig{
			Scale:         DefaultScale,
			SettleDelayMS: int(DefaultSettleDelay / time.Millisecond),
			TimeoutSec:    int(DefaultTimeout / time.Second),
		},
		PDF:     PDFConfig{LongContentThreshold: DefaultLongContentThreshold},
		Share:   ShareConfig{CancelExitCode: DefaultCancelExitCode, WhatsAppURL: DefaultWhatsAppURL},
		Session: SessionConfig{DebounceMS: int(DefaultDebounce / time.Millisecond), BakeWaitMS: int(DefaultBakeWait / time.Millisecond)},
		History: HistoryConfig{Enabled: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteDefault writes DefaultConfig to path, refusing to overwrite.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return yamlutil.WriteFile(path, DefaultConfig())
}

// UserDir returns ~/.config/go-proofa (or the platform equivalent).
func UserDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName), nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := UserDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory, then ~/.config/go-proofa/.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
