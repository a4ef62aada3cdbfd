package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-proofa/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // PROOFA_CONFIG: config file path
	Template   string        // PROOFA_TEMPLATE: minimalist, bold, classic
	Timeout    time.Duration // PROOFA_TIMEOUT: capture timeout

	// Tier 2 - Output and identity
	DownloadDir string // PROOFA_DOWNLOAD_DIR: where downloads are saved
	Brand       string // PROOFA_BRAND: file name prefix
	Currency    string // PROOFA_CURRENCY: ISO 4217 code
	DateFormat  string // PROOFA_DATE_FORMAT: document date format

	// Tier 3 - Sharing and storage
	ShareCommand string // PROOFA_SHARE_COMMAND: native share command
	ShareMessage string // PROOFA_SHARE_MESSAGE: text sent with shares
	HistoryPath  string // PROOFA_HISTORY_PATH: SQLite history file
	AssetPath    string // PROOFA_ASSET_PATH: custom templates and styles
	Workers      int    // PROOFA_WORKERS: parallel browsers for export
}

// knownEnvVars lists valid PROOFA_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"PROOFA_CONFIG":   true,
	"PROOFA_TEMPLATE": true,
	"PROOFA_TIMEOUT":  true,
	// Tier 2 - Output and identity
	"PROOFA_DOWNLOAD_DIR": true,
	"PROOFA_BRAND":        true,
	"PROOFA_CURRENCY":     true,
	"PROOFA_DATE_FORMAT":  true,
	// Tier 3 - Sharing and storage
	"PROOFA_SHARE_COMMAND": true,
	"PROOFA_SHARE_MESSAGE": true,
	"PROOFA_HISTORY_PATH":  true,
	"PROOFA_ASSET_PATH":    true,
	"PROOFA_WORKERS":       true,
	// Diagnostics
	"PROOFA_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized PROOFA_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("PROOFA_CONFIG"),
		Template:   os.Getenv("PROOFA_TEMPLATE"),
		// Tier 2
		DownloadDir: os.Getenv("PROOFA_DOWNLOAD_DIR"),
		Brand:       os.Getenv("PROOFA_BRAND"),
		Currency:    os.Getenv("PROOFA_CURRENCY"),
		DateFormat:  os.Getenv("PROOFA_DATE_FORMAT"),
		// Tier 3
		ShareCommand: os.Getenv("PROOFA_SHARE_COMMAND"),
		ShareMessage: os.Getenv("PROOFA_SHARE_MESSAGE"),
		HistoryPath:  os.Getenv("PROOFA_HISTORY_PATH"),
		AssetPath:    os.Getenv("PROOFA_ASSET_PATH"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("PROOFA_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("PROOFA_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PROOFA_* variables.
// Helps catch typos like PROOFA_TEMPLTE instead of PROOFA_TEMPLATE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PROOFA_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig copies the set environment values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags; timeout in resolveTimeout).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	// Tier 1
	set(&cfg.Template.Name, env.Template)

	// Tier 2
	set(&cfg.Output.DownloadDir, env.DownloadDir)
	set(&cfg.Brand.Name, env.Brand)
	set(&cfg.Brand.Currency, env.Currency)
	set(&cfg.Brand.DateFormat, env.DateFormat)

	// Tier 3
	set(&cfg.Share.Command, env.ShareCommand)
	set(&cfg.Share.Message, env.ShareMessage)
	set(&cfg.History.Path, env.HistoryPath)
	set(&cfg.Assets.BasePath, env.AssetPath)
}
