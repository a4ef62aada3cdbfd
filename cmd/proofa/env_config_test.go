package main

// Notes:
// - loadEnvConfig: we test every PROOFA_* variable across the 3 tiers.
//   Invalid and negative values for timeout and workers are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: env values override the config file; empty values do not.
// - Tests use t.Setenv() which prevents t.Parallel().
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-proofa/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("Tier 1 - Essential", func(t *testing.T) {
		t.Setenv("PROOFA_CONFIG", "/path/to/proofa.yaml")
		t.Setenv("PROOFA_TEMPLATE", "bold")
		t.Setenv("PROOFA_TIMEOUT", "2m")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/proofa.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/proofa.yaml", cfg.ConfigPath)
		}
		if cfg.Template != "bold" {
			t.Errorf("Template = %q, want bold", cfg.Template)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
	})

	t.Run("Tier 2 - Output and identity", func(t *testing.T) {
		t.Setenv("PROOFA_DOWNLOAD_DIR", "/downloads")
		t.Setenv("PROOFA_BRAND", "AdaFabrics")
		t.Setenv("PROOFA_CURRENCY", "USD")
		t.Setenv("PROOFA_DATE_FORMAT", "iso")

		cfg := loadEnvConfig()

		if cfg.DownloadDir != "/downloads" {
			t.Errorf("DownloadDir = %q, want /downloads", cfg.DownloadDir)
		}
		if cfg.Brand != "AdaFabrics" {
			t.Errorf("Brand = %q, want AdaFabrics", cfg.Brand)
		}
		if cfg.Currency != "USD" {
			t.Errorf("Currency = %q, want USD", cfg.Currency)
		}
		if cfg.DateFormat != "iso" {
			t.Errorf("DateFormat = %q, want iso", cfg.DateFormat)
		}
	})

	t.Run("Tier 3 - Sharing and storage", func(t *testing.T) {
		t.Setenv("PROOFA_SHARE_COMMAND", "kdeconnect-cli --share {file}")
		t.Setenv("PROOFA_SHARE_MESSAGE", "Thanks for your order")
		t.Setenv("PROOFA_HISTORY_PATH", "/data/history.db")
		t.Setenv("PROOFA_ASSET_PATH", "/assets")
		t.Setenv("PROOFA_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.ShareCommand != "kdeconnect-cli --share {file}" {
			t.Errorf("ShareCommand = %q", cfg.ShareCommand)
		}
		if cfg.ShareMessage != "Thanks for your order" {
			t.Errorf("ShareMessage = %q", cfg.ShareMessage)
		}
		if cfg.HistoryPath != "/data/history.db" {
			t.Errorf("HistoryPath = %q, want /data/history.db", cfg.HistoryPath)
		}
		if cfg.AssetPath != "/assets" {
			t.Errorf("AssetPath = %q, want /assets", cfg.AssetPath)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		tests := []struct {
			name    string
			timeout string
			workers string
		}{
			{"unparseable", "soon", "many"},
			{"negative", "-5s", "-2"},
			{"zero", "0s", "0"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("PROOFA_TIMEOUT", tt.timeout)
				t.Setenv("PROOFA_WORKERS", tt.workers)

				cfg := loadEnvConfig()

				if cfg.Timeout != 0 {
					t.Errorf("Timeout = %v, want 0", cfg.Timeout)
				}
				if cfg.Workers != 0 {
					t.Errorf("Workers = %d, want 0", cfg.Workers)
				}
			})
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("warns on typo", func(t *testing.T) {
		t.Setenv("PROOFA_TEMPLTE", "bold")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "PROOFA_TEMPLTE") {
			t.Errorf("expected warning for PROOFA_TEMPLTE, got %q", buf.String())
		}
	})

	t.Run("known vars do not warn", func(t *testing.T) {
		t.Setenv("PROOFA_TEMPLATE", "bold")
		t.Setenv("PROOFA_CONTAINER", "1")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "PROOFA_TEMPLATE ") || strings.Contains(buf.String(), "PROOFA_CONTAINER") {
			t.Errorf("known vars should not warn, got %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env values over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Brand.Name = "FromFile"
		cfg.Share.Command = "file-share {file}"

		applyEnvConfig(&envConfig{
			Template:     "classic",
			Brand:        "FromEnv",
			Currency:     "GHS",
			ShareCommand: "env-share {file}",
			HistoryPath:  "/tmp/h.db",
		}, cfg)

		if cfg.Template.Name != "classic" {
			t.Errorf("Template.Name = %q, want classic", cfg.Template.Name)
		}
		if cfg.Brand.Name != "FromEnv" {
			t.Errorf("Brand.Name = %q, want FromEnv", cfg.Brand.Name)
		}
		if cfg.Brand.Currency != "GHS" {
			t.Errorf("Brand.Currency = %q, want GHS", cfg.Brand.Currency)
		}
		if cfg.Share.Command != "env-share {file}" {
			t.Errorf("Share.Command = %q, want env-share {file}", cfg.Share.Command)
		}
		if cfg.History.Path != "/tmp/h.db" {
			t.Errorf("History.Path = %q, want /tmp/h.db", cfg.History.Path)
		}
	})

	t.Run("empty env keeps file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Brand.Name = "FromFile"
		cfg.Output.DownloadDir = "/file/downloads"

		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Brand.Name != "FromFile" {
			t.Errorf("Brand.Name = %q, want FromFile", cfg.Brand.Name)
		}
		if cfg.Output.DownloadDir != "/file/downloads" {
			t.Errorf("Output.DownloadDir = %q, want /file/downloads", cfg.Output.DownloadDir)
		}
	})
}

// ---------------------------------------------------------------------------
// TestKnownEnvVars - Every loaded variable is declared
// ---------------------------------------------------------------------------

func TestKnownEnvVars(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"PROOFA_CONFIG", "PROOFA_TEMPLATE", "PROOFA_TIMEOUT",
		"PROOFA_DOWNLOAD_DIR", "PROOFA_BRAND", "PROOFA_CURRENCY", "PROOFA_DATE_FORMAT",
		"PROOFA_SHARE_COMMAND", "PROOFA_SHARE_MESSAGE", "PROOFA_HISTORY_PATH",
		"PROOFA_ASSET_PATH", "PROOFA_WORKERS", "PROOFA_CONTAINER",
	} {
		if !knownEnvVars[name] {
			t.Errorf("%s missing from knownEnvVars", name)
		}
	}
}
