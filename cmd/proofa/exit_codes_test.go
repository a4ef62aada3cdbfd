package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every package the CLI calls,
//   plus wrapped errors to verify the errors.Is() chain works correctly.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/config"
	"github.com/alnah/go-proofa/internal/document"
	"github.com/alnah/go-proofa/internal/history"
	"github.com/alnah/go-proofa/internal/render"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", proofa.ErrBrowserConnect, ExitBrowser},
		{"capture", proofa.ErrCapture, ExitBrowser},
		{"target not found", proofa.ErrNotFound, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", proofa.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read document", ErrReadDocument, ExitIO},
		{"build", proofa.ErrBuild, ExitIO},
		{"history store", history.ErrStore, ExitIO},
		{"wrapped read document", fmt.Errorf("%w: %w", ErrReadDocument, os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"invalid payload", proofa.ErrInvalidPayload, ExitUsage},
		{"invalid asset path", proofa.ErrInvalidAssetPath, ExitUsage},
		{"unknown document type", document.ErrUnknownKind, ExitUsage},
		{"unknown template", document.ErrUnknownTemplate, ExitUsage},
		{"decode", document.ErrDecode, ExitUsage},
		{"unknown currency", render.ErrUnknownCurrency, ExitUsage},
		{"logo not found", render.ErrImageNotFound, ExitUsage},
		{"logo invalid", render.ErrImageInvalid, ExitUsage},
		{"target mismatch", render.ErrTargetMismatch, ExitUsage},
		{"history record not found", history.ErrNotFound, ExitUsage},
		{"config exists", ErrConfigExists, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},
		{"usage error helper", usageError("bad %s", "flag"), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"deadline", context.DeadlineExceeded, ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix convention compliance
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	if ExitIO >= 126 {
		t.Errorf("ExitIO = %d, should be < 126", ExitIO)
	}
	if ExitBrowser >= 126 {
		t.Errorf("ExitBrowser = %d, should be < 126", ExitBrowser)
	}
	if ExitInterrupted != 128+2 {
		t.Errorf("ExitInterrupted = %d, want 130", ExitInterrupted)
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints for errors
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", fmt.Errorf("capture: %w", context.DeadlineExceeded), "--timeout"},
		{"missing target", proofa.ErrNotFound, `id="document-preview"`},
		{"capture", proofa.ErrCapture, "logo"},
		{"build", proofa.ErrBuild, "--out"},
		{"unknown template", fmt.Errorf("%w: neon", document.ErrUnknownTemplate), "minimalist, bold, classic"},
		{"config not found", config.ErrConfigNotFound, "--config"},
		{"no hint", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor(%v) = %q, want empty", tt.err, got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor(%v) = %q, want it to contain %q", tt.err, got, tt.want)
			}
		})
	}
}
