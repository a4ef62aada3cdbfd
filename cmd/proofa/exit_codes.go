package main

import (
	"errors"
	"os"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/assets"
	"github.com/alnah/go-proofa/internal/config"
	"github.com/alnah/go-proofa/internal/document"
	"github.com/alnah/go-proofa/internal/history"
	"github.com/alnah/go-proofa/internal/render"
)

// Exit codes for the proofa CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126,
// and 128+SIGINT when a signal stops the run.
const (
	ExitSuccess = 0 // Export finished, or the user dismissed the share sheet
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, document or template
	ExitIO      = 3 // File not found, permission denied, artifact not saved
	ExitBrowser = 4 // Browser/Chrome or capture errors

	ExitInterrupted = 130 // Stopped by SIGINT/SIGTERM
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, proofa.ErrBrowserConnect) ||
		errors.Is(err, proofa.ErrCapture) ||
		errors.Is(err, proofa.ErrNotFound) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, proofa.ErrInvalidPayload) ||
		errors.Is(err, proofa.ErrInvalidAssetPath) ||
		errors.Is(err, document.ErrUnknownKind) ||
		errors.Is(err, document.ErrUnknownTemplate) ||
		errors.Is(err, document.ErrDecode) ||
		errors.Is(err, render.ErrUnknownCurrency) ||
		errors.Is(err, render.ErrImageNotFound) ||
		errors.Is(err, render.ErrImageInvalid) ||
		errors.Is(err, render.ErrTargetMismatch) ||
		errors.Is(err, history.ErrNotFound) ||
		errors.Is(err, ErrConfigExists) ||
		errors.Is(err, assets.ErrAssetExists) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, proofa.ErrBuild) ||
		errors.Is(err, history.ErrStore) {
		return ExitIO
	}

	return ExitGeneral
}
