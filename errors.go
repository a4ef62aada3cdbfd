package proofa

import (
	"errors"

	"github.com/alnah/go-proofa/internal/capture"
	"github.com/alnah/go-proofa/internal/document"
)

// Sentinel errors for library operations.
var (
	// ErrNotFound means the capture target is missing from the rendered page.
	ErrNotFound = capture.ErrNotFound
	// ErrCapture means rasterization failed. Not retried.
	ErrCapture = capture.ErrCapture
	// ErrBrowserConnect means the headless browser could not be started.
	ErrBrowserConnect = capture.ErrBrowserConnect

	// ErrShareAborted means the user dismissed the share sheet. Not an error
	// from the user's point of view.
	ErrShareAborted = errors.New("share aborted")
	// ErrShareUnsupported means the platform cannot share the file. Routed
	// to the download fallback, never surfaced.
	ErrShareUnsupported = errors.New("file sharing unsupported")
	// ErrBuild means the PNG or PDF artifact could not be produced or saved.
	ErrBuild = errors.New("artifact build failed")

	ErrInvalidPayload   = document.ErrInvalidPayload
	ErrSessionClosed    = errors.New("session closed")
	ErrNoDocument       = errors.New("session has no document")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrOpenURL          = errors.New("failed to open URL")
)
