package capture

import (
	"errors"
	"fmt"
)

// Sentinel errors for capture operations.
var (
	ErrNotFound       = errors.New("capture target not found")
	ErrCapture        = errors.New("capture failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")

	// ErrTargetNotLaidOut is a capture error: the target exists but has no size.
	ErrTargetNotLaidOut = fmt.Errorf("%w: target has zero size", ErrCapture)
	// ErrDuplicateTarget is a capture error: more than one element carries the target id.
	ErrDuplicateTarget = fmt.Errorf("%w: target id is not unique", ErrCapture)
)
