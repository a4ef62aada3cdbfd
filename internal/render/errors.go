package render

import "errors"

// Sentinel errors for rendering.
var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrTemplate        = errors.New("template rendering failed")
	ErrTargetMismatch  = errors.New("rendered document must contain exactly one capture target")
	ErrImageNotFound   = errors.New("image file not found")
	ErrImageInvalid    = errors.New("image file is not a supported image")
)
