package document

import "errors"

// Sentinel errors for payload validation and decoding.
var (
	ErrUnknownKind     = errors.New("unknown document type")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrInvalidPayload  = errors.New("invalid document")
	ErrDecode          = errors.New("failed to decode document")
)
