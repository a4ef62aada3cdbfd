package assets

import "errors"

// Lookup failures. The resolver falls back to the built-in loader on these.
var (
	ErrStyleNotFound    = errors.New("stylesheet not found")
	ErrTemplateNotFound = errors.New("document template file not found")
)

// ErrUnknownTemplateSet is returned for a name outside TemplateSetNames.
var ErrUnknownTemplateSet = errors.New("unknown document template")

// Errors from a custom assets directory ("assets.basePath" in proofa.yaml).
var (
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid assets directory")
	ErrAssetRead        = errors.New("reading asset")
	ErrPathTraversal    = errors.New("asset path escapes assets directory")
	ErrAssetExists      = errors.New("asset file already exists")
)
