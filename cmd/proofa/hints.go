package main

import (
	"context"
	"errors"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/config"
	"github.com/alnah/go-proofa/internal/document"
	"github.com/alnah/go-proofa/internal/hints"
	"github.com/alnah/go-proofa/internal/render"
)

// defaultConfigName is looked up in ./ and the user config directory.
const defaultConfigName = "proofa"

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, proofa.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, proofa.ErrNotFound):
		return hints.ForTargetNotFound(render.DefaultTargetID)
	case errors.Is(err, proofa.ErrCapture):
		return hints.ForCapture()
	case errors.Is(err, proofa.ErrBuild):
		return hints.ForDownloadDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPath())
	case errors.Is(err, document.ErrUnknownTemplate):
		return hints.ForTemplateNotFound(templateNames())
	}
	return ""
}

// userConfigPath is where `config init` writes without a path, or "" when
// the user config directory is unknown.
func userConfigPath() string {
	path, err := initPath(nil)
	if err != nil {
		return ""
	}
	return path
}

func templateNames() []string {
	return []string{
		string(proofa.TemplateMinimalist),
		string(proofa.TemplateBold),
		string(proofa.TemplateClassic),
	}
}
