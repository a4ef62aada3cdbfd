package assets

import (
	"fmt"
	"slices"
	"strings"
)

// TemplateSet holds everything needed to render one document template.
type TemplateSet struct {
	Name     string // "minimalist", "bold", "classic"
	Page     string // Page shell; executes {{template "document" .Doc}}
	Partials string // Shared blocks used by every document template
	Document string // Defines the "document" template
	Style    string // base.css followed by {name}.css
}

// Names of the shared assets every template set is built from.
const (
	PageTemplateName     = "page"
	PartialsTemplateName = "partials"
	BaseStyleName        = "base"
)

// DefaultTemplateSetName is the name of the built-in default template.
const DefaultTemplateSetName = "minimalist"

// TemplateSetNames lists the document templates, in display order.
var TemplateSetNames = []string{"minimalist", "bold", "classic"}

// IsTemplateSetName reports whether name is a known document template.
func IsTemplateSetName(name string) bool {
	return slices.Contains(TemplateSetNames, name)
}

// loadTemplateSet assembles a TemplateSet from any loader.
func loadTemplateSet(loader AssetLoader, name string) (*TemplateSet, error) {
	if !IsTemplateSetName(name) {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTemplateSet, name, strings.Join(TemplateSetNames, ", "))
	}

	page, err := loader.LoadTemplate(PageTemplateName)
	if err != nil {
		return nil, err
	}
	partials, err := loader.LoadTemplate(PartialsTemplateName)
	if err != nil {
		return nil, err
	}
	document, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	base, err := loader.LoadStyle(BaseStyleName)
	if err != nil {
		return nil, err
	}
	style, err := loader.LoadStyle(name)
	if err != nil {
		return nil, err
	}

	return &TemplateSet{
		Name:     name,
		Page:     page,
		Partials: partials,
		Document: document,
		Style:    base + "\n" + style,
	}, nil
}
