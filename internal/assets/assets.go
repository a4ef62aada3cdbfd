package assets

import "fmt"

// CheckTemplateSets assembles every document template from loader and
// returns one error per template that fails, in TemplateSetNames order.
// A nil result means every template can render.
func CheckTemplateSets(loader AssetLoader) []error {
	var errs []error
	for _, name := range TemplateSetNames {
		if _, err := loadTemplateSet(loader, name); err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", name, err))
		}
	}
	return errs
}
