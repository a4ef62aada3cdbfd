// Package assets provides the HTML templates and CSS styles documents are rendered with.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the renderer. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is not
// found. This allows overriding one template while keeping the others.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── base.css             # Shared by every template
//	│   └── {name}.css           # Template look (e.g., bold.css)
//	└── templates/
//	    ├── page.html            # Page shell with the preview wrapper
//	    ├── partials.html        # Watermark, line items, totals, branding
//	    └── {name}.html          # Defines the "document" template
//
// ExportBuiltin writes the built-in files out in this layout as a starting
// point for a custom look.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
