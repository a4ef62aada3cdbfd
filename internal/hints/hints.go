// Package hints turns proofa's failure modes into one-line suggestions,
// appended to CLI errors as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-proofa/internal/fileutil"
)

// IsInContainer reports whether the CLI runs in a container, where Chrome's
// sandbox usually cannot start. PROOFA_CONTAINER=1 forces it.
var IsInContainer = func() bool {
	return os.Getenv("PROOFA_CONTAINER") == "1" || fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for a headless Chrome that would not start.
// Sandbox and binary suggestions only appear while they could still help.
func ForBrowserConnect() string {
	var hints []string

	ci := os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" || os.Getenv("GITLAB_CI") != ""
	if (ci || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "Chrome's sandbox rarely works in containers or CI: set ROD_NO_SANDBOX=1")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "point ROD_BROWSER_BIN at an installed Chrome or Chromium")
	}
	hints = append(hints, "run `proofa doctor` to see what was found")

	return formatHints(hints)
}

// ForCapture returns hints for a failed capture of the document.
func ForCapture() string {
	return format("check that the logo is a local file or data URL, then retry")
}

// ForTargetNotFound returns hints when the capture target is missing.
func ForTargetNotFound(targetID string) string {
	if targetID == "" {
		return ""
	}
	return format("custom templates must contain exactly one element with id=\"" + targetID + "\"")
}

// ForTimeout returns a hint for captures that ran out of time.
func ForTimeout() string {
	return format("long invoices with many line items take longer to capture: raise --timeout or PROOFA_TIMEOUT")
}

// ForShareCommand returns hints when no native share command is configured.
func ForShareCommand() string {
	return format("set share.command in the config (e.g. \"kdeconnect-cli --share {file}\") to share files directly")
}

// ForConfigNotFound returns hints for a config file that could not be found.
// userConfigPath is where `proofa config init` writes by default.
func ForConfigNotFound(userConfigPath string) string {
	hint := "pass an existing file with --config or PROOFA_CONFIG"
	if userConfigPath != "" {
		hint += ", or run `proofa config init` to create " + userConfigPath
	}
	return format(hint)
}

// ForDownloadDirectory returns hints for download directory errors.
func ForDownloadDirectory() string {
	return format("check the download directory exists and is writable, or use --out")
}

// ForTemplateNotFound returns hints for unknown template names.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
