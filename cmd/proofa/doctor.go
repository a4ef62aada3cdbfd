package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/assets"
	"github.com/alnah/go-proofa/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Share    shareInfo  `json:"share"`
	Assets   assetsInfo `json:"templates"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// shareInfo holds the share backend the config selects.
type shareInfo struct {
	Command    string `json:"command,omitempty"`
	Capability string `json:"capability"`
}

// assetsInfo holds the template check for the configured assets.
type assetsInfo struct {
	BasePath string `json:"base_path,omitempty"`
	OK       bool   `json:"ok"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable     bool   `json:"temp_writable"`
	DownloadDir      string `json:"download_dir"`
	DownloadWritable bool   `json:"download_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		jsonOutput bool
	)
	fs.StringVarP(&configPath, "config", "c", "", "config file name or path")
	fs.BoolVar(&jsonOutput, "json", false, "output JSON")
	fs.Usage = func() { printDoctorUsage(os.Stderr) }
	if err := parse(fs, args); err != nil {
		return report(err, env)
	}

	cfg, err := loadConfig(configPath, loadEnvConfig(), env)
	if err != nil {
		return report(err, env)
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkShare(result, cfg)
	checkTemplates(result, cfg)
	checkEnvironment(result)
	checkSystem(result, cfg)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTemplates assembles every document template from the configured assets.
func checkTemplates(result *doctorResult, cfg *config.Config) {
	result.Assets.BasePath = cfg.Assets.BasePath
	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	errs := assets.CheckTemplateSets(resolver)
	for _, err := range errs {
		result.Errors = append(result.Errors, err.Error())
	}
	result.Assets.OK = len(errs) == 0
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	// Verify it exists
	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	// Get version by running chrome --version
	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- browser path from rod or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Sandbox status: disabled if ROD_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkShare reports which share backend exports will use.
func checkShare(result *doctorResult, cfg *config.Config) {
	platform := selectPlatform(cfg.Share.Command, cfg.Share.CancelExitCode)
	capability := proofa.ProbeCapability(platform)

	result.Share.Command = cfg.Share.Command
	result.Share.Capability = capability.String()

	if cfg.Share.Command != "" && capability != proofa.NativeFileShare {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Share command %q not found in PATH. Shares will download instead", cfg.Share.Command))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Warn if container/CI without sandbox disabled
	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("PROOFA_CONTAINER") == "1" {
		return true, "PROOFA_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp and download directories are writable.
func checkSystem(result *doctorResult, cfg *config.Config) {
	tmpDir := os.TempDir()
	if writable(tmpDir) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	}

	dir := resolveDownloadDir(cfg)
	result.System.DownloadDir = dir
	if writable(dir) {
		result.System.DownloadWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Download directory not writable: %s", dir))
	}
}

// writable probes dir by creating and removing a file.
func writable(dir string) bool {
	testFile := filepath.Join(dir, ".proofa-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return false
	}
	_ = os.Remove(testFile)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "proofa doctor")
	fmt.Fprintln(w)

	// Chrome section
	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	// Share section
	fmt.Fprintln(w, "Sharing")
	if r.Share.Command != "" {
		fmt.Fprintf(w, "  [OK] Command: %s\n", r.Share.Command)
	} else {
		fmt.Fprintln(w, "  [OK] Command: none (shares download the image)")
	}
	fmt.Fprintf(w, "  [OK] Capability: %s\n", r.Share.Capability)
	fmt.Fprintln(w)

	// Templates section
	fmt.Fprintln(w, "Templates")
	source := "built-in"
	if r.Assets.BasePath != "" {
		source = r.Assets.BasePath + " (built-in fallback)"
	}
	if r.Assets.OK {
		fmt.Fprintf(w, "  [OK] Source: %s\n", source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Source: %s\n", source)
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.DownloadWritable {
		fmt.Fprintf(w, "  [OK] Download directory: %s\n", r.System.DownloadDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Download directory: %s not writable\n", r.System.DownloadDir)
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to export")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
