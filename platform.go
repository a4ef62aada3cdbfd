package proofa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Compile-time interface checks
var (
	_ Platform = (*DesktopPlatform)(nil)
	_ Platform = (*CommandPlatform)(nil)
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run starts name and waits for it. A non-zero exit is reported through
// exitCode with a nil error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	// #nosec G204 -- the share command comes from the operator's config
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stderr.String(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return stderr.String(), -1, fmt.Errorf("running %s: %w", name, err)
	}
	return stderr.String(), 0, nil
}

// DesktopPlatform saves files and opens links with the OS opener.
// It cannot share files or text.
type DesktopPlatform struct {
	Runner CommandRunner
}

// NewDesktopPlatform creates a DesktopPlatform with a real command runner.
func NewDesktopPlatform() *DesktopPlatform {
	return &DesktopPlatform{Runner: ExecRunner{}}
}

func (*DesktopPlatform) Capability() Capability { return DownloadOnly }

func (*DesktopPlatform) CanShare([]*ShareableFile) bool { return false }

func (*DesktopPlatform) Share(context.Context, ShareRequest) error {
	return ErrShareUnsupported
}

// OpenURL hands url to xdg-open, open or the Windows URL handler.
func (d *DesktopPlatform) OpenURL(ctx context.Context, url string) error {
	name, args := openerCommand(runtime.GOOS, url)
	stderr, code, err := d.Runner.Run(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenURL, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %s exited %d: %s", ErrOpenURL, name, code, strings.TrimSpace(stderr))
	}
	return nil
}

func openerCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Share command placeholders.
const (
	PlaceholderFile  = "{file}"
	PlaceholderTitle = "{title}"
	PlaceholderText  = "{text}"
)

// DefaultCancelExitCode is what share commands exit with when the user
// dismisses them (128 + SIGINT).
const DefaultCancelExitCode = 130

// CommandPlatform shares files through an external command such as
// "kdeconnect-cli --share {file}". Links open through the desktop opener.
type CommandPlatform struct {
	Command        string
	CancelExitCode int
	Runner         CommandRunner
	Opener         Platform

	lookPath func(string) (string, error)
}

// NewCommandPlatform creates a CommandPlatform running command.
func NewCommandPlatform(command string, cancelExitCode int) *CommandPlatform {
	if cancelExitCode == 0 {
		cancelExitCode = DefaultCancelExitCode
	}
	return &CommandPlatform{
		Command:        command,
		CancelExitCode: cancelExitCode,
		Runner:         ExecRunner{},
		Opener:         NewDesktopPlatform(),
		lookPath:       exec.LookPath,
	}
}

// Capability is NativeFileShare when a command is configured and its
// program can be found.
func (c *CommandPlatform) Capability() Capability {
	args, err := splitCommand(c.Command)
	if err != nil || len(args) == 0 {
		return DownloadOnly
	}
	if c.lookPath != nil {
		if _, err := c.lookPath(args[0]); err != nil {
			return DownloadOnly
		}
	}
	return NativeFileShare
}

// CanShare accepts files that exist on disk and are not empty.
func (c *CommandPlatform) CanShare(files []*ShareableFile) bool {
	if len(files) == 0 || !strings.Contains(c.Command, PlaceholderFile) {
		return false
	}
	for _, f := range files {
		if f == nil || f.Path == "" {
			return false
		}
		info, err := os.Stat(f.Path)
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			return false
		}
	}
	return true
}

// Share runs the command. An exit with CancelExitCode is ErrShareAborted.
func (c *CommandPlatform) Share(ctx context.Context, req ShareRequest) error {
	args, err := c.expand(req)
	if err != nil {
		return err
	}
	stderr, code, err := c.Runner.Run(ctx, args[0], args[1:]...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	switch code {
	case 0:
		return nil
	case c.CancelExitCode:
		return ErrShareAborted
	default:
		return fmt.Errorf("share command exited %d: %s", code, strings.TrimSpace(stderr))
	}
}

// OpenURL delegates to Opener.
func (c *CommandPlatform) OpenURL(ctx context.Context, url string) error {
	if c.Opener == nil {
		return fmt.Errorf("%w: no opener", ErrOpenURL)
	}
	return c.Opener.OpenURL(ctx, url)
}

// expand substitutes placeholders. A bare {file} argument expands to one
// argument per file; {file} inside a longer argument takes the first file.
func (c *CommandPlatform) expand(req ShareRequest) ([]string, error) {
	tmpl, err := splitCommand(c.Command)
	if err != nil {
		return nil, err
	}
	if len(tmpl) == 0 {
		return nil, ErrShareUnsupported
	}
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrShareUnsupported)
	}

	r := strings.NewReplacer(
		PlaceholderFile, req.Files[0].Path,
		PlaceholderTitle, req.Title,
		PlaceholderText, req.Text,
	)
	out := make([]string, 0, len(tmpl)+len(req.Files))
	for _, arg := range tmpl {
		if arg == PlaceholderFile {
			for _, f := range req.Files {
				out = append(out, f.Path)
			}
			continue
		}
		out = append(out, r.Replace(arg))
	}
	return out, nil
}

// errUnterminatedQuote is returned by splitCommand.
var errUnterminatedQuote = errors.New("share command: unterminated quote")

// splitCommand splits s on spaces, honoring single and double quotes.
func splitCommand(s string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
