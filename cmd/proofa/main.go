package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-proofa"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

func main() {
	// A missing .env is fine; variables already set in the environment win.
	_ = godotenv.Load()

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// intentCommands maps the single-document commands to their intent.
var intentCommands = map[string]proofa.Intent{
	"image":    proofa.IntentDownloadImage,
	"pdf":      proofa.IntentDownloadPDF,
	"share":    proofa.IntentShareGeneric,
	"whatsapp": proofa.IntentShareWhatsApp,
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	warnUnknownEnvVars(env.Stderr)

	ctx, stop := interruptContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "image", "pdf", "share", "whatsapp":
		err = runIntent(ctx, cmd, intentCommands[cmd], rest, env)
	case "export":
		err = runExport(ctx, rest, env)
	case "history":
		err = runHistory(ctx, rest, env)
	case "config":
		err = runConfig(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "proofa %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
	if err != nil && wasInterrupted(ctx) {
		return reportInterrupted(ctx, err, env)
	}
	return report(err, env)
}

// reportInterrupted prints the interrupt cause once the command has unwound.
func reportInterrupted(ctx context.Context, err error, env *Environment) int {
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	fmt.Fprintf(env.Stderr, "%v\n", context.Cause(ctx))
	return ExitInterrupted
}

// report prints err with its hint and returns the exit code.
func report(err error, env *Environment) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// usageError returns an ErrUsage with a formatted message.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

// hasVerboseFlag scans args for -v or --verbose before flags are parsed.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}
