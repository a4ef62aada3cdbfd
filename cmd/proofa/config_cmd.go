package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-proofa/internal/assets"
	"github.com/alnah/go-proofa/internal/config"
	"github.com/alnah/go-proofa/internal/fileutil"
	"github.com/alnah/go-proofa/internal/yamlutil"
)

// ErrConfigExists is returned by `config init` when the file already exists.
var ErrConfigExists = errors.New("config file already exists")

// runConfig handles `config init|show|path|assets`.
func runConfig(args []string, env *Environment) error {
	if len(args) == 0 {
		printConfigUsage(env.Stderr)
		return usageError("config needs a subcommand: init, show, path, or assets")
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("config "+sub, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	var force bool
	addCommonFlags(fs, &common)
	if sub == "init" || sub == "assets" {
		fs.BoolVar(&force, "force", false, "overwrite existing files")
	}
	fs.Usage = func() { printConfigUsage(os.Stderr) }
	if err := parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "init":
		path, err := initPath(fs.Args())
		if err != nil {
			return err
		}
		if fileutil.FileExists(path) {
			if !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
			}
			if err := os.Remove(path); err != nil {
				return err
			}
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		if !common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", path)
		}
		return nil
	case "show":
		cfg, err := loadConfig(common.config, loadEnvConfig(), env)
		if err != nil {
			return err
		}
		data, err := yamlutil.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	case "path":
		for _, p := range config.SearchPaths(defaultConfigName) {
			fmt.Fprintln(env.Stdout, p)
		}
		return nil
	case "assets":
		if fs.NArg() != 1 {
			return usageError("config assets needs exactly one directory")
		}
		dir := fs.Arg(0)
		written, err := assets.ExportBuiltin(dir, force)
		if err != nil {
			return err
		}
		if !common.quiet {
			fmt.Fprintf(env.Stdout, "Wrote %d files to %s\n", len(written), dir)
			fmt.Fprintf(env.Stdout, "Set assets.basePath: %s in %s.yaml to use them\n", dir, defaultConfigName)
		}
		return nil
	default:
		return usageError("unknown config subcommand %q", sub)
	}
}

// initPath returns the target of `config init`: the given path or
// proofa.yaml in the user config directory.
func initPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		dir, err := config.UserDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, defaultConfigName+".yaml"), nil
	case 1:
		return args[0], nil
	default:
		return "", usageError("config init takes at most one path")
	}
}
