package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/alnah/go-proofa/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, and the service pool factory.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// Config replaces the config file lookup when set. An explicit --config
	// still wins.
	Config *config.Config
	// NewPool creates the pool document commands export through.
	NewPool PoolFactory
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newServicePool,
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
