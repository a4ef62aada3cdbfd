// Package logging builds the zerolog loggers used by the library and CLI.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects the logger output.
type Mode int

const (
	// ModeJSON writes info-level JSON lines.
	ModeJSON Mode = iota
	// ModeVerbose writes debug-level human-readable lines.
	ModeVerbose
	// ModeQuiet discards everything.
	ModeQuiet
	// ModeConsole writes info-level human-readable lines, for terminals.
	ModeConsole
)

// New returns a logger writing to w.
func New(w io.Writer, mode Mode) zerolog.Logger {
	switch mode {
	case ModeQuiet:
		return zerolog.Nop()
	case ModeVerbose:
		return console(w).Level(zerolog.DebugLevel)
	case ModeConsole:
		return console(w).Level(zerolog.InfoLevel)
	default:
		return zerolog.New(w).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Logger()
	}
}

func console(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Logger()
}

// ModeFor picks the mode from the CLI's verbose and quiet flags.
// Quiet wins when both are set. Terminals get console output instead of JSON.
func ModeFor(verbose, quiet, terminal bool) Mode {
	switch {
	case quiet:
		return ModeQuiet
	case verbose:
		return ModeVerbose
	case terminal:
		return ModeConsole
	default:
		return ModeJSON
	}
}
