package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/config"
	"github.com/alnah/go-proofa/internal/history"
)

// historyFlags holds flags of the history subcommands.
type historyFlags struct {
	common commonFlags
	json   bool
}

// historyEntry is the JSON form of a record in `history list --json`.
type historyEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Template  string `json:"template"`
	CreatedAt string `json:"createdAt"`
	File      string `json:"file,omitempty"`
}

// runHistory handles `history list|show|delete`.
func runHistory(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printHistoryUsage(env.Stderr)
		return usageError("history needs a subcommand: list, show, or delete")
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("history "+sub, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &historyFlags{}
	addCommonFlags(fs, &f.common)
	if sub == "list" {
		fs.BoolVar(&f.json, "json", false, "output JSON")
	}
	fs.Usage = func() { printHistoryUsage(os.Stderr) }
	if err := parse(fs, rest); err != nil {
		return err
	}

	cfg, err := loadConfig(f.common.config, loadEnvConfig(), env)
	if err != nil {
		return err
	}

	switch sub {
	case "list":
		if fs.NArg() != 0 {
			return usageError("history list takes no arguments")
		}
		return withHistory(ctx, cfg, func(s *history.Store) error {
			return listHistory(ctx, s, f.json, env)
		})
	case "show":
		if fs.NArg() != 1 {
			return usageError("history show needs a record id")
		}
		return withHistory(ctx, cfg, func(s *history.Store) error {
			return showHistory(ctx, s, fs.Arg(0), env.Stdout)
		})
	case "delete":
		if fs.NArg() != 1 {
			return usageError("history delete needs a record id")
		}
		return withHistory(ctx, cfg, func(s *history.Store) error {
			if err := s.Delete(ctx, fs.Arg(0)); err != nil {
				return err
			}
			if !f.common.quiet {
				fmt.Fprintf(env.Stdout, "Deleted %s\n", fs.Arg(0))
			}
			return nil
		})
	default:
		return usageError("unknown history subcommand %q", sub)
	}
}

// withHistory opens the store, runs fn and closes it.
func withHistory(ctx context.Context, cfg *config.Config, fn func(*history.Store) error) error {
	store, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// listHistory prints records newest first.
func listHistory(ctx context.Context, s *history.Store, asJSON bool, env *Environment) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		entries := make([]historyEntry, 0, len(records))
		for _, rec := range records {
			entries = append(entries, historyEntry{
				ID:        rec.ID,
				Type:      string(rec.Kind),
				Template:  string(rec.Template),
				CreatedAt: rec.CreatedAt.Format(time.RFC3339),
				File:      rec.FilePath,
			})
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(records) == 0 {
		fmt.Fprintln(env.Stdout, "No exported documents yet.")
		return nil
	}

	now := env.Now()
	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTEMPLATE\tEXPORTED\tFILE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Kind, rec.Template,
			humanize.RelTime(rec.CreatedAt, now, "ago", "from now"),
			rec.FilePath)
	}
	return tw.Flush()
}

// showHistory prints a record as a document file, ready to export again.
func showHistory(ctx context.Context, s *history.Store, id string, w io.Writer) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	payload, err := rec.Decode()
	if err != nil {
		return err
	}
	doc := &proofa.Envelope{Type: rec.Kind, Template: rec.Template, Payload: payload}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
