package main

// Notes:
// - Tests run against a real SQLite file in a temp directory; records are
//   seeded through the history package, not through an export.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-proofa"
	"github.com/alnah/go-proofa/internal/history"
)

// newHistoryEnv returns a test env whose history lives in a temp file,
// seeded with one receipt exported an hour before fixedNow.
func newHistoryEnv(t *testing.T) (*testEnv, history.Record) {
	t.Helper()

	env := newTestEnv(t, nil)
	env.Config.History.Enabled = true
	env.Config.History.Path = filepath.Join(t.TempDir(), "history.db")

	doc, err := proofa.DecodeEnvelope([]byte(receiptYAML))
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	rec, err := history.NewRecord(doc.Payload, doc.Template, "/downloads/Proofa-receipt-1.png")
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	rec.CreatedAt = fixedNow.Add(-time.Hour)

	ctx := context.Background()
	store, err := history.Open(ctx, env.Config.History.Path)
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	defer store.Close()

	rec, err = store.Save(ctx, rec)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return env, rec
}

// ---------------------------------------------------------------------------
// TestRunHistory - list, show, delete
// ---------------------------------------------------------------------------

func TestRunHistory_List(t *testing.T) {
	t.Parallel()

	env, rec := newHistoryEnv(t)

	code := runMain([]string{"proofa", "history", "list"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d\nstderr: %s", code, env.stderr.String())
	}

	out := env.stdout.String()
	for _, want := range []string{"ID", "TEMPLATE", rec.ID, "receipt", "bold", "1 hour ago", "/downloads/Proofa-receipt-1.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("list should contain %q, got %q", want, out)
		}
	}
}

func TestRunHistory_ListJSON(t *testing.T) {
	t.Parallel()

	env, rec := newHistoryEnv(t)

	code := runMain([]string{"proofa", "history", "list", "--json"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d\nstderr: %s", code, env.stderr.String())
	}

	var entries []historyEntry
	if err := json.Unmarshal(env.stdout.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != rec.ID || got.Type != "receipt" || got.Template != "bold" {
		t.Errorf("entry = %+v", got)
	}
	if got.CreatedAt != "2026-10-15T08:30:00Z" {
		t.Errorf("CreatedAt = %q, want 2026-10-15T08:30:00Z", got.CreatedAt)
	}
}

func TestRunHistory_ListEmpty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.Config.History.Path = filepath.Join(t.TempDir(), "nested", "history.db")

	code := runMain([]string{"proofa", "history", "list"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d\nstderr: %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "No exported documents yet.") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRunHistory_ShowIsReExportable(t *testing.T) {
	t.Parallel()

	env, rec := newHistoryEnv(t)

	code := runMain([]string{"proofa", "history", "show", rec.ID}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d\nstderr: %s", code, env.stderr.String())
	}

	doc, err := proofa.DecodeEnvelope(env.stdout.Bytes())
	if err != nil {
		t.Fatalf("show output does not decode: %v\n%s", err, env.stdout.String())
	}
	if doc.Type != proofa.DocumentType("receipt") || doc.Template != proofa.TemplateBold {
		t.Errorf("decoded type/template = %q/%q", doc.Type, doc.Template)
	}
	if !strings.Contains(env.stdout.String(), "Ada Fabrics") {
		t.Errorf("show should carry the payload, got %q", env.stdout.String())
	}
}

func TestRunHistory_Delete(t *testing.T) {
	t.Parallel()

	env, rec := newHistoryEnv(t)

	code := runMain([]string{"proofa", "history", "delete", rec.ID}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d\nstderr: %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "Deleted "+rec.ID) {
		t.Errorf("stdout = %q", env.stdout.String())
	}

	env.stdout.Reset()
	if code := runMain([]string{"proofa", "history", "show", rec.ID}, env.Environment); code != ExitUsage {
		t.Errorf("show after delete = %d, want %d", code, ExitUsage)
	}
}

func TestRunHistory_Usage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no subcommand", []string{"history"}},
		{"unknown subcommand", []string{"history", "purge"}},
		{"show without id", []string{"history", "show"}},
		{"delete unknown id", []string{"history", "delete", "nope"}},
		{"list with argument", []string{"history", "list", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := newHistoryEnv(t)
			code := runMain(append([]string{"proofa"}, tt.args...), env.Environment)
			if code != ExitUsage {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, ExitUsage, env.stderr.String())
			}
		})
	}
}
