package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, ModeJSON)
	log.Debug().Msg("hidden")
	log.Info().Str("file", "doc.png").Msg("saved")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug must be filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["message"] != "saved" || entry["file"] != "doc.png" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestNew_Verbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, ModeVerbose).Debug().Msg("captured")

	if !strings.Contains(buf.String(), "captured") {
		t.Errorf("output = %q, want debug message", buf.String())
	}
	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("verbose output is JSON: %q", buf.String())
	}
}

func TestNew_Quiet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, ModeQuiet).Error().Msg("boom")

	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, ModeConsole)
	log.Debug().Msg("hidden")
	log.Info().Msg("saved")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("console output contains debug message: %q", out)
	}
	if !strings.Contains(out, "saved") || strings.HasPrefix(out, "{") {
		t.Errorf("output = %q, want human-readable info line", out)
	}
}

func TestModeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verbose, quiet, terminal bool
		want                     Mode
	}{
		{false, false, false, ModeJSON},
		{false, false, true, ModeConsole},
		{true, false, false, ModeVerbose},
		{true, false, true, ModeVerbose},
		{false, true, false, ModeQuiet},
		{true, true, true, ModeQuiet},
	}
	for _, tt := range tests {
		if got := ModeFor(tt.verbose, tt.quiet, tt.terminal); got != tt.want {
			t.Errorf("ModeFor(%v, %v, %v) = %v, want %v", tt.verbose, tt.quiet, tt.terminal, got, tt.want)
		}
	}
}
