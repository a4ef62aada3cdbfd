package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "ISO date format", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "European format", format: "DD/MM/YYYY", want: "02/01/2006"},
		{name: "long format with full month name", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "display format", format: DefaultDisplayFormat, want: "2 Jan 2006"},
		{name: "preset name", format: "short", want: "2 Jan 2006"},
		{name: "preset name is case-insensitive", format: "ISO", want: "2006-01-02"},
		{name: "bracket escapes literal text", format: "[Issued] D MMM", want: "Issued 2 Jan"},
		{name: "empty format", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[Issued D", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatDocumentDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  string
		format string
		want   string
	}{
		{name: "ISO date", value: "2026-03-07", want: "7 Mar 2026"},
		{name: "RFC3339 timestamp", value: "2026-03-07T10:00:00Z", want: "7 Mar 2026"},
		{name: "datetime-local input", value: "2026-03-07T10:00", want: "7 Mar 2026"},
		{name: "empty renders dash", value: "", want: EmptyDate},
		{name: "whitespace renders dash", value: "   ", want: EmptyDate},
		{name: "auto resolves to now", value: "auto", want: "15 Oct 2026"},
		{name: "today resolves to now", value: "Today", want: "15 Oct 2026"},
		{name: "unparseable passes through", value: "end of month", want: "end of month"},
		{name: "custom format", value: "2026-03-07", format: "iso", want: "2026-03-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatDocumentDate(tt.value, tt.format, now)
			if err != nil {
				t.Fatalf("FormatDocumentDate(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("FormatDocumentDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatDocumentDate_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := FormatDocumentDate("2026-03-07", "[oops", time.Now())
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("error = %v, want ErrInvalidDateFormat", err)
	}
}

func TestParseInputDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)

	if _, ok := ParseInputDate("", now); ok {
		t.Error("ParseInputDate(\"\") ok = true, want false")
	}
	got, ok := ParseInputDate("2026-01-31", now)
	if !ok {
		t.Fatal("ParseInputDate(2026-01-31) ok = false, want true")
	}
	if got.Day() != 31 || got.Month() != time.January {
		t.Errorf("ParseInputDate(2026-01-31) = %v", got)
	}
}
