// Package dateutil parses and formats the dates printed on documents.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDisplayFormat renders dates the way the templates print them ("15 Oct 2026").
const DefaultDisplayFormat = "D MMM YYYY"

// EmptyDate is printed when a document has no date.
const EmptyDate = "-"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"short":    DefaultDisplayFormat,
}

// inputLayouts are the layouts accepted for dates typed into forms.
var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. A preset name is also accepted.
// Use brackets to escape literal text: [Date] preserves "Date" literally.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// ParseInputDate parses a date as typed into a form. "auto" and "today"
// resolve to now.
func ParseInputDate(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "":
		return time.Time{}, false
	case "auto", "today":
		return now, true
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDocumentDate renders a form date for display.
// Empty values render as EmptyDate; values that do not parse are returned
// unchanged so that free-form dates still print.
func FormatDocumentDate(value, format string, now time.Time) (string, error) {
	if strings.TrimSpace(value) == "" {
		return EmptyDate, nil
	}
	if format == "" {
		format = DefaultDisplayFormat
	}
	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}

	t, ok := ParseInputDate(value, now)
	if !ok {
		return value, nil
	}
	return t.Format(goFmt), nil
}
