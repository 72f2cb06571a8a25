package id

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	// DateFormat is the calendar date layout used for transaction dates.
	DateFormat = "2006-01-02"
	// TimestampFormat matches the millisecond ISO-8601 form ("2025-10-18T12:34:56.789Z").
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// New returns a random UUID v4 string.
func New() string {
	return uuid.NewString()
}

// Now returns the current UTC time truncated to milliseconds.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Today returns the current UTC calendar date at midnight.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf strips the clock from t, keeping its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatTimestamp renders t as an ISO-8601 UTC timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp parses an ISO-8601 timestamp. RFC 3339 with any fractional
// precision is accepted, and so is a bare YYYY-MM-DD date.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := ParseDate(s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a YYYY-MM-DD calendar date. Dates that do not exist
// (2025-02-30) are rejected rather than normalized.
func ParseDate(s string) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// IsValidDate reports whether s is a real YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}
