// Package dates normalises the two date encodings that appear on
// financial documents: the dotted DD.MM.YYYY form persisted on payroll
// and payment fields, and the ISO YYYY-MM-DD form used on invoice and
// timesheet dates. Both occur in the same collections, so every read
// goes through Parse.
package dates

import (
	"fmt"
	"time"
)

const (
	// LayoutDotted is the canonical persisted/display form for
	// payroll and payment dates.
	LayoutDotted = "02.01.2006"
	// LayoutISO is the form used for invoice issue/due dates and
	// timesheet work dates.
	LayoutISO = "2006-01-02"
)

// Parse accepts either DD.MM.YYYY or an ISO YYYY-MM-DD style string and
// returns the calendar date in UTC. The dotted triplet is tried first.
// The second return is false when the text matches neither form; callers
// must skip such records rather than guess.
func Parse(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(LayoutDotted, text, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(LayoutISO, text, time.UTC); err == nil {
		return t, true
	}
	// Full RFC3339 timestamps show up on records written by the
	// clock-in subsystem; truncate to the calendar date.
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Format renders a date in the canonical DD.MM.YYYY form.
func Format(t time.Time) string {
	return t.Format(LayoutDotted)
}

// FormatISO renders a date in the YYYY-MM-DD form.
func FormatISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart returns the first day of the month after the one
// containing t. A document issued in month M is payable from this date.
func NextMonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
}

// WithinOneDay reports whether a and b are less than 24 hours apart.
// Tolerates clock and timezone skew between a timesheet close and the
// dating of the derived invoice.
func WithinOneDay(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < 24*time.Hour
}

// MonthLabel renders the English month name with year, e.g. "April 2025".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}
