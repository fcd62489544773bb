// Package dates normalizes the date representations found in stored and submitted
// expenses into canonical calendar dates, and provides the calendar-month arithmetic
// used by reporting.
//
// A canonical date is a time.Time at midnight UTC. Time-of-day and location are
// discarded once a value has been normalized.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CanonicalLayout is the textual form of a canonical date.
const CanonicalLayout = "2006-01-02"

// ErrUnrecognizedDate is returned when a value matches none of the known formats.
var ErrUnrecognizedDate = errors.New("unrecognized date")

// layouts are tried in order; the first successful parse wins.
var layouts = []string{
	CanonicalLayout,
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

// Normalize converts raw into a canonical date. raw may be a time.Time, a *time.Time
// or a string in one of the known layouts. Strings that match no layout get one last
// attempt: the text before the first space is parsed as YYYY-MM-DD.
func Normalize(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, fmt.Errorf("%w: zero time", ErrUnrecognizedDate)
		}
		return Truncate(v), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, fmt.Errorf("%w: zero time", ErrUnrecognizedDate)
		}
		return Truncate(*v), nil
	case string:
		return parseString(v)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnrecognizedDate, raw)
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnrecognizedDate)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Truncate(t), nil
		}
	}

	if head, _, found := strings.Cut(s, " "); found {
		if t, err := time.Parse(CanonicalLayout, head); err == nil {
			return Truncate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, s)
}

// Truncate drops the time-of-day of t, keeping the calendar date t has in its own location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a date in the canonical layout.
func Format(t time.Time) string {
	return t.Format(CanonicalLayout)
}

// AddMonths shifts d by n calendar months. When the target month is shorter than d's
// day of month, the result is clamped to the target month's last day, so one month
// before March 31 is the last day of February.
func AddMonths(d time.Time, n int) time.Time {
	d = Truncate(d)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day()
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthStart returns the first day of d's month.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of d's month.
func MonthEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), DaysIn(d.Year(), d.Month()), 0, 0, 0, 0, time.UTC)
}

// MonthLabel is the short label used on chart axes, e.g. "Jan 2025".
func MonthLabel(d time.Time) string {
	return d.Format("Jan 2006")
}

// MonthTitle is the long label used for listings, e.g. "January 2025".
func MonthTitle(d time.Time) string {
	return d.Format("January 2006")
}

// InRange reports whether d lies in [start, end], both ends inclusive.
func InRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
