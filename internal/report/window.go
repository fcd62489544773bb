package report

import (
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/dates"
)

// WindowKind selects how a report window is resolved.
type WindowKind string

const (
	WindowYearToDate   WindowKind = "ytd"
	WindowTrailing     WindowKind = "trailing"
	WindowPreviousYear WindowKind = "previous_year"
	WindowCustom       WindowKind = "custom"
)

// ErrInvalidWindow is returned for window specifications that cannot be resolved.
var ErrInvalidWindow = errors.New("invalid report window")

// ValidWindowKind reports whether k names a known window kind. The empty kind is valid
// and means year-to-date.
func ValidWindowKind(k string) bool {
	switch WindowKind(k) {
	case "", WindowYearToDate, WindowTrailing, WindowPreviousYear, WindowCustom:
		return true
	}
	return false
}

// WindowSpec is a requested window before it is anchored to a date.
type WindowSpec struct {
	Kind WindowKind
	// Months is the number of calendar months to look back for WindowTrailing.
	Months int
	// Start and End bound WindowCustom. Both are normalized to calendar dates.
	Start time.Time
	End   time.Time
}

// Window is a resolved, inclusive date range.
type Window struct {
	Kind  WindowKind `json:"kind"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// Empty reports whether no date can fall inside the window.
func (w Window) Empty() bool {
	return w.Start.After(w.End)
}

// Resolve anchors spec to today.
func Resolve(spec WindowSpec, today time.Time) (Window, error) {
	today = dates.Truncate(today)

	switch spec.Kind {
	case "", WindowYearToDate:
		return Window{
			Kind:  WindowYearToDate,
			Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   today,
		}, nil

	case WindowTrailing:
		if spec.Months < 1 {
			return Window{}, fmt.Errorf("%w: trailing window needs at least one month, got %d", ErrInvalidWindow, spec.Months)
		}
		return Window{
			Kind:  WindowTrailing,
			Start: dates.AddMonths(today, -spec.Months),
			End:   today,
		}, nil

	case WindowPreviousYear:
		year := today.Year() - 1
		return Window{
			Kind:  WindowPreviousYear,
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil

	case WindowCustom:
		if spec.Start.IsZero() || spec.End.IsZero() {
			return Window{}, fmt.Errorf("%w: custom window needs both start and end", ErrInvalidWindow)
		}
		// A reversed range is accepted and simply matches nothing.
		return Window{
			Kind:  WindowCustom,
			Start: dates.Truncate(spec.Start),
			End:   dates.Truncate(spec.End),
		}, nil
	}

	return Window{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidWindow, spec.Kind)
}
