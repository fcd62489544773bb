// Package report turns an owner's raw expense records into the aggregates behind the
// summary views: per-category totals over a window, the current month's breakdown and
// month-bucketed series for trend charts.
//
// Everything here is a pure in-memory transform. Records that cannot be interpreted are
// skipped and reported back in Result.Skipped; they never abort a report.
package report

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/dates"
)

// AmountPrecision is the number of fractional digits amounts are kept at.
const AmountPrecision = 3

// Amounts must stay below MaxAmount, the first value numeric(14,3) cannot hold.
var MaxAmount = decimal.New(1, 11)

// Exponent bounds accepted before rounding. Rescaling cost grows with the exponent.
const (
	minAmountExponent = -32
	maxAmountExponent = 11
)

// ErrInvalidAmount is returned by ParseAmount for values that are not non-negative numbers.
var ErrInvalidAmount = errors.New("invalid amount")

// Record is one expense as read from storage. Date may be a time.Time or a string in
// any format dates.Normalize accepts; Amount may be a decimal.Decimal, a numeric string,
// a float or an integer.
type Record struct {
	ID       string
	Date     any
	Category string
	Amount   any
}

// SkipReason explains why a record was left out of a report.
type SkipReason string

const (
	SkipInvalidDate   SkipReason = "invalid_date"
	SkipInvalidAmount SkipReason = "invalid_amount"
	SkipEmptyCategory SkipReason = "empty_category"
)

// Skip describes one record excluded from aggregation.
type Skip struct {
	Index  int        `json:"index"`
	ID     string     `json:"id,omitempty"`
	Reason SkipReason `json:"reason"`
	Err    error      `json:"-"`
}

// MonthTotal is the summed amount for one calendar month.
type MonthTotal struct {
	Label string          `json:"label"`
	Month time.Time       `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Breakdown is a per-category split of the records falling in [Start, End].
type Breakdown struct {
	Start      time.Time                  `json:"start"`
	End        time.Time                  `json:"end"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	Total      decimal.Decimal            `json:"total"`
	// TopCategory is empty when no record fell in the range.
	TopCategory string `json:"top_category,omitempty"`
}

// Result is the outcome of Aggregate.
type Result struct {
	Window      Window                     `json:"window"`
	ByCategory  map[string]decimal.Decimal `json:"by_category"`
	Total       decimal.Decimal            `json:"total"`
	TopCategory string                     `json:"top_category,omitempty"`
	// ByMonth covers January of the earliest year through December of the latest
	// year of the whole record set, and is empty unless the records span several years.
	ByMonth []MonthTotal `json:"by_month"`
	// WindowMonths covers every month overlapping Window, oldest first.
	WindowMonths []MonthTotal `json:"window_months"`
	// CurrentMonth is always computed for the calendar month containing today.
	CurrentMonth Breakdown `json:"current_month"`
	Skipped      []Skip    `json:"skipped"`
	// Included counts the records that contributed to ByCategory.
	Included int `json:"included"`
}

// entry is a record that survived parsing.
type entry struct {
	id       string
	date     time.Time
	category string
	amount   decimal.Decimal
}

// ParseAmount converts raw into a non-negative decimal rounded to AmountPrecision digits.
func ParseAmount(raw any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch v := raw.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, fmt.Errorf("%w: nil", ErrInvalidAmount)
		}
		d = *v
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, v)
		}
		d = parsed
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
		}
		d = decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
		}
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, raw)
	}

	return CheckAmount(d)
}

// CheckAmount rejects negative or out-of-range amounts and rounds the rest to
// AmountPrecision digits. The exponent is checked before anything formats or rescales d.
func CheckAmount(d decimal.Decimal) (decimal.Decimal, error) {
	if exp := d.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return decimal.Zero, fmt.Errorf("%w: exponent %d out of range", ErrInvalidAmount, exp)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative value %s", ErrInvalidAmount, d)
	}
	d = d.Round(AmountPrecision)
	if !d.LessThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d, MaxAmount)
	}
	return d, nil
}

// parse validates every record, returning the usable entries and the skipped ones.
func parse(records []Record) ([]entry, []Skip) {
	entries := make([]entry, 0, len(records))
	var skipped []Skip

	for i, r := range records {
		date, err := dates.Normalize(r.Date)
		if err != nil {
			skipped = append(skipped, Skip{Index: i, ID: r.ID, Reason: SkipInvalidDate, Err: err})
			continue
		}
		amount, err := ParseAmount(r.Amount)
		if err != nil {
			skipped = append(skipped, Skip{Index: i, ID: r.ID, Reason: SkipInvalidAmount, Err: err})
			continue
		}
		category := strings.TrimSpace(r.Category)
		if category == "" {
			skipped = append(skipped, Skip{Index: i, ID: r.ID, Reason: SkipEmptyCategory})
			continue
		}
		entries = append(entries, entry{id: r.ID, date: date, category: category, amount: amount})
	}

	return entries, skipped
}

// Aggregate resolves spec against today and summarizes records over the resulting window.
func Aggregate(records []Record, spec WindowSpec, today time.Time) (*Result, error) {
	window, err := Resolve(spec, today)
	if err != nil {
		return nil, err
	}
	today = dates.Truncate(today)

	entries, skipped := parse(records)
	if skipped == nil {
		skipped = []Skip{}
	}

	windowed := breakdown(entries, window.Start, window.End)
	result := &Result{
		Window:       window,
		ByCategory:   windowed.ByCategory,
		Total:        windowed.Total,
		TopCategory:  windowed.TopCategory,
		ByMonth:      yearSpanSeries(entries),
		WindowMonths: windowSeries(entries, window),
		CurrentMonth: breakdown(entries, dates.MonthStart(today), dates.MonthEnd(today)),
		Skipped:      skipped,
	}
	for _, e := range entries {
		if dates.InRange(e.date, window.Start, window.End) {
			result.Included++
		}
	}

	return result, nil
}

func breakdown(entries []entry, start, end time.Time) Breakdown {
	b := Breakdown{
		Start:      start,
		End:        end,
		ByCategory: make(map[string]decimal.Decimal),
		Total:      decimal.Zero,
	}
	for _, e := range entries {
		if !dates.InRange(e.date, start, end) {
			continue
		}
		b.ByCategory[e.category] = b.ByCategory[e.category].Add(e.amount)
		b.Total = b.Total.Add(e.amount)
	}
	b.TopCategory = TopCategory(b.ByCategory)
	return b
}

// TopCategory returns the category with the largest amount. Ties go to the
// lexicographically smallest name; an empty map has no top category.
func TopCategory(byCategory map[string]decimal.Decimal) string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	top := ""
	for _, name := range names {
		if top == "" || byCategory[name].GreaterThan(byCategory[top]) {
			top = name
		}
	}
	return top
}

// yearSpanSeries buckets every entry by month from January of the earliest year to
// December of the latest one. A single-year record set yields no series.
func yearSpanSeries(entries []entry) []MonthTotal {
	if len(entries) == 0 {
		return []MonthTotal{}
	}

	minYear, maxYear := entries[0].date.Year(), entries[0].date.Year()
	for _, e := range entries[1:] {
		if y := e.date.Year(); y < minYear {
			minYear = y
		} else if y > maxYear {
			maxYear = y
		}
	}
	if minYear == maxYear {
		return []MonthTotal{}
	}

	first := time.Date(minYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(maxYear, time.December, 1, 0, 0, 0, 0, time.UTC)
	return monthSeries(entries, first, last, func(entry) bool { return true })
}

func windowSeries(entries []entry, w Window) []MonthTotal {
	if w.Empty() {
		return []MonthTotal{}
	}
	return monthSeries(entries, dates.MonthStart(w.Start), dates.MonthStart(w.End), func(e entry) bool {
		return dates.InRange(e.date, w.Start, w.End)
	})
}

// monthSeries sums matching entries into one zero-filled bucket per month in [first, last].
func monthSeries(entries []entry, first, last time.Time, match func(entry) bool) []MonthTotal {
	var series []MonthTotal
	index := make(map[time.Time]int)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		index[m] = len(series)
		series = append(series, MonthTotal{Label: dates.MonthLabel(m), Month: m, Total: decimal.Zero})
	}

	for _, e := range entries {
		if !match(e) {
			continue
		}
		if i, ok := index[dates.MonthStart(e.date)]; ok {
			series[i].Total = series[i].Total.Add(e.amount)
		}
	}
	return series
}
