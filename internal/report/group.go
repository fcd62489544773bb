package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/dates"
)

// GroupedExpense is a single parsed record inside a MonthGroup.
type GroupedExpense struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthGroup holds the records of one calendar month.
type MonthGroup struct {
	Title    string           `json:"title"`
	Month    time.Time        `json:"month"`
	Total    decimal.Decimal  `json:"total"`
	Expenses []GroupedExpense `json:"expenses"`
}

// GroupByMonth groups the usable records by calendar month, newest month first.
// Within a month records are ordered newest first, ties keeping their input order.
func GroupByMonth(records []Record) ([]MonthGroup, []Skip) {
	entries, skipped := parse(records)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].date.After(entries[j].date)
	})

	groups := []MonthGroup{}
	for _, e := range entries {
		month := dates.MonthStart(e.date)
		if n := len(groups); n == 0 || !groups[n-1].Month.Equal(month) {
			groups = append(groups, MonthGroup{
				Title: dates.MonthTitle(month),
				Month: month,
				Total: decimal.Zero,
			})
		}
		g := &groups[len(groups)-1]
		g.Total = g.Total.Add(e.amount)
		g.Expenses = append(g.Expenses, GroupedExpense{
			ID:       e.id,
			Date:     e.date,
			Category: e.category,
			Amount:   e.amount,
		})
	}

	if skipped == nil {
		skipped = []Skip{}
	}
	return groups, skipped
}
