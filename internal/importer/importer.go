// Package importer loads expenses from the legacy flat file, one
// "date,category,amount" line per expense.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/dates"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/report"
)

// ExpenseCreator stores one expense. services.ExpenseServicer satisfies it.
type ExpenseCreator interface {
	CreateExpense(userID string, date time.Time, category string, amount decimal.Decimal) (*models.Expense, error)
}

// LineSkip describes an input line that was not imported.
type LineSkip struct {
	Line   int
	Reason report.SkipReason
	Err    error
}

// Summary is the outcome of an import.
type Summary struct {
	Imported int
	Skipped  []LineSkip
}

// SkipMalformed marks lines that do not have exactly three fields.
const SkipMalformed report.SkipReason = "malformed_line"

// Import reads every line of r and records it for userID. Lines that cannot be
// interpreted are skipped and reported; a failing store aborts the import.
func Import(ctx context.Context, r io.Reader, userID string, store ExpenseCreator) (Summary, error) {
	summary := Summary{Skipped: []LineSkip{}}
	log := logger.Get()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				summary.Skipped = append(summary.Skipped, LineSkip{Line: parseErr.StartLine, Reason: SkipMalformed, Err: err})
				continue
			}
			return summary, fmt.Errorf("read line: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(fields) != 3 {
			summary.Skipped = append(summary.Skipped, LineSkip{
				Line:   line,
				Reason: SkipMalformed,
				Err:    fmt.Errorf("expected 3 fields, got %d", len(fields)),
			})
			continue
		}

		date, err := dates.Normalize(fields[0])
		if err != nil {
			summary.Skipped = append(summary.Skipped, LineSkip{Line: line, Reason: report.SkipInvalidDate, Err: err})
			continue
		}
		category := strings.TrimSpace(fields[1])
		if category == "" {
			summary.Skipped = append(summary.Skipped, LineSkip{Line: line, Reason: report.SkipEmptyCategory})
			continue
		}
		amount, err := report.ParseAmount(fields[2])
		if err != nil {
			summary.Skipped = append(summary.Skipped, LineSkip{Line: line, Reason: report.SkipInvalidAmount, Err: err})
			continue
		}

		if _, err := store.CreateExpense(userID, date, category, amount); err != nil {
			return summary, fmt.Errorf("line %d: %w", line, err)
		}
		summary.Imported++
	}

	for _, s := range summary.Skipped {
		log.Warnw("import line skipped", "user_id", userID, "line", s.Line, "reason", s.Reason, "error", s.Err)
	}
	log.Infow("import finished", "user_id", userID, "imported", summary.Imported, "skipped", len(summary.Skipped))

	return summary, nil
}
