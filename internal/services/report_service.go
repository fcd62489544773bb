package services

import (
	"errors"
	"time"

	"expensetracker/internal/dates"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/report"
)

// reportService builds summaries from the ledger.
type reportService struct {
	expenses ExpenseServicer
	now      func() time.Time
}

// NewReportService creates a new ReportServicer that reads through expenses.
func NewReportService(expenses ExpenseServicer) ReportServicer {
	return &reportService{expenses: expenses, now: time.Now}
}

// NewReportServiceWithClock is NewReportService with a fixed notion of today.
func NewReportServiceWithClock(expenses ExpenseServicer, now func() time.Time) ReportServicer {
	return &reportService{expenses: expenses, now: now}
}

func toRecords(expenses []models.Expense) []report.Record {
	records := make([]report.Record, len(expenses))
	for i, e := range expenses {
		records[i] = report.Record{
			ID:       e.ID,
			Date:     e.Date,
			Category: e.Category,
			Amount:   e.Amount,
		}
	}
	return records
}

func logSkipped(userID string, skipped []report.Skip) {
	if len(skipped) == 0 {
		return
	}
	log := logger.Get()
	for _, s := range skipped {
		log.Warnw("expense skipped in report",
			"user_id", userID,
			"expense_id", s.ID,
			"reason", s.Reason,
			"error", s.Err,
		)
	}
}

// GetSummary aggregates all of the user's expenses over the window described by spec.
func (s *reportService) GetSummary(userID string, spec report.WindowSpec) (*report.Result, error) {
	expenses, err := s.expenses.ListAllExpenses(userID)
	if err != nil {
		return nil, err
	}

	result, err := report.Aggregate(toRecords(expenses), spec, dates.Truncate(s.now()))
	if err != nil {
		if errors.Is(err, report.ErrInvalidWindow) {
			return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidWindow, err.Error()), err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logSkipped(userID, result.Skipped)
	return result, nil
}

// GetMonthlyGroups returns the user's expenses grouped by month, newest first.
func (s *reportService) GetMonthlyGroups(userID string) ([]report.MonthGroup, error) {
	expenses, err := s.expenses.ListAllExpenses(userID)
	if err != nil {
		return nil, err
	}

	groups, skipped := report.GroupByMonth(toRecords(expenses))
	logSkipped(userID, skipped)
	return groups, nil
}
