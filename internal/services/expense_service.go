package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"expensetracker/internal/dates"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/report"
)

// expenseService is the ledger store. Every query is scoped to the owning user.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

func validateExpense(date time.Time, category string, amount decimal.Decimal) error {
	if date.IsZero() {
		return apperrors.ErrInvalidDate
	}
	if strings.TrimSpace(category) == "" {
		return apperrors.ErrEmptyCategory
	}
	if _, err := report.CheckAmount(amount); err != nil {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// CreateExpense records a new expense for userID.
func (s *expenseService) CreateExpense(userID string, date time.Time, category string, amount decimal.Decimal) (*models.Expense, error) {
	if err := validateExpense(date, category, amount); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:   userID,
		Date:     dates.Truncate(date),
		Category: strings.TrimSpace(category),
		Amount:   amount,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense owned by userID. Another user's expense is
// reported as not found.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// ListExpenses returns a page of the user's expenses, newest first.
func (s *expenseService) ListExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	base = applyExpenseFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", dates.Truncate(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", dates.Truncate(*f.ToDate))
	}
	if f.Category != nil {
		q = q.Where("category = ?", strings.TrimSpace(*f.Category))
	}
	return q
}

// ListAllExpenses returns every expense of the user, oldest first.
func (s *expenseService) ListAllExpenses(userID string) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := s.db.Where("user_id = ?", userID).
		Order("date ASC").
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// UpdateExpense applies the non-nil fields of update to an expense owned by userID.
func (s *expenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if update.Date != nil {
		expense.Date = *update.Date
	}
	if update.Category != nil {
		expense.Category = *update.Category
	}
	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if err := validateExpense(expense.Date, expense.Category, expense.Amount); err != nil {
		return nil, err
	}

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense removes an expense owned by userID.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCategories lists the distinct categories the user has spent on, sorted by name.
func (s *expenseService) GetCategories(userID string) ([]string, error) {
	categories := []string{}
	if err := s.db.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}
