package services

import (
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/report"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// Both date bounds are inclusive.
type ExpenseFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Category *string
}

// ExpenseUpdate carries the fields of a partial update; nil fields are left unchanged.
type ExpenseUpdate struct {
	Date     *time.Time
	Category *string
	Amount   *decimal.Decimal
}

// ExpenseServicer defines the contract for the owner-scoped expense ledger.
type ExpenseServicer interface {
	CreateExpense(userID string, date time.Time, category string, amount decimal.Decimal) (*models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	ListExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	ListAllExpenses(userID string) ([]models.Expense, error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetCategories(userID string) ([]string, error)
}

// ReportServicer defines the contract for the summary views built from an owner's expenses.
type ReportServicer interface {
	GetSummary(userID string, spec report.WindowSpec) (*report.Result, error)
	GetMonthlyGroups(userID string) ([]report.MonthGroup, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
