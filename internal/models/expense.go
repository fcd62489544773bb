package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"expensetracker/internal/dates"
)

// AmountScale is the number of fractional digits stored for an amount.
const AmountScale = 3

// Expense is a single dated, categorized spending entry.
type Expense struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Date     time.Time       `gorm:"type:date;not null;index" json:"date"`
	Category string          `gorm:"not null;index" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"amount"`
}

// BeforeSave keeps stored values canonical: the date without time of day, the
// category trimmed and the amount rounded to AmountScale digits.
func (e *Expense) BeforeSave(tx *gorm.DB) error {
	e.Date = dates.Truncate(e.Date)
	e.Category = strings.TrimSpace(e.Category)
	e.Amount = e.Amount.Round(AmountScale)
	return nil
}
