package models

// User is an account that owns expenses.
type User struct {
	Base
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Password string    `gorm:"not null" json:"-"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}
