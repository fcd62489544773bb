package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"expensetracker/internal/dates"
	"expensetracker/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense stores an expense for userID. date may be in any layout the
// date normalizer accepts and amount is a decimal string.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, date, category, amount string) *models.Expense {
	t.Helper()

	d, err := dates.Normalize(date)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", date, err)
	}

	expense := &models.Expense{
		UserID:   userID,
		Date:     d,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
