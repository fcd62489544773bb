package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/pagination"
	"expensetracker/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(user.ID, time.Date(2025, 7, 5, 18, 30, 0, 0, time.UTC), "  Food ", decimal.RequireFromString("12.3456"))
		testutil.AssertNoError(t, err)

		if expense.ID == "" {
			t.Fatal("expected an expense ID")
		}
		if !expense.Date.Equal(date(2025, 7, 5)) {
			t.Errorf("expected date truncated to 2025-07-05, got %s", expense.Date)
		}
		if expense.Category != "Food" {
			t.Errorf("expected trimmed category, got %q", expense.Category)
		}
		testutil.AssertAmount(t, "amount", expense.Amount, "12.346")
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, date(2025, 1, 1), "Misc", decimal.Zero)
		testutil.AssertNoError(t, err)
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, date(2025, 1, 1), "Food", decimal.NewFromInt(-5))
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("out_of_range_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		for _, raw := range []string{"1e-2000000000", "1e5000000", "100000000000"} {
			_, err := svc.CreateExpense(user.ID, date(2025, 1, 1), "Food", decimal.RequireFromString(raw))
			testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		}
	})

	t.Run("blank_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, date(2025, 1, 1), "   ", decimal.NewFromInt(5))
		testutil.AssertAppError(t, err, "EMPTY_CATEGORY")
	})

	t.Run("missing_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, time.Time{}, "Food", decimal.NewFromInt(5))
		testutil.AssertAppError(t, err, "INVALID_DATE")
	})
}

func TestGetExpenseByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, owner.ID, "2025-03-01", "Rent", "400")

	t.Run("owner", func(t *testing.T) {
		got, err := svc.GetExpenseByID(owner.ID, expense.ID)
		testutil.AssertNoError(t, err)
		if got.Category != "Rent" || !got.Amount.Equal(decimal.NewFromInt(400)) {
			t.Errorf("unexpected expense: %+v", got)
		}
	})

	t.Run("other_user_sees_not_found", func(t *testing.T) {
		_, err := svc.GetExpenseByID(other.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestListExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestExpense(t, db, user.ID, "2025-01-10", "Food", "10")
	testutil.CreateTestExpense(t, db, user.ID, "2025-02-10", "Rent", "400")
	testutil.CreateTestExpense(t, db, user.ID, "2025-03-10", "Food", "20")
	testutil.CreateTestExpense(t, db, other.ID, "2025-03-11", "Food", "99")

	t.Run("newest_first_owner_only", func(t *testing.T) {
		page, err := svc.ListExpenses(user.ID, pagination.PageRequest{}, ExpenseFilter{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 3 || len(page.Data) != 3 {
			t.Fatalf("expected 3 expenses, got %d (total %d)", len(page.Data), page.TotalItems)
		}
		if !page.Data[0].Date.Equal(date(2025, 3, 10)) || !page.Data[2].Date.Equal(date(2025, 1, 10)) {
			t.Errorf("expected newest first, got %s .. %s", page.Data[0].Date, page.Data[2].Date)
		}
		if page.Page != 1 || page.PageSize != 20 {
			t.Errorf("expected default paging, got page %d size %d", page.Page, page.PageSize)
		}
	})

	t.Run("paged", func(t *testing.T) {
		page, err := svc.ListExpenses(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items, %d pages", len(page.Data), page.TotalPages)
		}
	})

	t.Run("filtered_by_inclusive_dates", func(t *testing.T) {
		from, to := date(2025, 2, 10), date(2025, 3, 10)
		page, err := svc.ListExpenses(user.ID, pagination.PageRequest{}, ExpenseFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 expenses in range, got %d", page.TotalItems)
		}
	})

	t.Run("filtered_by_category", func(t *testing.T) {
		food := "Food"
		page, err := svc.ListExpenses(user.ID, pagination.PageRequest{}, ExpenseFilter{Category: &food})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 Food expenses, got %d", page.TotalItems)
		}
	})
}

func TestListAllExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("empty", func(t *testing.T) {
		all, err := svc.ListAllExpenses(user.ID)
		testutil.AssertNoError(t, err)
		if all == nil || len(all) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", all)
		}
	})

	t.Run("oldest_first", func(t *testing.T) {
		testutil.CreateTestExpense(t, db, user.ID, "2025-03-10", "Food", "20")
		testutil.CreateTestExpense(t, db, user.ID, "2024-12-31", "Gifts", "50")

		all, err := svc.ListAllExpenses(user.ID)
		testutil.AssertNoError(t, err)
		if len(all) != 2 || all[0].Category != "Gifts" {
			t.Errorf("expected Gifts first, got %+v", all)
		}
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, "2025-03-10", "Food", "20")

		category := "Groceries"
		updated, err := svc.UpdateExpense(user.ID, expense.ID, ExpenseUpdate{Category: &category})
		testutil.AssertNoError(t, err)
		if updated.Category != "Groceries" || !updated.Amount.Equal(decimal.NewFromInt(20)) {
			t.Errorf("unexpected update result: %+v", updated)
		}

		reloaded, err := svc.GetExpenseByID(user.ID, expense.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Category != "Groceries" || !reloaded.Date.Equal(date(2025, 3, 10)) {
			t.Errorf("update not persisted: %+v", reloaded)
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, "2025-03-10", "Food", "20")

		negative := decimal.NewFromInt(-1)
		_, err := svc.UpdateExpense(user.ID, expense.ID, ExpenseUpdate{Amount: &negative})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, owner.ID, "2025-03-10", "Food", "20")

		category := "Stolen"
		_, err := svc.UpdateExpense(other.ID, expense.ID, ExpenseUpdate{Category: &category})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, owner.ID, "2025-03-10", "Food", "20")

	t.Run("other_user_cannot_delete", func(t *testing.T) {
		err := svc.DeleteExpense(other.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("owner_deletes", func(t *testing.T) {
		testutil.AssertNoError(t, svc.DeleteExpense(owner.ID, expense.ID))

		_, err := svc.GetExpenseByID(owner.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("already_deleted", func(t *testing.T) {
		err := svc.DeleteExpense(owner.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestGetCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestExpense(t, db, user.ID, "2025-03-10", "Rent", "400")
	testutil.CreateTestExpense(t, db, user.ID, "2025-03-11", "Food", "20")
	testutil.CreateTestExpense(t, db, user.ID, "2025-03-12", "Food", "5")
	testutil.CreateTestExpense(t, db, other.ID, "2025-03-12", "Travel", "5")

	categories, err := svc.GetCategories(user.ID)
	testutil.AssertNoError(t, err)
	if len(categories) != 2 || categories[0] != "Food" || categories[1] != "Rent" {
		t.Errorf("expected [Food Rent], got %v", categories)
	}
}
