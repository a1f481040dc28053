package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mizan/internal/models"
	"mizan/internal/pagination"
	"mizan/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category, err := svc.CreateCategory(user.ID, "Groceries", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)
		if category.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
	})

	t.Run("duplicate_name_same_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Groceries", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Groceries", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})

	t.Run("same_name_different_type_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Misc", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Misc", models.CategoryTypeIncome, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)
	})

	t.Run("parent_type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		_, err := svc.CreateCategory(user.ID, "Child", models.CategoryTypeExpense, "", "", "", &parent.ID, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

		_, err := svc.CreateCategory(user.ID, "Child", models.CategoryTypeExpense, "", "", "", &parent.ID, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("nonpositive_budget_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		limit := decimal.Zero
		_, err := svc.CreateCategory(user.ID, "Capped", models.CategoryTypeExpense, "", "", "", nil, &limit)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("self_parent_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.UpdateCategory(user.ID, category.ID, category.Name, "", "", "", &category.ID, nil)
		testutil.AssertAppError(t, err, "CATEGORY_CYCLE")
	})

	t.Run("reparent_to_descendant_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		root, err := svc.CreateCategory(user.ID, "Root", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)
		child, err := svc.CreateCategory(user.ID, "Child", models.CategoryTypeExpense, "", "", "", &root.ID, nil)
		testutil.AssertNoError(t, err)
		grandchild, err := svc.CreateCategory(user.ID, "Grandchild", models.CategoryTypeExpense, "", "", "", &child.ID, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateCategory(user.ID, root.ID, root.Name, "", "", "", &grandchild.ID, nil)
		testutil.AssertAppError(t, err, "CATEGORY_CYCLE")
	})

	t.Run("valid_reparent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.CreateCategory(user.ID, "First", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)
		second, err := svc.CreateCategory(user.ID, "Second", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateCategory(user.ID, second.ID, second.Name, "", "", "", &first.ID, nil)
		testutil.AssertNoError(t, err)
		if updated.ParentID == nil || *updated.ParentID != first.ID {
			t.Errorf("expected parent %s, got %v", first.ID, updated.ParentID)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Taken", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)
		victim, err := svc.CreateCategory(user.ID, "Renameme", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateCategory(user.ID, victim.ID, "Taken", "", "", "", nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("with_children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		parent, err := svc.CreateCategory(user.ID, "Parent", models.CategoryTypeExpense, "", "", "", nil, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, "Child", models.CategoryTypeExpense, "", "", "", &parent.ID, nil)
		testutil.AssertNoError(t, err)

		err = svc.DeleteCategory(user.ID, parent.ID)
		testutil.AssertAppError(t, err, "CATEGORY_HAS_CHILDREN")
	})

	t.Run("with_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "100.00")
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := txSvc.RecordTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense,
			decimal.RequireFromString("10.00"), models.TransactionStatusCompleted, "", time.Now())
		testutil.AssertNoError(t, err)

		err = svc.DeleteCategory(user.ID, category.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("leaf_without_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		_, err := svc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetMonthlySpending(t *testing.T) {
	t.Run("sums_completed_expenses_in_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "500.00")
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		inMonth := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
		outOfMonth := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

		_, err := txSvc.RecordTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense,
			decimal.RequireFromString("40.00"), models.TransactionStatusCompleted, "", inMonth)
		testutil.AssertNoError(t, err)
		_, err = txSvc.RecordTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense,
			decimal.RequireFromString("25.00"), models.TransactionStatusCompleted, "", inMonth)
		testutil.AssertNoError(t, err)
		_, err = txSvc.RecordTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense,
			decimal.RequireFromString("99.00"), models.TransactionStatusCompleted, "", outOfMonth)
		testutil.AssertNoError(t, err)
		_, err = txSvc.RecordTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense,
			decimal.RequireFromString("11.00"), models.TransactionStatusPending, "", inMonth)
		testutil.AssertNoError(t, err)

		spending, err := svc.GetMonthlySpending(user.ID, category.ID, 2024, time.March)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, spending.Spent, "65.00")
		if spending.OverLimit {
			t.Error("expected no limit breach without a budget limit")
		}
	})

	t.Run("over_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "500.00")

		limit := decimal.RequireFromString("50.00")
		category, err := svc.CreateCategory(user.ID, "Capped", models.CategoryTypeExpense, "", "", "", nil, &limit)
		testutil.AssertNoError(t, err)

		date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
		_, err = txSvc.RecordTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense,
			decimal.RequireFromString("60.00"), models.TransactionStatusCompleted, "", date)
		testutil.AssertNoError(t, err)

		spending, err := svc.GetMonthlySpending(user.ID, category.ID, 2024, time.June)
		testutil.AssertNoError(t, err)
		if !spending.OverLimit {
			t.Error("expected limit breach at 60 over a 50 limit")
		}
	})
}

func TestGetUserCategoriesByType(t *testing.T) {
	t.Run("filters_by_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		result, err := svc.GetUserCategoriesByType(user.ID, models.CategoryTypeIncome, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 income category, got %d", result.TotalItems)
		}
	})
}
