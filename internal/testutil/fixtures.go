package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"mizan/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCurrency creates an active currency with the given code and rate.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code string, rate string, isPrimary bool) *models.Currency {
	t.Helper()

	currency := &models.Currency{
		Code:         code,
		Name:         fmt.Sprintf("Test Currency %s", code),
		Symbol:       code,
		ExchangeRate: mustDecimal(t, rate),
		IsPrimary:    isPrimary,
		IsActive:     true,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestAccount creates an account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID, currencyID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, currencyID, "0")
}

// CreateTestAccountWithBalance creates an account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID, currencyID string, balance string) *models.Account {
	t.Helper()

	amount := mustDecimal(t, balance)
	account := &models.Account{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Type:           models.AccountTypeCurrent,
		CurrencyID:     currencyID,
		InitialBalance: amount,
		CurrentBalance: amount,
		IsActive:       true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a completed transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()

	value := mustDecimal(t, amount)
	tx := &models.Transaction{
		UserID:          userID,
		AccountID:       accountID,
		Type:            txType,
		Amount:          value,
		Status:          models.TransactionStatusCompleted,
		Date:            time.Now(),
		EffectiveAmount: txType.EffectiveAmount(value),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active budget covering the last and next 15 days.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, totalBudget string) *models.Budget {
	t.Helper()

	now := time.Now()
	budget := &models.Budget{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Budget %d", nextID()),
		PeriodStart:    now.AddDate(0, 0, -15),
		PeriodEnd:      now.AddDate(0, 0, 15),
		TotalBudget:    mustDecimal(t, totalBudget),
		Status:         models.BudgetStatusActive,
		AlertThreshold: models.AlertThreshold90,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestBudgetCategory allocates part of a budget to a category.
func CreateTestBudgetCategory(t *testing.T, db *gorm.DB, budgetID, categoryID string, allocated string) *models.BudgetCategory {
	t.Helper()

	allocation := &models.BudgetCategory{
		BudgetID:        budgetID,
		CategoryID:      categoryID,
		AllocatedAmount: mustDecimal(t, allocated),
		SpentAmount:     decimal.Zero,
	}
	if err := db.Create(allocation).Error; err != nil {
		t.Fatalf("failed to create test budget category: %v", err)
	}
	return allocation
}

// CreateTestGoal creates an active goal with a one-year horizon.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, targetAmount string) *models.FinancialGoal {
	t.Helper()

	now := time.Now()
	goal := &models.FinancialGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		Type:          models.GoalTypeSavings,
		Priority:      models.GoalPriorityMedium,
		TargetAmount:  mustDecimal(t, targetAmount),
		CurrentAmount: decimal.Zero,
		StartDate:     now,
		TargetDate:    now.AddDate(1, 0, 0),
		Status:        models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal fixture value %q: %v", value, err)
	}
	return d
}
