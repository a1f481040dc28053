package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mizan/internal/models"
	"mizan/internal/pagination"
	"mizan/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	t.Run("success_with_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		goal, err := svc.CreateGoal(user.ID, "Emergency fund", "", "", "",
			decimal.RequireFromString("5000.00"), time.Time{}, time.Now().AddDate(1, 0, 0), nil, nil)
		testutil.AssertNoError(t, err)

		if goal.Type != models.GoalTypeSavings {
			t.Errorf("expected type savings, got %s", goal.Type)
		}
		if goal.Priority != models.GoalPriorityMedium {
			t.Errorf("expected priority medium, got %s", goal.Priority)
		}
		if goal.Status != models.GoalStatusActive {
			t.Errorf("expected status active, got %s", goal.Status)
		}
		testutil.AssertDecimalEqual(t, goal.CurrentAmount, "0")
	})

	t.Run("target_date_not_after_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		start := time.Now()
		_, err := svc.CreateGoal(user.ID, "Backwards", "", models.GoalTypeSavings, models.GoalPriorityMedium,
			decimal.RequireFromString("100.00"), start, start, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("nonpositive_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Zero", "", models.GoalTypeSavings, models.GoalPriorityMedium,
			decimal.Zero, time.Now(), time.Now().AddDate(1, 0, 0), nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, other.ID, currency.ID)

		_, err := svc.CreateGoal(user.ID, "Linked", "", models.GoalTypeSavings, models.GoalPriorityMedium,
			decimal.RequireFromString("100.00"), time.Now(), time.Now().AddDate(1, 0, 0), &account.ID, nil)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestAddContribution(t *testing.T) {
	t.Run("increments_current_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "5000")

		contribution, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString("1250.00"),
			models.ContributionTypeManual, account.ID, nil, "Bonus", time.Now())
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, contribution.Amount, "1250.00")

		reloaded, err := svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, reloaded.CurrentAmount, "1250.00")
	})

	t.Run("contributions_accumulate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "1000")

		for _, amount := range []string{"100.00", "250.00", "50.00"} {
			_, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString(amount),
				models.ContributionTypeManual, account.ID, nil, "", time.Now())
			testutil.AssertNoError(t, err)
		}

		reloaded, err := svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, reloaded.CurrentAmount, "400.00")
	})

	t.Run("defaults_type_and_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "1000")

		contribution, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString("10.00"),
			"", account.ID, nil, "", time.Time{})
		testutil.AssertNoError(t, err)
		if contribution.Type != models.ContributionTypeManual {
			t.Errorf("expected type manual, got %s", contribution.Type)
		}
		if contribution.Date.IsZero() {
			t.Error("expected date to default to now")
		}
	})

	t.Run("nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "1000")

		_, err := svc.AddContribution(user.ID, goal.ID, decimal.Zero,
			models.ContributionTypeManual, account.ID, nil, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, other.ID, "1000")

		_, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString("10.00"),
			models.ContributionTypeManual, account.ID, nil, "", time.Now())
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("unknown_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "1000")

		missing := "00000000-0000-0000-0000-000000000000"
		_, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString("10.00"),
			models.ContributionTypeTransaction, account.ID, &missing, "", time.Now())
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestGetGoalProgress(t *testing.T) {
	t.Run("quarter_progress", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "5000")

		_, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString("1250.00"),
			models.ContributionTypeManual, account.ID, nil, "", time.Now())
		testutil.AssertNoError(t, err)

		progress, err := svc.GetGoalProgress(user.ID, goal.ID)
		testutil.AssertNoError(t, err)

		if progress.Percentage != 25.0 {
			t.Errorf("expected 25.0 percent, got %v", progress.Percentage)
		}
		testutil.AssertDecimalEqual(t, progress.RemainingAmount, "3750.00")
		if progress.Status != "starting" {
			t.Errorf("expected status starting, got %s", progress.Status)
		}
		if progress.DaysRemaining <= 0 {
			t.Errorf("expected positive days remaining, got %d", progress.DaysRemaining)
		}
		if !progress.MonthlyProgressNeeded.IsPositive() {
			t.Errorf("expected positive monthly pace, got %s", progress.MonthlyProgressNeeded)
		}
	})

	t.Run("status_bands", func(t *testing.T) {
		goal := &models.FinancialGoal{
			TargetAmount: decimal.RequireFromString("100"),
		}
		cases := []struct {
			current string
			status  string
		}{
			{"0", "behind"},
			{"25", "starting"},
			{"50", "progress"},
			{"75", "on_track"},
			{"100", "completed"},
			{"120", "completed"},
		}
		for _, tc := range cases {
			goal.CurrentAmount = decimal.RequireFromString(tc.current)
			status, _ := goal.ProgressStatus()
			if status != tc.status {
				t.Errorf("current %s: expected status %s, got %s", tc.current, tc.status, status)
			}
		}
	})

	t.Run("past_target_date_due_in_full", func(t *testing.T) {
		now := time.Now()
		goal := &models.FinancialGoal{
			TargetAmount:  decimal.RequireFromString("1000"),
			CurrentAmount: decimal.RequireFromString("400"),
			StartDate:     now.AddDate(-1, 0, 0),
			TargetDate:    now.AddDate(0, 0, -10),
		}
		testutil.AssertDecimalEqual(t, goal.MonthlyProgressNeeded(now), "600")
	})
}

func TestDeleteGoal(t *testing.T) {
	t.Run("contributions_survive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, "1000")

		_, err := svc.AddContribution(user.ID, goal.ID, decimal.RequireFromString("10.00"),
			models.ContributionTypeManual, account.ID, nil, "", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteGoal(user.ID, goal.ID))

		_, err = svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

		var count int64
		if err := db.Model(&models.GoalContribution{}).Where("goal_id = ?", goal.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count contributions: %v", err)
		}
		if count != 1 {
			t.Errorf("expected contribution to remain, found %d", count)
		}
	})
}

func TestGetUserGoals(t *testing.T) {
	t.Run("filters_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestGoal(t, db, user.ID, "1000")
		paused := testutil.CreateTestGoal(t, db, user.ID, "2000")
		status := models.GoalStatusPaused
		if err := db.Model(paused).Update("status", status).Error; err != nil {
			t.Fatalf("failed to pause goal: %v", err)
		}

		result, err := svc.GetUserGoals(user.ID, pagination.PageRequest{}, &status)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 paused goal, got %d", result.TotalItems)
		}
	})
}
