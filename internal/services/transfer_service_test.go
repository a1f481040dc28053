package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mizan/internal/pagination"
	"mizan/internal/testutil"
)

func TestApplyTransfer(t *testing.T) {
	t.Run("cross_currency_transfer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		usd := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		eur := testutil.CreateTestCurrency(t, db, "EUR", "1.10", false)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, usd.ID, "100.00")
		to := testutil.CreateTestAccountWithBalance(t, db, user.ID, eur.ID, "0")

		transfer, err := svc.ApplyTransfer(user.ID, from.ID, to.ID,
			decimal.RequireFromString("50.00"), decimal.RequireFromString("0.90"), "To EUR", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, transfer.Amount, "50.00")
		testutil.AssertDecimalEqual(t, transfer.ConvertedAmount, "45.00")

		fromReloaded, err := acctSvc.GetAccountByID(user.ID, from.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, fromReloaded.CurrentBalance, "50.00")

		toReloaded, err := acctSvc.GetAccountByID(user.ID, to.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, toReloaded.CurrentBalance, "45.00")
	})

	t.Run("converted_amount_rounds_to_cents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "100.00")
		to := testutil.CreateTestAccount(t, db, user.ID, currency.ID)

		transfer, err := svc.ApplyTransfer(user.ID, from.ID, to.ID,
			decimal.RequireFromString("10.00"), decimal.RequireFromString("0.123456"), "", time.Now())
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, transfer.ConvertedAmount, "1.23")
	})

	t.Run("same_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "100.00")

		_, err := svc.ApplyTransfer(user.ID, account.ID, account.ID,
			decimal.RequireFromString("10.00"), decimal.NewFromInt(1), "", time.Now())
		testutil.AssertAppError(t, err, "SAME_ACCOUNT_TRANSFER")
	})

	t.Run("nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		from := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		to := testutil.CreateTestAccount(t, db, user.ID, currency.ID)

		_, err := svc.ApplyTransfer(user.ID, from.ID, to.ID, decimal.Zero, decimal.NewFromInt(1), "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("nonpositive_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		from := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		to := testutil.CreateTestAccount(t, db, user.ID, currency.ID)

		_, err := svc.ApplyTransfer(user.ID, from.ID, to.ID,
			decimal.RequireFromString("10.00"), decimal.Zero, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_destination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "100.00")
		foreign := testutil.CreateTestAccount(t, db, other.ID, currency.ID)

		_, err := svc.ApplyTransfer(user.ID, from.ID, foreign.ID,
			decimal.RequireFromString("10.00"), decimal.NewFromInt(1), "", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

		// Source must be untouched after the rejected transfer
		reloaded, err := acctSvc.GetAccountByID(user.ID, from.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, reloaded.CurrentBalance, "100.00")
	})
}

func TestGetUserTransfers(t *testing.T) {
	t.Run("lists_own_transfers_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "100.00")
		to := testutil.CreateTestAccount(t, db, user.ID, currency.ID)
		otherFrom := testutil.CreateTestAccountWithBalance(t, db, other.ID, currency.ID, "100.00")
		otherTo := testutil.CreateTestAccount(t, db, other.ID, currency.ID)

		_, err := svc.ApplyTransfer(user.ID, from.ID, to.ID,
			decimal.RequireFromString("10.00"), decimal.NewFromInt(1), "", time.Now())
		testutil.AssertNoError(t, err)
		_, err = svc.ApplyTransfer(other.ID, otherFrom.ID, otherTo.ID,
			decimal.RequireFromString("20.00"), decimal.NewFromInt(1), "", time.Now())
		testutil.AssertNoError(t, err)

		result, err := svc.GetUserTransfers(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transfer, got %d", result.TotalItems)
		}
	})
}

func TestGetTransferByID(t *testing.T) {
	t.Run("other_users_transfer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewTransferService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, currency.ID, "100.00")
		to := testutil.CreateTestAccount(t, db, user.ID, currency.ID)

		transfer, err := svc.ApplyTransfer(user.ID, from.ID, to.ID,
			decimal.RequireFromString("10.00"), decimal.NewFromInt(1), "", time.Now())
		testutil.AssertNoError(t, err)

		_, err = svc.GetTransferByID(other.ID, transfer.ID)
		testutil.AssertAppError(t, err, "TRANSFER_NOT_FOUND")
	})
}
