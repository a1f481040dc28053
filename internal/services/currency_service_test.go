package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"mizan/internal/pagination"
	"mizan/internal/testutil"
)

func TestCreateCurrency(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		currency, err := svc.CreateCurrency("usd", "US Dollar", "$", decimal.NewFromInt(1), true)
		testutil.AssertNoError(t, err)

		if currency.Code != "USD" {
			t.Errorf("expected code USD, got %s", currency.Code)
		}
		if !currency.IsPrimary {
			t.Error("expected currency to be primary")
		}
	})

	t.Run("invalid_code_length", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		_, err := svc.CreateCurrency("USDX", "Invalid", "$", decimal.NewFromInt(1), false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		_, err := svc.CreateCurrency("EUR", "Euro", "€", decimal.RequireFromString("1.1"), false)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCurrency("EUR", "Euro again", "€", decimal.RequireFromString("1.1"), false)
		testutil.AssertAppError(t, err, "DUPLICATE_CURRENCY")
	})

	t.Run("nonpositive_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		_, err := svc.CreateCurrency("JPY", "Yen", "¥", decimal.Zero, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("new_primary_demotes_previous", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		first, err := svc.CreateCurrency("USD", "US Dollar", "$", decimal.NewFromInt(1), true)
		testutil.AssertNoError(t, err)
		second, err := svc.CreateCurrency("EUR", "Euro", "€", decimal.RequireFromString("1.1"), true)
		testutil.AssertNoError(t, err)

		primary, err := svc.GetPrimaryCurrency()
		testutil.AssertNoError(t, err)
		if primary.ID != second.ID {
			t.Errorf("expected primary %s, got %s", second.ID, primary.ID)
		}

		demoted, err := svc.GetCurrencyByID(first.ID)
		testutil.AssertNoError(t, err)
		if demoted.IsPrimary {
			t.Error("expected previous primary to be demoted")
		}
	})
}

func TestSetPrimary(t *testing.T) {
	t.Run("swaps_primary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)
		usd := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		eur := testutil.CreateTestCurrency(t, db, "EUR", "1.1", false)

		_, err := svc.SetPrimary(eur.ID)
		testutil.AssertNoError(t, err)

		primary, err := svc.GetPrimaryCurrency()
		testutil.AssertNoError(t, err)
		if primary.ID != eur.ID {
			t.Errorf("expected primary %s, got %s", eur.ID, primary.ID)
		}

		old, err := svc.GetCurrencyByID(usd.ID)
		testutil.AssertNoError(t, err)
		if old.IsPrimary {
			t.Error("expected old primary to be demoted")
		}
	})

	t.Run("unknown_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		_, err := svc.SetPrimary("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})
}

func TestUpdateExchangeRate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)
		eur := testutil.CreateTestCurrency(t, db, "EUR", "1.1", false)

		updated, err := svc.UpdateExchangeRate(eur.ID, decimal.RequireFromString("1.08"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, updated.ExchangeRate, "1.08")
	})

	t.Run("nonpositive_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)
		eur := testutil.CreateTestCurrency(t, db, "EUR", "1.1", false)

		_, err := svc.UpdateExchangeRate(eur.ID, decimal.RequireFromString("-1"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeactivateCurrency(t *testing.T) {
	t.Run("unused_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)
		chf := testutil.CreateTestCurrency(t, db, "CHF", "1.05", false)

		testutil.AssertNoError(t, svc.DeactivateCurrency(chf.ID))

		result, err := svc.GetCurrencies(pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		for _, c := range result.Data {
			if c.ID == chf.ID {
				t.Error("expected deactivated currency to be excluded from listing")
			}
		}
	})

	t.Run("referenced_by_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)
		user := testutil.CreateTestUser(t, db)
		usd := testutil.CreateTestCurrency(t, db, "USD", "1", true)
		testutil.CreateTestAccount(t, db, user.ID, usd.ID)

		err := svc.DeactivateCurrency(usd.ID)
		testutil.AssertAppError(t, err, "CURRENCY_IN_USE")
	})
}
