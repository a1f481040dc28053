package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
	"mizan/internal/pagination"
)

// currencyService handles currency reference data.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// CreateCurrency creates a new currency. When isPrimary is set, any existing
// primary currency is demoted in the same database transaction so at most
// one primary exists.
func (s *currencyService) CreateCurrency(code, name, symbol string, exchangeRate decimal.Decimal, isPrimary bool) (*models.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency code must be exactly 3 characters")
	}
	if name == "" || symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency name and symbol are required")
	}
	if !exchangeRate.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange rate must be greater than zero")
	}

	var count int64
	if err := s.db.Model(&models.Currency{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCurrency
	}

	currency := &models.Currency{
		Code:         code,
		Name:         name,
		Symbol:       symbol,
		ExchangeRate: exchangeRate,
		IsPrimary:    isPrimary,
		IsActive:     true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if isPrimary {
			if err := tx.Model(&models.Currency{}).Where("is_primary = ?", true).
				Update("is_primary", false).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Create(currency).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return currency, nil
}

// GetCurrencies retrieves a paginated list of active currencies.
func (s *currencyService) GetCurrencies(page pagination.PageRequest) (*pagination.PageResponse[models.Currency], error) {
	page.Defaults()

	base := s.db.Model(&models.Currency{}).Where("is_active = ?", true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var currencies []models.Currency
	if err := base.Scopes(pagination.Paginate(page)).Order("code").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(currencies, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCurrencyByID retrieves a currency by ID.
func (s *currencyService) GetCurrencyByID(currencyID string) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.Where("id = ?", currencyID).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// GetPrimaryCurrency retrieves the currency marked primary.
func (s *currencyService) GetPrimaryCurrency() (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.Where("is_primary = ?", true).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCurrencyNotFound, "no primary currency configured")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// UpdateExchangeRate updates a currency's exchange rate. Rates are the only
// mutable attribute once a currency is referenced by transactions.
func (s *currencyService) UpdateExchangeRate(currencyID string, exchangeRate decimal.Decimal) (*models.Currency, error) {
	if !exchangeRate.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange rate must be greater than zero")
	}

	currency, err := s.GetCurrencyByID(currencyID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(currency).Update("exchange_rate", exchangeRate).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currency, nil
}

// SetPrimary marks a currency as primary, demoting the previous one atomically.
func (s *currencyService) SetPrimary(currencyID string) (*models.Currency, error) {
	currency, err := s.GetCurrencyByID(currencyID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Currency{}).Where("is_primary = ?", true).
			Update("is_primary", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(currency).Update("is_primary", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	currency.IsPrimary = true
	return currency, nil
}

// DeactivateCurrency marks a currency inactive. Currencies referenced by
// accounts cannot be deactivated.
func (s *currencyService) DeactivateCurrency(currencyID string) error {
	currency, err := s.GetCurrencyByID(currencyID)
	if err != nil {
		return err
	}

	var accountCount int64
	if err := s.db.Model(&models.Account{}).Where("currency_id = ?", currencyID).Count(&accountCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if accountCount > 0 {
		return apperrors.ErrCurrencyInUse
	}

	if err := s.db.Model(currency).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
