package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
	"mizan/internal/pagination"
)

// accountService handles account-related business logic and owns the
// ledger's balance-delta contract.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. The current balance starts
// equal to the initial balance; from then on it only moves through ApplyDelta.
func (s *accountService) CreateAccount(
	userID, name string,
	accountType models.AccountType,
	currencyID string,
	initialBalance decimal.Decimal,
	description string,
) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	// Account names are unique per owner
	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAccountName
	}

	// The referenced currency must exist and be active
	var currency models.Currency
	if err := s.db.Where("id = ? AND is_active = ?", currencyID, true).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		CurrencyID:     currencyID,
		InitialBalance: initialBalance,
		CurrentBalance: initialBalance,
		Description:    description,
		IsActive:       true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.Currency = currency
	return account, nil
}

// GetUserAccounts retrieves a paginated list of active accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ? AND is_active = ?", userID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Preload("Currency").Scopes(pagination.Paginate(page)).
		Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Preload("Currency").
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an existing account's descriptive fields.
// Balances are never updated through this path.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		var count int64
		if err := s.db.Model(&models.Account{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, *fields.Name, accountID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateAccountName
		}
		updates["name"] = *fields.Name
	}
	if fields.Type != nil {
		updates["type"] = *fields.Type
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Color != nil {
		updates["color"] = *fields.Color
	}
	if fields.Icon != nil {
		updates["icon"] = *fields.Icon
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Preload("Currency").Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeactivateAccount marks an account inactive. Its transactions and balance
// history are retained.
func (s *accountService) DeactivateAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Model(account).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ApplyDelta applies a single credit or debit to the account balance.
//
// The increment runs as one atomic SQL update so that two concurrent
// operations against the same account cannot lose an update; the balance is
// never read-modify-written in application code. Callers must invoke this
// inside the same database transaction that persists the originating record,
// and before that record is inserted, so balance_after snapshots the
// post-update state. After the update, account.CurrentBalance is refreshed
// from the row.
func (s *accountService) ApplyDelta(tx *gorm.DB, account *models.Account, amount decimal.Decimal, direction models.BalanceDirection) error {
	if amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "delta amount must not be negative")
	}

	delta := amount
	if direction == models.DirectionDebit {
		delta = amount.Neg()
	}

	res := tx.Model(&models.Account{}).
		Where("id = ?", account.ID).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}

	var updated models.Account
	if err := tx.Select("current_balance").Where("id = ?", account.ID).First(&updated).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.CurrentBalance = updated.CurrentBalance
	return nil
}
