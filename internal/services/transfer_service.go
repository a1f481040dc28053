package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
	"mizan/internal/pagination"
)

// transferService handles two-leg ledger movements between accounts.
type transferService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransferService creates a new TransferServicer.
func NewTransferService(db *gorm.DB, accountService AccountServicer) TransferServicer {
	return &transferService{
		db:             db,
		accountService: accountService,
	}
}

// ApplyTransfer moves money between two accounts owned by the same user,
// applying currency conversion.
//
// The converted amount is always derived as amount x exchange rate, rounded
// to the 2-decimal storage precision, and fixed at creation. Both legs and
// the transfer record run in one database transaction: the source debit by
// amount and the destination credit by the converted amount are visible
// together or not at all.
func (s *transferService) ApplyTransfer(
	userID, fromAccountID, toAccountID string,
	amount, exchangeRate decimal.Decimal,
	description string,
	transferDate time.Time,
) (*models.AccountTransfer, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !exchangeRate.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange rate must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	if transferDate.IsZero() {
		transferDate = time.Now()
	}

	// Both accounts must exist and belong to the requesting user
	fromAccount, err := s.accountService.GetAccountByID(userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.accountService.GetAccountByID(userID, toAccountID)
	if err != nil {
		return nil, err
	}

	convertedAmount := amount.Mul(exchangeRate).Round(2)

	transfer := &models.AccountTransfer{
		UserID:          userID,
		FromAccountID:   fromAccount.ID,
		ToAccountID:     toAccount.ID,
		Amount:          amount,
		ExchangeRate:    exchangeRate,
		ConvertedAmount: convertedAmount,
		Description:     description,
		TransferDate:    transferDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.ApplyDelta(tx, fromAccount, amount, models.DirectionDebit); err != nil {
			return err
		}
		if err := s.accountService.ApplyDelta(tx, toAccount, convertedAmount, models.DirectionCredit); err != nil {
			return err
		}
		if err := tx.Create(transfer).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transfer, nil
}

// GetUserTransfers retrieves a paginated list of the user's transfers.
func (s *transferService) GetUserTransfers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AccountTransfer], error) {
	page.Defaults()

	base := s.db.Model(&models.AccountTransfer{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transfers []models.AccountTransfer
	if err := base.Preload("FromAccount").Preload("ToAccount").
		Scopes(pagination.Paginate(page)).
		Order("transfer_date DESC").
		Find(&transfers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transfers, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransferByID retrieves a transfer by ID for a specific user
func (s *transferService) GetTransferByID(userID, transferID string) (*models.AccountTransfer, error) {
	var transfer models.AccountTransfer
	if err := s.db.Preload("FromAccount").Preload("ToAccount").
		Where("id = ? AND user_id = ?", transferID, userID).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransferNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transfer, nil
}
