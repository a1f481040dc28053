package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTransfer represents a two-leg ledger movement between two accounts
// owned by the same user, with currency conversion applied.
//
// ConvertedAmount is always derived as Amount x ExchangeRate at creation and
// never recomputed later, even if the currencies' reference rates change.
type AccountTransfer struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	FromAccountID   string          `gorm:"type:uuid;not null" json:"from_account_id"`
	ToAccountID     string          `gorm:"type:uuid;not null" json:"to_account_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	ExchangeRate    decimal.Decimal `gorm:"type:numeric(18,8);not null;default:1" json:"exchange_rate"`
	ConvertedAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"converted_amount"`
	Description     string          `json:"description"`
	TransferDate    time.Time       `gorm:"not null" json:"transfer_date"`

	// Relationships
	FromAccount Account `gorm:"foreignKey:FromAccountID" json:"from_account,omitempty"`
	ToAccount   Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
}
