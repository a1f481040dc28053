package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// BalanceDirection is the effect of a ledger delta on an account balance.
type BalanceDirection string

const (
	DirectionCredit BalanceDirection = "credit"
	DirectionDebit  BalanceDirection = "debit"
)

// Direction returns the balance effect of the transaction type.
// Expenses debit the account; income and incoming transfers credit it.
func (t TransactionType) Direction() (BalanceDirection, bool) {
	switch t {
	case TransactionTypeExpense:
		return DirectionDebit, true
	case TransactionTypeIncome, TransactionTypeTransfer:
		return DirectionCredit, true
	}
	return "", false
}

// EffectiveAmount returns the signed amount the type contributes to its
// account: -amount for expenses, +amount otherwise.
func (t TransactionType) EffectiveAmount(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// TransactionStatus represents the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction represents a financial transaction in the system.
//
// EffectiveAmount and BalanceAfter are written once at creation and are
// immutable after: BalanceAfter snapshots the account balance immediately
// after this transaction's delta was applied.
type Transaction struct {
	Base
	UserID          string            `gorm:"type:uuid;not null;index:idx_transactions_user_date" json:"user_id"`
	AccountID       string            `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID      *string           `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Type            TransactionType   `gorm:"not null" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"amount"`
	Status          TransactionStatus `gorm:"not null;default:'completed'" json:"status"`
	Description     string            `json:"description"`
	Notes           string            `json:"notes,omitempty"`
	Date            time.Time         `gorm:"not null;index:idx_transactions_user_date" json:"date"`
	EffectiveAmount decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"effective_amount"`
	BalanceAfter    decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"balance_after"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
