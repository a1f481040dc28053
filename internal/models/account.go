package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCurrent    AccountType = "current"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeDebt       AccountType = "debt"
	AccountTypeOther      AccountType = "other"
)

// Account represents a financial account in the system.
//
// CurrentBalance is derived state: it must always equal InitialBalance plus
// the signed effective amounts of all completed transactions on the account
// plus all transfer deltas. It is mutated only through the account service's
// atomic delta update, never assigned directly.
type Account struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string          `gorm:"not null" json:"name"`
	Type           AccountType     `gorm:"not null;default:'current'" json:"type"`
	CurrencyID     string          `gorm:"type:uuid;not null" json:"currency_id"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"current_balance"`
	Description    string          `json:"description"`
	Color          string          `gorm:"size:7;default:'#007bff'" json:"color"`
	Icon           string          `gorm:"default:'fas fa-wallet'" json:"icon"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Currency     Currency      `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// FormattedBalance returns the balance with the currency symbol for display.
func (a *Account) FormattedBalance() string {
	return a.CurrentBalance.StringFixed(2) + " " + a.Currency.Symbol
}
