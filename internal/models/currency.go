package models

import "github.com/shopspring/decimal"

// Currency represents a currency with its exchange rate to the primary currency.
// Rates carry 8 decimal places; at most one currency is marked primary.
type Currency struct {
	Base
	Code         string          `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Name         string          `gorm:"not null" json:"name"`
	Symbol       string          `gorm:"size:10;not null" json:"symbol"`
	ExchangeRate decimal.Decimal `gorm:"type:numeric(18,8);not null;default:1" json:"exchange_rate"`
	IsPrimary    bool            `gorm:"default:false" json:"is_primary"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
}
