package models

import "github.com/shopspring/decimal"

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "income"
	CategoryTypeExpense  CategoryType = "expense"
	CategoryTypeTransfer CategoryType = "transfer"
)

// Category represents a transaction category. Categories form a tree via
// ParentID; the ancestor chain is kept finite and acyclic by the category
// service's cycle check on write.
type Category struct {
	Base
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string           `gorm:"not null" json:"name"`
	Type        CategoryType     `gorm:"not null" json:"type"`
	ParentID    *string          `gorm:"type:uuid" json:"parent_id,omitempty"`
	Description string           `json:"description"`
	Color       string           `gorm:"size:7;default:'#007bff'" json:"color"`
	Icon        string           `gorm:"default:'fas fa-folder'" json:"icon"`
	SortOrder   int              `gorm:"default:0" json:"sort_order"`
	IsActive    bool             `gorm:"default:true" json:"is_active"`
	BudgetLimit *decimal.Decimal `gorm:"type:numeric(18,2)" json:"budget_limit,omitempty"` // optional monthly cap

	// Relationships
	Parent       *Category     `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children     []Category    `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
