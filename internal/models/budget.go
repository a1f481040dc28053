package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus represents the lifecycle state of a budget
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusCompleted BudgetStatus = "completed"
	BudgetStatusCancelled BudgetStatus = "cancelled"
)

// AlertThreshold selects when a budget should raise an alert condition.
type AlertThreshold string

const (
	AlertThresholdNone   AlertThreshold = "none"
	AlertThreshold80     AlertThreshold = "80_percent"
	AlertThreshold90     AlertThreshold = "90_percent"
	AlertThreshold100    AlertThreshold = "100_percent"
	AlertThresholdCustom AlertThreshold = "custom"
)

// Budget represents a spending plan over a date range, broken down into
// per-category allocations. TotalSpent is derived from the allocations'
// spent amounts and refreshed lazily on read.
type Budget struct {
	Base
	UserID                string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                  string           `gorm:"not null" json:"name"`
	Description           string           `json:"description"`
	PeriodStart           time.Time        `gorm:"not null" json:"period_start"`
	PeriodEnd             time.Time        `gorm:"not null" json:"period_end"`
	TotalBudget           decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"total_budget"`
	TotalSpent            decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"total_spent"`
	Status                BudgetStatus     `gorm:"not null;default:'draft'" json:"status"`
	AlertThreshold        AlertThreshold   `gorm:"not null;default:'90_percent'" json:"alert_threshold"`
	CustomAlertPercentage *decimal.Decimal `gorm:"type:numeric(5,2)" json:"custom_alert_percentage,omitempty"`
	StartedAt             *time.Time       `json:"started_at,omitempty"`
	CompletedAt           *time.Time       `json:"completed_at,omitempty"`

	// Relationships
	Categories []BudgetCategory `gorm:"foreignKey:BudgetID" json:"categories,omitempty"`
}

// SpendingPercentage returns spent/total x 100, or 0 when the total is zero.
func (b *Budget) SpendingPercentage() float64 {
	return spendingPercentage(b.TotalSpent, b.TotalBudget)
}

// RemainingAmount returns the unspent budget (may be negative).
func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.TotalBudget.Sub(b.TotalSpent)
}

// IsOverBudget reports whether spending strictly exceeds the total budget.
func (b *Budget) IsOverBudget() bool {
	return b.TotalSpent.GreaterThan(b.TotalBudget)
}

// ShouldAlert reports whether the spending percentage has crossed the
// configured alert threshold. Pure function of spent/total and threshold;
// evaluated on read, never stored.
func (b *Budget) ShouldAlert() bool {
	percentage := b.SpendingPercentage()

	switch b.AlertThreshold {
	case AlertThreshold80:
		return percentage >= 80
	case AlertThreshold90:
		return percentage >= 90
	case AlertThreshold100:
		return percentage >= 100
	case AlertThresholdCustom:
		if b.CustomAlertPercentage == nil {
			return false
		}
		return percentage >= b.CustomAlertPercentage.InexactFloat64()
	}
	return false
}

// StatusColor returns the display color for the current spending level.
func (b *Budget) StatusColor() string {
	percentage := b.SpendingPercentage()
	switch {
	case percentage >= 100:
		return "#dc3545" // red
	case percentage >= 90:
		return "#fd7e14" // orange
	case percentage >= 80:
		return "#ffc107" // yellow
	default:
		return "#28a745" // green
	}
}

// BudgetCategory is a per-category allocation within a budget.
// AllocatedAmount must be positive at creation; SpentAmount starts at zero
// and grows as transactions are attributed to it.
type BudgetCategory struct {
	Base
	BudgetID        string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_budget_category" json:"budget_id"`
	CategoryID      string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_category" json:"category_id"`
	AllocatedAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"allocated_amount"`
	SpentAmount     decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"spent_amount"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// SpendingPercentage mirrors the budget-level formula at category granularity.
func (bc *BudgetCategory) SpendingPercentage() float64 {
	return spendingPercentage(bc.SpentAmount, bc.AllocatedAmount)
}

// RemainingAmount returns the unspent allocation (may be negative).
func (bc *BudgetCategory) RemainingAmount() decimal.Decimal {
	return bc.AllocatedAmount.Sub(bc.SpentAmount)
}

// IsOverBudget reports whether spending strictly exceeds the allocation.
func (bc *BudgetCategory) IsOverBudget() bool {
	return bc.SpentAmount.GreaterThan(bc.AllocatedAmount)
}

func spendingPercentage(spent, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return spent.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
