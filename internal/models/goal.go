package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType represents what a financial goal is saved for
type GoalType string

const (
	GoalTypeSavings       GoalType = "savings"
	GoalTypeDebtPayment   GoalType = "debt_payment"
	GoalTypeInvestment    GoalType = "investment"
	GoalTypeMajorPurchase GoalType = "major_purchase"
	GoalTypeEmergencyFund GoalType = "emergency_fund"
	GoalTypeEducation     GoalType = "education"
	GoalTypeRetirement    GoalType = "retirement"
	GoalTypeTravel        GoalType = "travel"
	GoalTypeOther         GoalType = "other"
)

// GoalStatus represents the lifecycle state of a goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// GoalPriority represents the priority of a goal
type GoalPriority string

const (
	GoalPriorityLow      GoalPriority = "low"
	GoalPriorityMedium   GoalPriority = "medium"
	GoalPriorityHigh     GoalPriority = "high"
	GoalPriorityCritical GoalPriority = "critical"
)

// avgDaysPerMonth is the average length of a month used to convert remaining
// days into months for the required-pace calculation.
const avgDaysPerMonth = 30.44

// FinancialGoal represents a savings target with a deadline.
// CurrentAmount is the derived sum of contribution amounts; contributions
// only ever increase it.
type FinancialGoal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Type          GoalType        `gorm:"not null;default:'savings'" json:"type"`
	Priority      GoalPriority    `gorm:"not null;default:'medium'" json:"priority"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"current_amount"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	TargetDate    time.Time       `gorm:"not null" json:"target_date"`
	CompletedDate *time.Time      `json:"completed_date,omitempty"`
	Status        GoalStatus      `gorm:"not null;default:'active'" json:"status"`
	AccountID     *string         `gorm:"type:uuid" json:"account_id,omitempty"`
	CategoryID    *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Color         string          `gorm:"size:7;default:'#ffc107'" json:"color"`
	Icon          string          `gorm:"default:'fas fa-bullseye'" json:"icon"`

	// Relationships
	Contributions []GoalContribution `gorm:"foreignKey:GoalID" json:"contributions,omitempty"`
}

// ProgressPercentage returns current/target x 100, or 0 when the target is
// zero. Not capped at 100.
func (g *FinancialGoal) ProgressPercentage() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// RemainingAmount returns target minus current (may be negative).
func (g *FinancialGoal) RemainingAmount() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// DaysRemaining returns whole days from asOf until the target date.
func (g *FinancialGoal) DaysRemaining(asOf time.Time) int {
	today := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(g.TargetDate.Year(), g.TargetDate.Month(), g.TargetDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

// MonthlyProgressNeeded returns the amount that must be contributed per
// month to reach the target by the target date. Remaining months are floored
// at 1 to avoid blow-up when the target date is today or has passed; if it
// has already passed, the whole remaining amount is due.
func (g *FinancialGoal) MonthlyProgressNeeded(asOf time.Time) decimal.Decimal {
	days := g.DaysRemaining(asOf)
	if days <= 0 {
		return g.RemainingAmount()
	}

	months := float64(days) / avgDaysPerMonth
	if months < 1 {
		months = 1
	}
	return g.RemainingAmount().Div(decimal.NewFromFloat(months)).Round(2)
}

// IsBehindSchedule reports whether actual progress trails 80% of the
// annualized required pace.
func (g *FinancialGoal) IsBehindSchedule(asOf time.Time) bool {
	expected := g.MonthlyProgressNeeded(asOf).Mul(decimal.NewFromInt(12))
	threshold := expected.Mul(decimal.NewFromFloat(0.8))
	return g.CurrentAmount.LessThan(threshold)
}

// ProgressStatus returns a status band and display color for the current
// progress percentage.
func (g *FinancialGoal) ProgressStatus() (string, string) {
	percentage := g.ProgressPercentage()
	switch {
	case percentage >= 100:
		return "completed", "#28a745"
	case percentage >= 75:
		return "on_track", "#17a2b8"
	case percentage >= 50:
		return "progress", "#ffc107"
	case percentage >= 25:
		return "starting", "#fd7e14"
	default:
		return "behind", "#dc3545"
	}
}

// ContributionType represents how a goal contribution originated
type ContributionType string

const (
	ContributionTypeManual      ContributionType = "manual"
	ContributionTypeAutomatic   ContributionType = "automatic"
	ContributionTypeTransaction ContributionType = "transaction"
	ContributionTypeTransfer    ContributionType = "transfer"
)

// GoalContribution is a single addition toward a goal's target amount.
// Applying one is additive and monotonic; deleting one never reverses the
// goal's current amount.
type GoalContribution struct {
	Base
	GoalID        string           `gorm:"type:uuid;not null;index" json:"goal_id"`
	Amount        decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"amount"`
	Type          ContributionType `gorm:"not null;default:'manual'" json:"type"`
	AccountID     string           `gorm:"type:uuid;not null" json:"account_id"`
	TransactionID *string          `gorm:"type:uuid" json:"transaction_id,omitempty"`
	Description   string           `json:"description"`
	Date          time.Time        `gorm:"not null" json:"date"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
