package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mizan/internal/models"
	"mizan/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CurrencyServicer defines the contract for currency reference data.
type CurrencyServicer interface {
	CreateCurrency(code, name, symbol string, exchangeRate decimal.Decimal, isPrimary bool) (*models.Currency, error)
	GetCurrencies(page pagination.PageRequest) (*pagination.PageResponse[models.Currency], error)
	GetCurrencyByID(currencyID string) (*models.Currency, error)
	GetPrimaryCurrency() (*models.Currency, error)
	UpdateExchangeRate(currencyID string, exchangeRate decimal.Decimal) (*models.Currency, error)
	SetPrimary(currencyID string) (*models.Currency, error)
	DeactivateCurrency(currencyID string) error
}

// AccountUpdateFields holds optional fields for updating an account.
// Nil pointers leave the current value unchanged.
type AccountUpdateFields struct {
	Name        *string
	Type        *models.AccountType
	Description *string
	Color       *string
	Icon        *string
	IsActive    *bool
}

// AccountServicer defines the contract for account-related business logic,
// including the ledger's balance-delta contract.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, currencyID string, initialBalance decimal.Decimal, description string) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeactivateAccount(userID, accountID string) error

	// ApplyDelta applies a credit or debit to the account balance as a single
	// atomic SQL update within tx, then refreshes account.CurrentBalance.
	// It must be called exactly once per originating event.
	ApplyDelta(tx *gorm.DB, account *models.Account, amount decimal.Decimal, direction models.BalanceDirection) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	Status     *models.TransactionStatus
	CategoryID *string
	AccountID  *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionServicer defines the contract for recording and querying
// transactions.
type TransactionServicer interface {
	RecordTransaction(userID, accountID string, categoryID *string, transactionType models.TransactionType, amount decimal.Decimal, status models.TransactionStatus, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
}

// TransferServicer defines the contract for the transfer engine.
type TransferServicer interface {
	ApplyTransfer(userID, fromAccountID, toAccountID string, amount, exchangeRate decimal.Decimal, description string, transferDate time.Time) (*models.AccountTransfer, error)
	GetUserTransfers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AccountTransfer], error)
	GetTransferByID(userID, transferID string) (*models.AccountTransfer, error)
}

// CategorySpending holds a category's expense aggregate for one month.
type CategorySpending struct {
	CategoryID  string           `json:"category_id"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Spent       decimal.Decimal  `json:"spent"`
	BudgetLimit *decimal.Decimal `json:"budget_limit,omitempty"`
	OverLimit   bool             `json:"over_limit"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, description, color, icon string, parentID *string, budgetLimit *decimal.Decimal) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name, description, color, icon string, parentID *string, budgetLimit *decimal.Decimal) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	GetMonthlySpending(userID, categoryID string, year int, month time.Month) (*CategorySpending, error)
}

// BudgetUpdateFields holds optional fields for updating a budget.
type BudgetUpdateFields struct {
	Name                  *string
	Description           *string
	TotalBudget           *decimal.Decimal
	Status                *models.BudgetStatus
	AlertThreshold        *models.AlertThreshold
	CustomAlertPercentage *decimal.Decimal
}

// AllocationProgress contains spending vs allocation data for one budget category.
type AllocationProgress struct {
	CategoryID string          `json:"category_id"`
	Allocated  decimal.Decimal `json:"allocated"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	OverBudget bool            `json:"over_budget"`
}

// BudgetProgress contains spending vs budget data for a budget's period.
type BudgetProgress struct {
	BudgetID    string               `json:"budget_id"`
	TotalBudget decimal.Decimal      `json:"total_budget"`
	TotalSpent  decimal.Decimal      `json:"total_spent"`
	Remaining   decimal.Decimal      `json:"remaining"`
	Percentage  float64              `json:"percentage"`
	ShouldAlert bool                 `json:"should_alert"`
	OverBudget  bool                 `json:"over_budget"`
	StatusColor string               `json:"status_color"`
	Allocations []AllocationProgress `json:"allocations"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, name, description string, periodStart, periodEnd time.Time, totalBudget decimal.Decimal, alertThreshold models.AlertThreshold, customAlertPercentage *decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, status *models.BudgetStatus) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	AddBudgetCategory(userID, budgetID, categoryID string, allocatedAmount decimal.Decimal) (*models.BudgetCategory, error)
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// GoalProgress contains derived progress metrics for a goal.
type GoalProgress struct {
	GoalID                string          `json:"goal_id"`
	TargetAmount          decimal.Decimal `json:"target_amount"`
	CurrentAmount         decimal.Decimal `json:"current_amount"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
	Percentage            float64         `json:"percentage"`
	DaysRemaining         int             `json:"days_remaining"`
	MonthlyProgressNeeded decimal.Decimal `json:"monthly_progress_needed"`
	BehindSchedule        bool            `json:"behind_schedule"`
	Status                string          `json:"status"`
	StatusColor           string          `json:"status_color"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID, name, description string, goalType models.GoalType, priority models.GoalPriority, targetAmount decimal.Decimal, startDate, targetDate time.Time, accountID, categoryID *string) (*models.FinancialGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.FinancialGoal], error)
	GetGoalByID(userID, goalID string) (*models.FinancialGoal, error)
	DeleteGoal(userID, goalID string) error
	AddContribution(userID, goalID string, amount decimal.Decimal, contributionType models.ContributionType, accountID string, transactionID *string, description string, date time.Time) (*models.GoalContribution, error)
	GetGoalContributions(userID, goalID string, page pagination.PageRequest) (*pagination.PageResponse[models.GoalContribution], error)
	GetGoalProgress(userID, goalID string) (*GoalProgress, error)
}

// PeriodSummary aggregates income and expenses over a date range.
type PeriodSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// CategoryTotal is a per-category expense total within a date range.
type CategoryTotal struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// AccountBalance is an account balance expressed in the primary currency.
type AccountBalance struct {
	AccountID        string          `json:"account_id"`
	AccountName      string          `json:"account_name"`
	CurrencyCode     string          `json:"currency_code"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"converted_balance"`
}

// NetWorthReport sums account balances converted to the primary currency.
type NetWorthReport struct {
	PrimaryCurrency string           `json:"primary_currency"`
	Accounts        []AccountBalance `json:"accounts"`
	NetWorth        decimal.Decimal  `json:"net_worth"`
}

// ReportServicer defines read-only aggregation over the other entities.
type ReportServicer interface {
	GetPeriodSummary(userID string, from, to time.Time) (*PeriodSummary, error)
	GetCategoryBreakdown(userID string, from, to time.Time) ([]CategoryTotal, error)
	GetNetWorth(userID string) (*NetWorthReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
