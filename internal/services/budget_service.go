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

// budgetService handles budget-related business logic
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a user. A custom alert threshold
// requires a custom percentage between 0 and 100 exclusive of 0.
func (s *budgetService) CreateBudget(userID, name, description string, periodStart, periodEnd time.Time, totalBudget decimal.Decimal, alertThreshold models.AlertThreshold, customAlertPercentage *decimal.Decimal) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if !totalBudget.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total budget must be greater than zero")
	}
	if !periodEnd.After(periodStart) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period end must be after period start")
	}
	if alertThreshold == "" {
		alertThreshold = models.AlertThreshold90
	}
	if alertThreshold == models.AlertThresholdCustom {
		if customAlertPercentage == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "custom alert threshold requires a custom percentage")
		}
		if !customAlertPercentage.IsPositive() || customAlertPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "custom percentage must be between 0 and 100")
		}
	} else {
		customAlertPercentage = nil
	}

	budget := &models.Budget{
		UserID:                userID,
		Name:                  name,
		Description:           description,
		PeriodStart:           periodStart,
		PeriodEnd:             periodEnd,
		TotalBudget:           totalBudget,
		Status:                models.BudgetStatusActive,
		AlertThreshold:        alertThreshold,
		CustomAlertPercentage: customAlertPercentage,
	}
	now := time.Now()
	budget.StartedAt = &now

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets retrieves a paginated list of the user's budgets, optionally
// filtered by status.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, status *models.BudgetStatus) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Categories").
		Scopes(pagination.Paginate(page)).
		Order("period_start DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a budget by ID for a specific user
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Categories").Preload("Categories.Category").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's mutable fields.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		if *fields.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
		}
		budget.Name = *fields.Name
	}
	if fields.Description != nil {
		budget.Description = *fields.Description
	}
	if fields.TotalBudget != nil {
		if !fields.TotalBudget.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total budget must be greater than zero")
		}
		budget.TotalBudget = *fields.TotalBudget
	}
	if fields.Status != nil {
		budget.Status = *fields.Status
		if *fields.Status == models.BudgetStatusCompleted && budget.CompletedAt == nil {
			now := time.Now()
			budget.CompletedAt = &now
		}
	}
	if fields.AlertThreshold != nil {
		budget.AlertThreshold = *fields.AlertThreshold
	}
	if fields.CustomAlertPercentage != nil {
		if !fields.CustomAlertPercentage.IsPositive() || fields.CustomAlertPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "custom percentage must be between 0 and 100")
		}
		budget.CustomAlertPercentage = fields.CustomAlertPercentage
	}
	if budget.AlertThreshold == models.AlertThresholdCustom && budget.CustomAlertPercentage == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "custom alert threshold requires a custom percentage")
	}

	if err := s.db.Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget and its allocations.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).
			Delete(&models.BudgetCategory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddBudgetCategory allocates part of the budget to a category. Each category
// may appear at most once per budget.
func (s *budgetService) AddBudgetCategory(userID, budgetID, categoryID string, allocatedAmount decimal.Decimal) (*models.BudgetCategory, error) {
	if !allocatedAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must be greater than zero")
	}

	if _, err := s.GetBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}

	// Category must belong to the same user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.BudgetCategory{}).
		Where("budget_id = ? AND category_id = ?", budgetID, categoryID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudgetCategory
	}

	allocation := &models.BudgetCategory{
		BudgetID:        budgetID,
		CategoryID:      categoryID,
		AllocatedAmount: allocatedAmount,
		SpentAmount:     decimal.Zero,
	}
	if err := s.db.Create(allocation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return allocation, nil
}

// GetBudgetProgress recomputes the budget's spending from completed expense
// transactions inside the budget period, persists the refreshed aggregates,
// and returns the progress view.
//
// Aggregates are refreshed on read rather than on every transaction write so
// the recorder path stays a single balance update plus an insert.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		totalSpent := decimal.Zero
		for i := range budget.Categories {
			allocation := &budget.Categories[i]

			var row struct {
				Total decimal.Decimal
			}
			if err := tx.Model(&models.Transaction{}).
				Select("COALESCE(SUM(amount), 0) AS total").
				Where("user_id = ? AND category_id = ? AND type = ? AND status = ?",
					userID, allocation.CategoryID, models.TransactionTypeExpense, models.TransactionStatusCompleted).
				Where("date >= ? AND date <= ?", budget.PeriodStart, budget.PeriodEnd).
				Scan(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			if !allocation.SpentAmount.Equal(row.Total) {
				if err := tx.Model(&models.BudgetCategory{}).
					Where("id = ?", allocation.ID).
					UpdateColumn("spent_amount", row.Total).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				allocation.SpentAmount = row.Total
			}
			totalSpent = totalSpent.Add(row.Total)
		}

		if !budget.TotalSpent.Equal(totalSpent) {
			if err := tx.Model(&models.Budget{}).
				Where("id = ?", budget.ID).
				UpdateColumn("total_spent", totalSpent).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			budget.TotalSpent = totalSpent
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	progress := &BudgetProgress{
		BudgetID:    budget.ID,
		TotalBudget: budget.TotalBudget,
		TotalSpent:  budget.TotalSpent,
		Remaining:   budget.RemainingAmount(),
		Percentage:  budget.SpendingPercentage(),
		ShouldAlert: budget.ShouldAlert(),
		OverBudget:  budget.IsOverBudget(),
		StatusColor: budget.StatusColor(),
		Allocations: make([]AllocationProgress, 0, len(budget.Categories)),
	}
	for i := range budget.Categories {
		allocation := &budget.Categories[i]
		progress.Allocations = append(progress.Allocations, AllocationProgress{
			CategoryID: allocation.CategoryID,
			Allocated:  allocation.AllocatedAmount,
			Spent:      allocation.SpentAmount,
			Remaining:  allocation.RemainingAmount(),
			Percentage: allocation.SpendingPercentage(),
			OverBudget: allocation.IsOverBudget(),
		})
	}

	return progress, nil
}
