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

// maxCategoryDepth bounds the ancestor walk so a corrupted tree cannot loop forever.
const maxCategoryDepth = 32

// categoryService handles category-related business logic
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category for a user. The name must be unique
// among the user's categories of the same type, and the parent, when given,
// must belong to the same user.
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType, description, color, icon string, parentID *string, budgetLimit *decimal.Decimal) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if budgetLimit != nil && !budgetLimit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit must be greater than zero")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategoryName
	}

	if parentID != nil {
		parent, err := s.GetCategoryByID(userID, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != categoryType {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "parent category must have the same type")
		}
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Type:        categoryType,
		ParentID:    parentID,
		Description: description,
		BudgetLimit: budgetLimit,
	}
	if color != "" {
		category.Color = color
	}
	if icon != "" {
		category.Icon = icon
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of the user's categories.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	return s.listCategories(page, s.db.Model(&models.Category{}).Where("user_id = ?", userID))
}

// GetUserCategoriesByType retrieves the user's categories of one type.
func (s *categoryService) GetUserCategoriesByType(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	return s.listCategories(page, s.db.Model(&models.Category{}).Where("user_id = ? AND type = ?", userID, categoryType))
}

func (s *categoryService) listCategories(page pagination.PageRequest, base *gorm.DB) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's mutable fields. Re-parenting is
// validated against the tree: the new parent must belong to the user, share
// the category's type, and must not be the category itself or any of its
// descendants.
func (s *categoryService) UpdateCategory(userID, categoryID string, name, description, color, icon string, parentID *string, budgetLimit *decimal.Decimal) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if name != "" && name != category.Name {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND type = ? AND id != ?", userID, name, category.Type, categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategoryName
		}
		category.Name = name
	}

	if parentID != nil {
		if *parentID == categoryID {
			return nil, apperrors.ErrCategoryCycle
		}
		parent, err := s.GetCategoryByID(userID, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != category.Type {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "parent category must have the same type")
		}
		if err := s.checkCycle(userID, categoryID, *parentID); err != nil {
			return nil, err
		}
		category.ParentID = parentID
	}

	if description != "" {
		category.Description = description
	}
	if color != "" {
		category.Color = color
	}
	if icon != "" {
		category.Icon = icon
	}
	if budgetLimit != nil {
		if !budgetLimit.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit must be greater than zero")
		}
		category.BudgetLimit = budgetLimit
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// checkCycle walks up from newParentID and fails if categoryID appears in the
// ancestor chain.
func (s *categoryService) checkCycle(userID, categoryID, newParentID string) error {
	current := newParentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		var parent models.Category
		if err := s.db.Select("id", "parent_id").
			Where("id = ? AND user_id = ?", current, userID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if parent.ID == categoryID {
			return apperrors.ErrCategoryCycle
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return apperrors.ErrCategoryCycle
}

// DeleteCategory soft-deletes a category. Categories with children or with
// recorded transactions cannot be deleted.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_id = ?", categoryID).
		Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if childCount > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category has recorded transactions")
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// GetMonthlySpending sums the user's completed expense transactions for the
// category within the given calendar month and compares the total against
// the category's optional monthly limit.
func (s *categoryService) GetMonthlySpending(userID, categoryID string, year int, month time.Month) (*CategorySpending, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var row struct {
		Total decimal.Decimal
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category_id = ? AND type = ? AND status = ?",
			userID, categoryID, models.TransactionTypeExpense, models.TransactionStatusCompleted).
		Where("date >= ? AND date < ?", monthStart, monthEnd).
		Scan(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spending := &CategorySpending{
		CategoryID:  categoryID,
		Year:        year,
		Month:       int(month),
		Spent:       row.Total,
		BudgetLimit: category.BudgetLimit,
	}
	if category.BudgetLimit != nil {
		spending.OverLimit = row.Total.GreaterThan(*category.BudgetLimit)
	}

	return spending, nil
}
