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

// goalService handles financial goal business logic
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new financial goal for a user.
func (s *goalService) CreateGoal(userID, name, description string, goalType models.GoalType, priority models.GoalPriority, targetAmount decimal.Decimal, startDate, targetDate time.Time, accountID, categoryID *string) (*models.FinancialGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !targetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}
	if !targetDate.After(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target date must be after start date")
	}
	if goalType == "" {
		goalType = models.GoalTypeSavings
	}
	if priority == "" {
		priority = models.GoalPriorityMedium
	}

	if accountID != nil {
		var count int64
		if err := s.db.Model(&models.Account{}).
			Where("id = ? AND user_id = ?", *accountID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrAccountNotFound
		}
	}
	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *categoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	goal := &models.FinancialGoal{
		UserID:        userID,
		Name:          name,
		Description:   description,
		Type:          goalType,
		Priority:      priority,
		TargetAmount:  targetAmount,
		CurrentAmount: decimal.Zero,
		StartDate:     startDate,
		TargetDate:    targetDate,
		Status:        models.GoalStatusActive,
		AccountID:     accountID,
		CategoryID:    categoryID,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals retrieves a paginated list of the user's goals, optionally
// filtered by status.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.FinancialGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.FinancialGoal{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.FinancialGoal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("target_date ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user
func (s *goalService) GetGoalByID(userID, goalID string) (*models.FinancialGoal, error) {
	var goal models.FinancialGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// DeleteGoal soft-deletes a goal. Its contribution rows remain.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddContribution records a contribution toward the goal and adds its amount
// to the goal's current amount. Contributions are additive and monotonic;
// the goal amount is incremented with a single atomic SQL update so that
// concurrent contributions never lose each other's additions.
func (s *goalService) AddContribution(userID, goalID string, amount decimal.Decimal, contributionType models.ContributionType, accountID string, transactionID *string, description string, date time.Time) (*models.GoalContribution, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}
	if contributionType == "" {
		contributionType = models.ContributionTypeManual
	}
	if date.IsZero() {
		date = time.Now()
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrAccountNotFound
	}

	if transactionID != nil {
		if err := s.db.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", *transactionID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrTransactionNotFound
		}
	}

	contribution := &models.GoalContribution{
		GoalID:        goal.ID,
		Amount:        amount,
		Type:          contributionType,
		AccountID:     accountID,
		TransactionID: transactionID,
		Description:   description,
		Date:          date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.FinancialGoal{}).
			Where("id = ?", goal.ID).
			UpdateColumn("current_amount", gorm.Expr("current_amount + ?", amount)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return contribution, nil
}

// GetGoalContributions retrieves a paginated list of a goal's contributions.
func (s *goalService) GetGoalContributions(userID, goalID string, page pagination.PageRequest) (*pagination.PageResponse[models.GoalContribution], error) {
	if _, err := s.GetGoalByID(userID, goalID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.GoalContribution{}).Where("goal_id = ?", goalID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var contributions []models.GoalContribution
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(contributions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalProgress computes the goal's derived progress metrics as of now.
func (s *goalService) GetGoalProgress(userID, goalID string) (*GoalProgress, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status, color := goal.ProgressStatus()

	return &GoalProgress{
		GoalID:                goal.ID,
		TargetAmount:          goal.TargetAmount,
		CurrentAmount:         goal.CurrentAmount,
		RemainingAmount:       goal.RemainingAmount(),
		Percentage:            goal.ProgressPercentage(),
		DaysRemaining:         goal.DaysRemaining(now),
		MonthlyProgressNeeded: goal.MonthlyProgressNeeded(now),
		BehindSchedule:        goal.IsBehindSchedule(now),
		Status:                status,
		StatusColor:           color,
	}, nil
}
