package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
	"mizan/internal/pagination"
	"mizan/internal/services"
)

// GoalHandler handles financial goal requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	Description  string  `json:"description" binding:"max=500"`
	Type         string  `json:"type" binding:"omitempty,goal_type"`
	Priority     string  `json:"priority" binding:"omitempty,goal_priority"`
	TargetAmount string  `json:"target_amount" binding:"required"`
	StartDate    string  `json:"start_date"`
	TargetDate   string  `json:"target_date" binding:"required"`
	AccountID    *string `json:"account_id" binding:"omitempty,uuid"`
	CategoryID   *string `json:"category_id" binding:"omitempty,uuid"`
}

// AddContributionRequest represents the request payload for a goal contribution
type AddContributionRequest struct {
	Amount        string  `json:"amount" binding:"required"`
	Type          string  `json:"type" binding:"omitempty,contribution_type"`
	AccountID     string  `json:"account_id" binding:"required,uuid"`
	TransactionID *string `json:"transaction_id" binding:"omitempty,uuid"`
	Description   string  `json:"description" binding:"max=500"`
	Date          string  `json:"date"`
}

// CreateGoal handles the creation of a new financial goal
// @Summary     Create a goal
// @Description Create a new financial goal for the authenticated user
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.FinancialGoal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetAmount, err := parseAmount("target_amount", req.TargetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		startDate, err = parseDate("start_date", req.StartDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}
	targetDate, err := parseDate("target_date", req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(
		userID,
		req.Name,
		req.Description,
		models.GoalType(req.Type),
		models.GoalPriority(req.Priority),
		targetAmount.Round(2),
		startDate,
		targetDate,
		req.AccountID,
		req.CategoryID,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "target_amount": req.TargetAmount})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetUserGoals handles the retrieval of goals for a user
// @Summary     Get user goals
// @Description Get a paginated list of goals for the authenticated user, optionally filtered by status
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Goal status"
// @Success     200 {object} pagination.PageResponse[models.FinancialGoal] "Paginated goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.GoalStatus
	if statusStr := c.Query("status"); statusStr != "" {
		goalStatus := models.GoalStatus(statusStr)
		status = &goalStatus
	}

	result, err := h.goalService.GetUserGoals(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoalByID handles the retrieval of a specific goal
// @Summary     Get goal by ID
// @Description Get a specific goal by ID for the authenticated user
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.FinancialGoal "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoalByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deleting a goal
// @Summary     Delete goal
// @Description Delete a goal. Its contribution history is retained.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "goal deleted"})
}

// AddContribution handles recording a contribution toward a goal
// @Summary     Add goal contribution
// @Description Record a contribution toward a goal. Contributions are additive and immediately increase the goal's current amount.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Goal ID"
// @Param       request body AddContributionRequest true "Contribution details"
// @Success     201 {object} models.GoalContribution "Contribution recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/contributions [post]
func (h *GoalHandler) AddContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseDate("date", req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	contribution, err := h.goalService.AddContribution(
		userID,
		goalID,
		amount.Round(2),
		models.ContributionType(req.Type),
		req.AccountID,
		req.TransactionID,
		req.Description,
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_GOAL_CONTRIBUTION", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "account_id": req.AccountID})

	c.JSON(http.StatusCreated, gin.H{"contribution": contribution})
}

// GetGoalContributions handles the retrieval of a goal's contributions
// @Summary     Get goal contributions
// @Description Get a paginated list of a goal's contributions
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Goal ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.GoalContribution] "Paginated contributions"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/contributions [get]
func (h *GoalHandler) GetGoalContributions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.goalService.GetGoalContributions(userID, goalID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoalProgress handles the retrieval of a goal's progress metrics
// @Summary     Get goal progress
// @Description Get a goal's derived progress metrics, including required monthly pace and schedule state
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} services.GoalProgress "Goal progress"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/progress [get]
func (h *GoalHandler) GetGoalProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.goalService.GetGoalProgress(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
