package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
	"mizan/internal/pagination"
	"mizan/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget
type CreateBudgetRequest struct {
	Name                  string `json:"name" binding:"required,min=1,max=100"`
	Description           string `json:"description" binding:"max=500"`
	PeriodStart           string `json:"period_start" binding:"required"`
	PeriodEnd             string `json:"period_end" binding:"required"`
	TotalBudget           string `json:"total_budget" binding:"required"`
	AlertThreshold        string `json:"alert_threshold" binding:"omitempty,alert_threshold"`
	CustomAlertPercentage string `json:"custom_alert_percentage"`
}

// UpdateBudgetRequest represents the request payload for updating a budget
type UpdateBudgetRequest struct {
	Name                  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description           *string `json:"description" binding:"omitempty,max=500"`
	TotalBudget           *string `json:"total_budget"`
	Status                *string `json:"status" binding:"omitempty,budget_status"`
	AlertThreshold        *string `json:"alert_threshold" binding:"omitempty,alert_threshold"`
	CustomAlertPercentage *string `json:"custom_alert_percentage"`
}

// AddBudgetCategoryRequest represents the request payload for a budget allocation
type AddBudgetCategoryRequest struct {
	CategoryID      string `json:"category_id" binding:"required,uuid"`
	AllocatedAmount string `json:"allocated_amount" binding:"required"`
}

// CreateBudget handles the creation of a new budget
// @Summary     Create a budget
// @Description Create a new budget over a date range for the authenticated user
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	periodStart, err := parseDate("period_start", req.PeriodStart)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodEnd, err := parseDate("period_end", req.PeriodEnd)
	if err != nil {
		respondWithError(c, err)
		return
	}
	totalBudget, err := parseAmount("total_budget", req.TotalBudget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var customAlertPercentage *decimal.Decimal
	if req.CustomAlertPercentage != "" {
		percentage, err := parseAmount("custom_alert_percentage", req.CustomAlertPercentage)
		if err != nil {
			respondWithError(c, err)
			return
		}
		customAlertPercentage = &percentage
	}

	budget, err := h.budgetService.CreateBudget(
		userID,
		req.Name,
		req.Description,
		periodStart,
		periodEnd,
		totalBudget.Round(2),
		models.AlertThreshold(req.AlertThreshold),
		customAlertPercentage,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "total_budget": req.TotalBudget})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetUserBudgets handles the retrieval of budgets for a user
// @Summary     Get user budgets
// @Description Get a paginated list of budgets for the authenticated user, optionally filtered by status
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Budget status"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetUserBudgets(c *gin.Context) {
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

	var status *models.BudgetStatus
	if statusStr := c.Query("status"); statusStr != "" {
		budgetStatus := models.BudgetStatus(statusStr)
		status = &budgetStatus
	}

	result, err := h.budgetService.GetUserBudgets(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetByID handles the retrieval of a specific budget
// @Summary     Get budget by ID
// @Description Get a specific budget with its allocations for the authenticated user
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating a budget
// @Summary     Update budget
// @Description Update an existing budget for the authenticated user
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.BudgetUpdateFields{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.TotalBudget != nil {
		totalBudget, err := parseAmount("total_budget", *req.TotalBudget)
		if err != nil {
			respondWithError(c, err)
			return
		}
		totalBudget = totalBudget.Round(2)
		fields.TotalBudget = &totalBudget
	}
	if req.Status != nil {
		status := models.BudgetStatus(*req.Status)
		fields.Status = &status
	}
	if req.AlertThreshold != nil {
		threshold := models.AlertThreshold(*req.AlertThreshold)
		fields.AlertThreshold = &threshold
	}
	if req.CustomAlertPercentage != nil {
		percentage, err := parseAmount("custom_alert_percentage", *req.CustomAlertPercentage)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.CustomAlertPercentage = &percentage
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget
// @Summary     Delete budget
// @Description Delete a budget and its allocations
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "budget deleted"})
}

// AddBudgetCategory handles adding a category allocation to a budget
// @Summary     Add budget allocation
// @Description Allocate part of a budget to a category. Each category may appear at most once per budget.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Budget ID"
// @Param       request body AddBudgetCategoryRequest true "Allocation details"
// @Success     201 {object} models.BudgetCategory "Allocation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Failure     409 {object} ErrorResponse "Category already allocated"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/categories [post]
func (h *BudgetHandler) AddBudgetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddBudgetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocatedAmount, err := parseAmount("allocated_amount", req.AllocatedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocation, err := h.budgetService.AddBudgetCategory(userID, budgetID, req.CategoryID, allocatedAmount.Round(2))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_BUDGET_CATEGORY", "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "allocated_amount": req.AllocatedAmount})

	c.JSON(http.StatusCreated, gin.H{"allocation": allocation})
}

// GetBudgetProgress handles the retrieval of a budget's spending progress
// @Summary     Get budget progress
// @Description Refresh and return a budget's spending progress, including per-category allocations and alert state
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetProgress "Budget progress"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetBudgetProgress(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
