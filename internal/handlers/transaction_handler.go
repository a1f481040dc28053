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

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// RecordTransactionRequest represents the request payload for recording a transaction
type RecordTransactionRequest struct {
	AccountID   string  `json:"account_id" binding:"required,uuid"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Type        string  `json:"type" binding:"required,transaction_type"`
	Amount      string  `json:"amount" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,transaction_status"`
	Description string  `json:"description" binding:"max=500"`
	Date        string  `json:"date"`
}

// transactionListQuery holds the optional filter query parameters for listing
// transactions alongside pagination.
type transactionListQuery struct {
	pagination.PageRequest
	From       string `form:"from"`
	To         string `form:"to"`
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	Status     string `form:"status" binding:"omitempty,transaction_status"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	MinAmount  string `form:"min_amount"`
	MaxAmount  string `form:"max_amount"`
}

func (q *transactionListQuery) filter() (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if q.From != "" {
		from, err := parseDate("from", q.From)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if q.To != "" {
		to, err := parseDate("to", q.To)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}
	if q.Type != "" {
		transactionType := models.TransactionType(q.Type)
		filter.Type = &transactionType
	}
	if q.Status != "" {
		status := models.TransactionStatus(q.Status)
		filter.Status = &status
	}
	if q.CategoryID != "" {
		filter.CategoryID = &q.CategoryID
	}
	if q.AccountID != "" {
		filter.AccountID = &q.AccountID
	}
	if q.MinAmount != "" {
		min, err := parseAmount("min_amount", q.MinAmount)
		if err != nil {
			return filter, err
		}
		filter.MinAmount = &min
	}
	if q.MaxAmount != "" {
		max, err := parseAmount("max_amount", q.MaxAmount)
		if err != nil {
			return filter, err
		}
		filter.MaxAmount = &max
	}
	return filter, nil
}

// RecordTransaction handles recording a new transaction
// @Summary     Record a transaction
// @Description Record a financial transaction against one of the user's accounts. Completed transactions move the account balance atomically.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	amount = amount.Round(2)

	var date time.Time
	if req.Date != "" {
		date, err = parseDate("date", req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	transaction, err := h.transactionService.RecordTransaction(
		userID,
		req.AccountID,
		req.CategoryID,
		models.TransactionType(req.Type),
		amount,
		models.TransactionStatus(req.Status),
		req.Description,
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "account_id": req.AccountID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of transactions for a user
// @Summary     Get user transactions
// @Description Get a paginated, filterable list of transactions for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       from        query string false "Start date (inclusive)"
// @Param       to          query string false "End date (inclusive)"
// @Param       type        query string false "Transaction type"
// @Param       status      query string false "Transaction status"
// @Param       category_id query string false "Category ID"
// @Param       account_id  query string false "Account ID"
// @Param       min_amount  query string false "Minimum amount"
// @Param       max_amount  query string false "Maximum amount"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountTransactions handles the retrieval of an account's transactions
// @Summary     Get account transactions
// @Description Get a paginated, filterable list of one account's transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Account ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetAccountTransactions(userID, accountID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}
