package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "mizan/internal/errors"
	"mizan/internal/pagination"
	"mizan/internal/services"
)

// TransferHandler handles account transfer requests.
type TransferHandler struct {
	transferService services.TransferServicer
	auditService    services.AuditServicer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer, auditService services.AuditServicer) *TransferHandler {
	return &TransferHandler{transferService: transferService, auditService: auditService}
}

// CreateTransferRequest represents the request payload for a transfer
type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string `json:"to_account_id" binding:"required,uuid"`
	Amount        string `json:"amount" binding:"required"`
	ExchangeRate  string `json:"exchange_rate"`
	Description   string `json:"description" binding:"max=500"`
	TransferDate  string `json:"transfer_date"`
}

// CreateTransfer handles moving money between two of the user's accounts
// @Summary     Transfer between accounts
// @Description Move money between two accounts with currency conversion. The source is debited by the amount and the destination credited by amount times exchange rate, atomically.
// @Tags        transfers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} models.AccountTransfer "Transfer applied"
// @Failure     400 {object} ErrorResponse "Invalid input or same-account transfer"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
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

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != "" {
		exchangeRate, err = parseAmount("exchange_rate", req.ExchangeRate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		exchangeRate = exchangeRate.Round(8)
	}

	var transferDate time.Time
	if req.TransferDate != "" {
		transferDate, err = parseDate("transfer_date", req.TransferDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	transfer, err := h.transferService.ApplyTransfer(
		userID,
		req.FromAccountID,
		req.ToAccountID,
		amount,
		exchangeRate,
		req.Description,
		transferDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSFER", "transfer", transfer.ID, c.ClientIP(),
		map[string]interface{}{
			"from_account_id": req.FromAccountID,
			"to_account_id":   req.ToAccountID,
			"amount":          req.Amount,
		})

	c.JSON(http.StatusCreated, gin.H{"transfer": transfer})
}

// GetUserTransfers handles the retrieval of transfers for a user
// @Summary     Get user transfers
// @Description Get a paginated list of transfers for the authenticated user
// @Tags        transfers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AccountTransfer] "Paginated transfers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transfers [get]
func (h *TransferHandler) GetUserTransfers(c *gin.Context) {
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

	result, err := h.transferService.GetUserTransfers(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransferByID handles the retrieval of a specific transfer
// @Summary     Get transfer by ID
// @Description Get a specific transfer by ID for the authenticated user
// @Tags        transfers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transfer ID"
// @Success     200 {object} models.AccountTransfer "Transfer details"
// @Failure     400 {object} ErrorResponse "Invalid transfer ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transfer not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transfers/{id} [get]
func (h *TransferHandler) GetTransferByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transferID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transfer, err := h.transferService.GetTransferByID(userID, transferID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transfer": transfer})
}
