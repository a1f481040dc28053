package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mizan/internal/errors"
	"mizan/internal/pagination"
	"mizan/internal/services"
)

// CurrencyHandler handles currency reference data requests.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
	auditService    services.AuditServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer, auditService services.AuditServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService, auditService: auditService}
}

// CreateCurrencyRequest represents the request payload for creating a currency.
type CreateCurrencyRequest struct {
	Code         string `json:"code" binding:"required,iso4217"`
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Symbol       string `json:"symbol" binding:"required,min=1,max=10"`
	ExchangeRate string `json:"exchange_rate" binding:"required"`
	IsPrimary    bool   `json:"is_primary"`
}

// UpdateExchangeRateRequest represents the request payload for updating a rate.
type UpdateExchangeRateRequest struct {
	ExchangeRate string `json:"exchange_rate" binding:"required"`
}

// CreateCurrency handles the creation of a new currency.
// @Summary     Create a currency
// @Description Register a currency with its exchange rate against the primary currency
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCurrencyRequest true "Currency details"
// @Success     201 {object} models.Currency "Currency created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Currency already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rate, err := parseAmount("exchange_rate", req.ExchangeRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.currencyService.CreateCurrency(req.Code, req.Name, req.Symbol, rate, req.IsPrimary)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CURRENCY", "currency", currency.ID, c.ClientIP(),
		map[string]interface{}{"code": req.Code, "is_primary": req.IsPrimary})

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

// GetCurrencies handles the retrieval of all currencies.
// @Summary     List currencies
// @Description Get a paginated list of registered currencies
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Currency] "Paginated currencies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) GetCurrencies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.currencyService.GetCurrencies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrencyByID handles the retrieval of a specific currency.
// @Summary     Get currency by ID
// @Description Get a specific currency by ID
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID"
// @Success     200 {object} models.Currency "Currency details"
// @Failure     400 {object} ErrorResponse "Invalid currency ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{id} [get]
func (h *CurrencyHandler) GetCurrencyByID(c *gin.Context) {
	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.currencyService.GetCurrencyByID(currencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// UpdateExchangeRate handles updating a currency's exchange rate.
// @Summary     Update exchange rate
// @Description Update a currency's exchange rate against the primary currency
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID"
// @Param       request body UpdateExchangeRateRequest true "New exchange rate"
// @Success     200 {object} models.Currency "Updated currency"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{id}/rate [put]
func (h *CurrencyHandler) UpdateExchangeRate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rate, err := parseAmount("exchange_rate", req.ExchangeRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.currencyService.UpdateExchangeRate(currencyID, rate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXCHANGE_RATE", "currency", currencyID, c.ClientIP(),
		map[string]interface{}{"exchange_rate": req.ExchangeRate})

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// SetPrimary handles promoting a currency to the primary currency.
// @Summary     Set primary currency
// @Description Promote a currency to primary, demoting the previous one
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID"
// @Success     200 {object} models.Currency "Updated currency"
// @Failure     400 {object} ErrorResponse "Invalid currency ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{id}/primary [put]
func (h *CurrencyHandler) SetPrimary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.currencyService.SetPrimary(currencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_PRIMARY_CURRENCY", "currency", currencyID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// DeactivateCurrency handles deactivating a currency.
// @Summary     Deactivate currency
// @Description Deactivate a currency so it can no longer be used for new accounts
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID"
// @Success     200 {object} map[string]string "Currency deactivated"
// @Failure     400 {object} ErrorResponse "Invalid currency ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     409 {object} ErrorResponse "Currency in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{id} [delete]
func (h *CurrencyHandler) DeactivateCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.currencyService.DeactivateCurrency(currencyID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_CURRENCY", "currency", currencyID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "currency deactivated"})
}
