package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mizan/internal/services"
)

// ReportHandler handles reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseReportRange reads the from/to query parameters, defaulting to the
// current calendar month.
func parseReportRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := parseDate("from", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := parseDate("to", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

// GetPeriodSummary handles the income/expense summary report
// @Summary     Get period summary
// @Description Total completed income and expenses over a date range, netted
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Start date (default start of current month)"
// @Param       to   query string false "End date (default end of current month)"
// @Success     200 {object} services.PeriodSummary "Period summary"
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetPeriodSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseReportRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GetPeriodSummary(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetCategoryBreakdown handles the per-category expense report
// @Summary     Get category breakdown
// @Description Completed expense totals per category over a date range, largest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Start date (default start of current month)"
// @Param       to   query string false "End date (default end of current month)"
// @Success     200 {object} []services.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/by-category [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseReportRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.reportService.GetCategoryBreakdown(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// GetNetWorth handles the net worth report
// @Summary     Get net worth
// @Description Sum of active account balances converted into the primary currency
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NetWorthReport "Net worth"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No primary currency configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/net-worth [get]
func (h *ReportHandler) GetNetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetNetWorth(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"net_worth": report})
}
