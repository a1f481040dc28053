package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
)

// reportService produces read-only aggregations over transactions and accounts.
type reportService struct {
	db              *gorm.DB
	currencyService CurrencyServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, currencyService CurrencyServicer) ReportServicer {
	return &reportService{
		db:              db,
		currencyService: currencyService,
	}
}

// GetPeriodSummary totals the user's completed income and expense
// transactions within [from, to] and nets them.
func (s *reportService) GetPeriodSummary(userID string, from, to time.Time) (*PeriodSummary, error) {
	if !to.After(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report end must be after report start")
	}

	type totalRow struct {
		Type  models.TransactionType
		Total decimal.Decimal
	}
	var rows []totalRow
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND status = ?", userID, models.TransactionStatusCompleted).
		Where("type IN ?", []models.TransactionType{models.TransactionTypeIncome, models.TransactionTypeExpense}).
		Where("date >= ? AND date <= ?", from, to).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &PeriodSummary{
		From:         from,
		To:           to,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = row.Total
		case models.TransactionTypeExpense:
			summary.TotalExpense = row.Total
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)

	return summary, nil
}

// GetCategoryBreakdown totals the user's completed expense transactions per
// category within [from, to], largest first. Uncategorized expenses are
// grouped under an empty category ID.
func (s *reportService) GetCategoryBreakdown(userID string, from, to time.Time) ([]CategoryTotal, error) {
	if !to.After(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report end must be after report start")
	}

	var rows []CategoryTotal
	if err := s.db.Model(&models.Transaction{}).
		// category_id is uuid on postgres, so it must be cast before
		// coalescing with the empty-string bucket for uncategorized rows.
		Select("COALESCE(CAST(transactions.category_id AS TEXT), '') AS category_id, COALESCE(categories.name, 'Uncategorized') AS category_name, COALESCE(SUM(transactions.amount), 0) AS total").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.status = ?",
			userID, models.TransactionTypeExpense, models.TransactionStatusCompleted).
		Where("transactions.date >= ? AND transactions.date <= ?", from, to).
		Group("transactions.category_id, categories.name").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if rows == nil {
		rows = []CategoryTotal{}
	}
	return rows, nil
}

// GetNetWorth sums the user's active account balances converted into the
// primary currency. Each currency's exchange rate expresses the value of one
// unit in the primary currency, so the primary itself carries a rate of 1.
func (s *reportService) GetNetWorth(userID string) (*NetWorthReport, error) {
	primary, err := s.currencyService.GetPrimaryCurrency()
	if err != nil {
		return nil, err
	}

	var accounts []models.Account
	if err := s.db.Preload("Currency").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &NetWorthReport{
		PrimaryCurrency: primary.Code,
		Accounts:        make([]AccountBalance, 0, len(accounts)),
		NetWorth:        decimal.Zero,
	}
	for i := range accounts {
		account := &accounts[i]

		rate := account.Currency.ExchangeRate
		if account.Currency.IsPrimary {
			rate = decimal.NewFromInt(1)
		}
		converted := account.CurrentBalance.Mul(rate).Round(2)

		report.Accounts = append(report.Accounts, AccountBalance{
			AccountID:        account.ID,
			AccountName:      account.Name,
			CurrencyCode:     account.Currency.Code,
			Balance:          account.CurrentBalance,
			ConvertedBalance: converted,
		})
		report.NetWorth = report.NetWorth.Add(converted)
	}

	return report, nil
}
