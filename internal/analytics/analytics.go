// Package analytics computes the derived aggregates behind the dashboard:
// category totals, recurring net flow, forward budget projections and the
// weighted edge lists feeding the Sankey flow views. All functions are pure
// over the transaction snapshot they receive.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/util"
)

// CategoryTotals sums amounts grouped by category over the given subset.
func CategoryTotals(transactions []*domain.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}

// RecurringSummary is the monthly flow implied by recurring transactions.
type RecurringSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// RecurringNet sums recurring transactions partitioned by type.
func RecurringNet(transactions []*domain.Transaction) RecurringSummary {
	var summary RecurringSummary
	for _, tx := range transactions {
		if !tx.Recurring {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			summary.Income = summary.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(tx.Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)
	return summary
}

// MonthsDifference is the signed month count from the current month to the
// target month.
func MonthsDifference(now, target time.Time) int {
	return util.MonthIndex(target.Year(), target.Month()) - util.MonthIndex(now.Year(), now.Month())
}

// Projection is the cumulative net recurring flow through the target month.
// Past months project to zero; the current and future months accumulate one
// net unit per elapsed month, target inclusive.
func Projection(monthlyNet decimal.Decimal, monthsDifference int) decimal.Decimal {
	if monthsDifference < 0 {
		return decimal.Zero
	}
	return monthlyNet.Mul(decimal.NewFromInt(int64(monthsDifference) + 1))
}

// MonthProjection is one entry of the rolling preview.
type MonthProjection struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// ThreeMonthPreview projects the current month and the next two.
func ThreeMonthPreview(monthlyNet decimal.Decimal, now time.Time) []MonthProjection {
	preview := make([]MonthProjection, 0, 3)
	for i := 0; i < 3; i++ {
		month := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		preview = append(preview, MonthProjection{
			Year:       month.Year(),
			Month:      int(month.Month()),
			Cumulative: Projection(monthlyNet, i),
		})
	}
	return preview
}
