package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/analytics"
	"github.com/centime-app/centime-backend/internal/domain"
)

// AnalyticsService computes the aggregates behind the dashboard and the
// budget projection pages
type AnalyticsService struct {
	transactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(transactionRepo domain.TransactionRepository) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// CategoryTotals sums amounts per category over the filtered subset
func (s *AnalyticsService) CategoryTotals(filters *domain.TransactionFilters) (map[string]decimal.Decimal, error) {
	transactions, err := s.transactionRepo.List(filters)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryTotals(transactions), nil
}

// RecurringSummary sums recurring income and expense into a net monthly flow
func (s *AnalyticsService) RecurringSummary() (analytics.RecurringSummary, error) {
	transactions, err := s.transactionRepo.List(nil)
	if err != nil {
		return analytics.RecurringSummary{}, err
	}
	return analytics.RecurringNet(transactions), nil
}

// ProjectionResult is the forward projection for one selected month plus the
// rolling three month preview.
type ProjectionResult struct {
	Summary          analytics.RecurringSummary  `json:"summary"`
	MonthsDifference int                         `json:"monthsDifference"`
	Cumulative       decimal.Decimal             `json:"cumulative"`
	Preview          []analytics.MonthProjection `json:"preview"`
}

// Projection computes the cumulative net recurring flow through the target
// month. Past months project to zero.
func (s *AnalyticsService) Projection(targetYear, targetMonth int) (*ProjectionResult, error) {
	transactions, err := s.transactionRepo.List(nil)
	if err != nil {
		return nil, err
	}
	summary := analytics.RecurringNet(transactions)

	now := s.now()
	target := time.Date(targetYear, time.Month(targetMonth), 1, 0, 0, 0, 0, time.UTC)
	diff := analytics.MonthsDifference(now, target)

	return &ProjectionResult{
		Summary:          summary,
		MonthsDifference: diff,
		Cumulative:       analytics.Projection(summary.Net, diff),
		Preview:          analytics.ThreeMonthPreview(summary.Net, now),
	}, nil
}

// FlowGraph builds the weighted edge list for the requested Sankey variant
func (s *AnalyticsService) FlowGraph(variant analytics.FlowVariant) (*analytics.FlowGraph, error) {
	transactions, err := s.transactionRepo.List(nil)
	if err != nil {
		return nil, err
	}
	return analytics.BuildFlowGraph(transactions, variant), nil
}
