package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centime-app/centime-backend/internal/analytics"
	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/service"
)

// AnalyticsHandler handles aggregate and projection HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetCategoryTotals handles GET /analytics/categories
func (h *AnalyticsHandler) GetCategoryTotals(c echo.Context) error {
	filters := &domain.TransactionFilters{}

	if month := c.QueryParam("month"); month != "" {
		filters.Month = &month
	}
	if txType := c.QueryParam("type"); txType != "" {
		t := domain.TransactionType(txType)
		if !t.Valid() {
			return NewValidationError(c, "Invalid type filter", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		}
		filters.Type = &t
	}
	if recurring := c.QueryParam("recurring"); recurring != "" {
		value, err := strconv.ParseBool(recurring)
		if err != nil {
			return NewValidationError(c, "Invalid recurring filter", []ValidationError{
				{Field: "recurring", Message: "Must be true or false"},
			})
		}
		filters.Recurring = &value
	}

	totals, err := h.analyticsService.CategoryTotals(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute category totals")
		return NewInternalError(c, "Failed to compute category totals")
	}

	return c.JSON(http.StatusOK, totals)
}

// GetRecurringSummary handles GET /analytics/recurring
func (h *AnalyticsHandler) GetRecurringSummary(c echo.Context) error {
	summary, err := h.analyticsService.RecurringSummary()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute recurring summary")
		return NewInternalError(c, "Failed to compute recurring summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetProjection handles GET /analytics/projection?year=&month=
func (h *AnalyticsHandler) GetProjection(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 1 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "year", Message: "Must be a valid year"},
		})
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "month", Message: "Must be between 1 and 12"},
		})
	}

	projection, err := h.analyticsService.Projection(year, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute projection")
		return NewInternalError(c, "Failed to compute projection")
	}

	return c.JSON(http.StatusOK, projection)
}

// GetFlowGraph handles GET /analytics/flow?variant=
func (h *AnalyticsHandler) GetFlowGraph(c echo.Context) error {
	variant := analytics.FlowVariant(c.QueryParam("variant"))
	switch variant {
	case "":
		variant = analytics.FlowVariantSimple
	case analytics.FlowVariantSimple, analytics.FlowVariantRecurring:
	default:
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "variant", Message: "Variant must be one of: simple, recurring"},
		})
	}

	graph, err := h.analyticsService.FlowGraph(variant)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build flow graph")
		return NewInternalError(c, "Failed to build flow graph")
	}

	return c.JSON(http.StatusOK, graph)
}
