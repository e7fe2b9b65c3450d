package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/service"
	"github.com/centime-app/centime-backend/internal/websocket"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	publisher       websocket.EventPublisher
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService, publisher websocket.EventPublisher) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		publisher:       publisher,
	}
}

// SalaryResponse carries the stored monthly salary
type SalaryResponse struct {
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
}

// GetMonthlySalary handles GET /settings/salary
func (h *SettingsHandler) GetMonthlySalary(c echo.Context) error {
	salary, err := h.settingsService.GetMonthlySalary()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get monthly salary")
		return NewInternalError(c, "Failed to get monthly salary")
	}

	return c.JSON(http.StatusOK, SalaryResponse{MonthlySalary: salary})
}

// SetSalaryRequest carries the new monthly salary
type SetSalaryRequest struct {
	MonthlySalary string `json:"monthlySalary"`
}

// SetMonthlySalary handles PUT /settings/salary
func (h *SettingsHandler) SetMonthlySalary(c echo.Context) error {
	var req SetSalaryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "monthlySalary", Message: "Must be a valid decimal number"},
		})
	}

	if err := h.settingsService.SetMonthlySalary(salary); err != nil {
		if errors.Is(err, domain.ErrNegativeAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "monthlySalary", Message: "Must not be negative"},
			})
		}
		log.Error().Err(err).Msg("Failed to set monthly salary")
		return NewInternalError(c, "Failed to set monthly salary")
	}

	h.publisher.Publish(websocket.SettingsUpdated(SalaryResponse{MonthlySalary: salary}))

	return c.JSON(http.StatusOK, SalaryResponse{MonthlySalary: salary})
}
