package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/service"
	"github.com/centime-app/centime-backend/internal/websocket"
)

// ImportHandler handles CSV import HTTP requests
type ImportHandler struct {
	importService *service.ImportService
	publisher     websocket.EventPublisher
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *service.ImportService, publisher websocket.EventPublisher) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		publisher:     publisher,
	}
}

// ImportRequest carries the raw file content and optional mapping overrides.
// A mapping value of -1 unassigns the field.
type ImportRequest struct {
	Content string         `json:"content"`
	Mapping map[string]int `json:"mapping,omitempty"`
}

// PreviewImport handles POST /import/preview
func (h *ImportHandler) PreviewImport(c echo.Context) error {
	var req ImportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	preview, err := h.importService.PreviewImport(req.Content, req.Mapping)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCSV) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "File is empty or has no data rows"},
			})
		}
		log.Error().Err(err).Msg("Failed to preview import")
		return NewInternalError(c, "Failed to preview import")
	}

	return c.JSON(http.StatusOK, preview)
}

// Import handles POST /import
func (h *ImportHandler) Import(c echo.Context) error {
	var req ImportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.importService.Import(req.Content, req.Mapping)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCSV):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "File is empty or has no data rows"},
			})
		case errors.Is(err, domain.ErrIncompleteMapping):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "mapping", Message: "Description, amount and date columns must be assigned"},
			})
		}
		log.Error().Err(err).Msg("Failed to import file")
		return NewInternalError(c, "Failed to import file")
	}

	log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("File imported")
	h.publisher.Publish(websocket.TransactionsImported(map[string]int{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	}))

	return c.JSON(http.StatusCreated, result)
}
