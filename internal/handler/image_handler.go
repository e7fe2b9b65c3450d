package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centime-app/centime-backend/internal/service"
)

// ImageHandler handles receipt image storage HTTP requests
type ImageHandler struct {
	imageService       *service.ImageService
	transactionService *service.TransactionService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *service.ImageService, transactionService *service.TransactionService) *ImageHandler {
	return &ImageHandler{
		imageService:       imageService,
		transactionService: transactionService,
	}
}

// UploadImageRequest carries the image as a base64 data URI
type UploadImageRequest struct {
	Data string `json:"data"`
}

// UploadImage handles POST /images
func (h *ImageHandler) UploadImage(c echo.Context) error {
	var req UploadImageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	imageID, err := h.imageService.Store(c.Request().Context(), req.Data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageStorageNotConfigured):
			return NewUnavailableError(c, "Image storage is not configured")
		case errors.Is(err, service.ErrImageTooLarge):
			return NewTooLargeError(c, err.Error())
		case errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "data", Message: "Must be a base64 encoded image"},
			})
		}
		log.Error().Err(err).Msg("Failed to store image")
		return NewInternalError(c, "Failed to store image")
	}

	log.Info().Str("image_id", imageID).Msg("Receipt image stored")

	return c.JSON(http.StatusCreated, map[string]string{"id": imageID})
}

// GetImage handles GET /images/:id
func (h *ImageHandler) GetImage(c echo.Context) error {
	imageID := c.Param("id")

	data, err := h.imageService.Retrieve(c.Request().Context(), imageID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageStorageNotConfigured):
			return NewUnavailableError(c, "Image storage is not configured")
		case errors.Is(err, service.ErrImageNotFound):
			return NewNotFoundError(c, "Image not found")
		}
		log.Error().Err(err).Str("image_id", imageID).Msg("Failed to retrieve image")
		return NewInternalError(c, "Failed to retrieve image")
	}

	return c.JSON(http.StatusOK, map[string]string{"data": data})
}

// DeleteImage handles DELETE /images/:id
func (h *ImageHandler) DeleteImage(c echo.Context) error {
	imageID := c.Param("id")

	if err := h.imageService.Delete(c.Request().Context(), imageID); err != nil {
		if errors.Is(err, service.ErrImageStorageNotConfigured) {
			return NewUnavailableError(c, "Image storage is not configured")
		}
		log.Error().Err(err).Str("image_id", imageID).Msg("Failed to delete image")
		return NewInternalError(c, "Failed to delete image")
	}

	return c.NoContent(http.StatusNoContent)
}

// CleanupImages handles POST /images/cleanup, removing stored images no
// transaction references anymore.
func (h *ImageHandler) CleanupImages(c echo.Context) error {
	transactions, err := h.transactionService.GetTransactions(nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions for image cleanup")
		return NewInternalError(c, "Failed to clean up images")
	}

	var activeIDs []string
	for _, tx := range transactions {
		if tx.ReceiptImage != nil && *tx.ReceiptImage != "" {
			activeIDs = append(activeIDs, *tx.ReceiptImage)
		}
	}

	removed, err := h.imageService.CleanupOrphans(c.Request().Context(), activeIDs)
	if err != nil {
		if errors.Is(err, service.ErrImageStorageNotConfigured) {
			return NewUnavailableError(c, "Image storage is not configured")
		}
		log.Error().Err(err).Msg("Failed to clean up images")
		return NewInternalError(c, "Failed to clean up images")
	}

	log.Info().Int("removed", removed).Msg("Orphan receipt images removed")

	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}
