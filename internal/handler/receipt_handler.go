package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/centime-app/centime-backend/internal/service"
)

// ReceiptHandler handles receipt OCR text interpretation requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ParseReceiptRequest carries the raw OCR text of a photographed receipt
type ParseReceiptRequest struct {
	Text string `json:"text"`
}

// ParseReceipt handles POST /receipts/parse
func (h *ReceiptHandler) ParseReceipt(c echo.Context) error {
	var req ParseReceiptRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "text", Message: "Text is required"},
		})
	}

	return c.JSON(http.StatusOK, h.receiptService.Parse(req.Text))
}

// ExtractLineRequest carries one user-selected line for re-extraction
type ExtractLineRequest struct {
	Line string `json:"line"`
}

// ExtractLine handles POST /receipts/extract-line, the manual assist flow
// where the user tags which line holds the amount or the date.
func (h *ReceiptHandler) ExtractLine(c echo.Context) error {
	var req ExtractLineRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	return c.JSON(http.StatusOK, h.receiptService.ExtractLine(req.Line))
}
