package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/receipt"
)

// ReceiptService interprets OCR text from photographed receipts
type ReceiptService struct {
	now func() time.Time
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService() *ReceiptService {
	return &ReceiptService{now: time.Now}
}

// Parse runs the full heuristic extraction over raw OCR text
func (s *ReceiptService) Parse(text string) *receipt.Parsed {
	return receipt.ParseAt(text, s.now())
}

// ExtractedLine is the re-extraction of a single user-selected line, for the
// manual assist flow where the user tags which line holds which field.
type ExtractedLine struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// ExtractLine re-applies the amount and date heuristics to one line
func (s *ReceiptService) ExtractLine(line string) ExtractedLine {
	return ExtractedLine{
		Amount: receipt.ExtractAmount(line),
		Date:   receipt.ExtractDate(line, s.now()),
	}
}
