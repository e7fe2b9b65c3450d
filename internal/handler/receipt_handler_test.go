package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/centime-app/centime-backend/internal/receipt"
	"github.com/centime-app/centime-backend/internal/service"
)

func TestParseReceipt(t *testing.T) {
	e := echo.New()
	handler := NewReceiptHandler(service.NewReceiptService())

	reqBody := `{"text": "CARREFOUR MARKET\n12/03/2025\nLAIT DEMI ECREME 1,15\nPAIN DE MIE 2,30\nTOTAL 3,45"}`
	req := jsonRequest(http.MethodPost, "/api/v1/receipts/parse", reqBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ParseReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var parsed receipt.Parsed
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if parsed.Merchant != "CARREFOUR" {
		t.Errorf("Expected merchant 'CARREFOUR', got %s", parsed.Merchant)
	}
	if parsed.Date != "2025-03-12" {
		t.Errorf("Expected date '2025-03-12', got %s", parsed.Date)
	}
	if parsed.Total.String() != "3.45" {
		t.Errorf("Expected total 3.45, got %s", parsed.Total)
	}
	if parsed.Category != "Alimentation" {
		t.Errorf("Expected category 'Alimentation', got %s", parsed.Category)
	}
}

func TestParseReceipt_EmptyText(t *testing.T) {
	e := echo.New()
	handler := NewReceiptHandler(service.NewReceiptService())

	req := jsonRequest(http.MethodPost, "/api/v1/receipts/parse", `{"text": "  "}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ParseReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestExtractLine(t *testing.T) {
	e := echo.New()
	handler := NewReceiptHandler(service.NewReceiptService())

	req := jsonRequest(http.MethodPost, "/api/v1/receipts/extract-line", `{"line": "TOTAL 23,90"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ExtractLine(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var extracted service.ExtractedLine
	if err := json.Unmarshal(rec.Body.Bytes(), &extracted); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if extracted.Amount.String() != "23.9" {
		t.Errorf("Expected amount 23.9, got %s", extracted.Amount)
	}
}
