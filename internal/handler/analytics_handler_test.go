package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/analytics"
	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/service"
	"github.com/centime-app/centime-backend/internal/testutil"
)

func newAnalyticsHandler() (*AnalyticsHandler, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	return NewAnalyticsHandler(service.NewAnalyticsService(repo)), repo
}

func TestGetCategoryTotals(t *testing.T) {
	e := echo.New()
	handler, repo := newAnalyticsHandler()
	repo.AddTransaction(&domain.Transaction{ID: 1, Description: "Courses", Category: "Alimentation", Amount: decimal.NewFromFloat(45.5), Date: "2025-03-01", Type: domain.TransactionTypeExpense})
	repo.AddTransaction(&domain.Transaction{ID: 2, Description: "Resto", Category: "Alimentation", Amount: decimal.NewFromFloat(20), Date: "2025-03-02", Type: domain.TransactionTypeExpense})
	repo.AddTransaction(&domain.Transaction{ID: 3, Description: "Essence", Category: "Transport", Amount: decimal.NewFromFloat(65), Date: "2025-03-03", Type: domain.TransactionTypeExpense})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetCategoryTotals(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var totals map[string]decimal.Decimal
	if err := json.Unmarshal(rec.Body.Bytes(), &totals); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !totals["Alimentation"].Equal(decimal.NewFromFloat(65.5)) {
		t.Errorf("Expected Alimentation 65.5, got %s", totals["Alimentation"])
	}
	if !totals["Transport"].Equal(decimal.NewFromInt(65)) {
		t.Errorf("Expected Transport 65, got %s", totals["Transport"])
	}
}

func TestGetRecurringSummary(t *testing.T) {
	e := echo.New()
	handler, repo := newAnalyticsHandler()
	repo.AddTransaction(&domain.Transaction{ID: 1, Description: "Salaire", Category: "Revenus", Amount: decimal.NewFromInt(2000), Date: "2025-03-01", Type: domain.TransactionTypeIncome, Recurring: true})
	repo.AddTransaction(&domain.Transaction{ID: 2, Description: "Loyer", Category: "Logement", Amount: decimal.NewFromInt(800), Date: "2025-03-02", Type: domain.TransactionTypeExpense, Recurring: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/recurring", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetRecurringSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var summary analytics.RecurringSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !summary.Net.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected net 1200, got %s", summary.Net)
	}
}

func TestGetProjection_InvalidMonth(t *testing.T) {
	e := echo.New()
	handler, _ := newAnalyticsHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/projection?year=2025&month=13", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetProjection(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetProjection(t *testing.T) {
	e := echo.New()
	handler, repo := newAnalyticsHandler()
	repo.AddTransaction(&domain.Transaction{ID: 1, Description: "Salaire", Category: "Revenus", Amount: decimal.NewFromInt(1000), Date: "2025-03-01", Type: domain.TransactionTypeIncome, Recurring: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/projection?year=2100&month=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetProjection(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var projection service.ProjectionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &projection); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !projection.Cumulative.IsPositive() {
		t.Errorf("Expected positive cumulative projection, got %s", projection.Cumulative)
	}
	if len(projection.Preview) != 3 {
		t.Errorf("Expected 3 preview months, got %d", len(projection.Preview))
	}
}

func TestGetFlowGraph_InvalidVariant(t *testing.T) {
	e := echo.New()
	handler, _ := newAnalyticsHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/flow?variant=circular", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetFlowGraph(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetFlowGraph_DefaultsToSimple(t *testing.T) {
	e := echo.New()
	handler, repo := newAnalyticsHandler()
	repo.AddTransaction(&domain.Transaction{ID: 1, Description: "Courses", Category: "Alimentation", Amount: decimal.NewFromFloat(45.5), Date: "2025-03-01", Type: domain.TransactionTypeExpense})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/flow", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetFlowGraph(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var graph analytics.FlowGraph
	if err := json.Unmarshal(rec.Body.Bytes(), &graph); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(graph.Nodes) == 0 || graph.Nodes[0] != "Revenus" {
		t.Errorf("Expected the aggregate income node first, got %v", graph.Nodes)
	}
}
