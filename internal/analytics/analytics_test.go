package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
)

func tx(id int64, desc, category string, amount float64, txType domain.TransactionType, recurring bool) *domain.Transaction {
	return &domain.Transaction{
		ID:          id,
		Description: desc,
		Category:    category,
		Amount:      decimal.NewFromFloat(amount),
		Date:        "2025-03-01",
		Type:        txType,
		Recurring:   recurring,
	}
}

func TestCategoryTotals(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Courses", "Alimentation", 45.5, domain.TransactionTypeExpense, false),
		tx(2, "Restaurant", "Alimentation", 30, domain.TransactionTypeExpense, false),
		tx(3, "Essence", "Transport", 65, domain.TransactionTypeExpense, false),
	}
	totals := CategoryTotals(txs)
	if !totals["Alimentation"].Equal(decimal.NewFromFloat(75.5)) {
		t.Errorf("Alimentation = %s, want 75.5", totals["Alimentation"])
	}
	if !totals["Transport"].Equal(decimal.NewFromInt(65)) {
		t.Errorf("Transport = %s, want 65", totals["Transport"])
	}
}

func TestRecurringNet(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Salaire", "Revenus", 2000, domain.TransactionTypeIncome, true),
		tx(2, "Loyer", "Logement", 800, domain.TransactionTypeExpense, true),
		tx(3, "Netflix", "Abonnements", 13.99, domain.TransactionTypeExpense, true),
		tx(4, "Courses", "Alimentation", 100, domain.TransactionTypeExpense, false),
	}
	summary := RecurringNet(txs)
	if !summary.Income.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("income = %s, want 2000", summary.Income)
	}
	if !summary.Expense.Equal(decimal.NewFromFloat(813.99)) {
		t.Errorf("expense = %s, want 813.99 (non-recurring excluded)", summary.Expense)
	}
	if !summary.Net.Equal(decimal.NewFromFloat(1186.01)) {
		t.Errorf("net = %s, want 1186.01", summary.Net)
	}
}

func TestMonthsDifference(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		target time.Time
		want   int
	}{
		{time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), -1},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 10},
	}
	for _, tt := range tests {
		if got := MonthsDifference(now, tt.target); got != tt.want {
			t.Errorf("MonthsDifference(now, %v) = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestProjection(t *testing.T) {
	net := decimal.NewFromInt(100)
	if got := Projection(net, 2); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Projection(100, 2) = %s, want 300", got)
	}
	if got := Projection(net, 0); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Projection(100, 0) = %s, want 100", got)
	}
	if got := Projection(net, -1); !got.IsZero() {
		t.Errorf("Projection(100, -1) = %s, want 0", got)
	}
}

func TestThreeMonthPreview(t *testing.T) {
	net := decimal.NewFromInt(50)
	now := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	preview := ThreeMonthPreview(net, now)
	if len(preview) != 3 {
		t.Fatalf("preview has %d entries, want 3", len(preview))
	}
	wantCumulative := []int64{50, 100, 150}
	for i, p := range preview {
		if !p.Cumulative.Equal(decimal.NewFromInt(wantCumulative[i])) {
			t.Errorf("preview[%d] = %s, want %d", i, p.Cumulative, wantCumulative[i])
		}
	}
	// Year boundary: Nov, Dec, Jan.
	if preview[2].Year != 2026 || preview[2].Month != 1 {
		t.Errorf("preview[2] = %d-%d, want 2026-1", preview[2].Year, preview[2].Month)
	}
}

func TestSimpleFlowGraph(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Courses", "Alimentation", 45.5, domain.TransactionTypeExpense, false),
		tx(2, "Resto", "Alimentation", 30, domain.TransactionTypeExpense, false),
		tx(3, "Essence", "Transport", 65, domain.TransactionTypeExpense, false),
		tx(4, "Salaire", "Revenus", 2000, domain.TransactionTypeIncome, false),
	}
	graph := BuildFlowGraph(txs, FlowVariantSimple)

	var incomeEdges, leafEdges int
	for _, link := range graph.Links {
		if link.Source == "Revenus" {
			incomeEdges++
			if link.Target == "Alimentation" && !link.Value.Equal(decimal.NewFromFloat(75.5)) {
				t.Errorf("Revenus→Alimentation = %s, want 75.5", link.Value)
			}
		}
		if link.Target == "expense:Courses" {
			leafEdges++
			if link.Source != "Alimentation" {
				t.Errorf("leaf edge source = %q, want Alimentation", link.Source)
			}
			if !link.Value.Equal(decimal.NewFromFloat(45.5)) {
				t.Errorf("leaf edge value = %s, want 45.5", link.Value)
			}
		}
	}
	if incomeEdges != 2 {
		t.Errorf("income edges = %d, want one per category", incomeEdges)
	}
	if leafEdges != 1 {
		t.Errorf("leaf edges to expense:Courses = %d, want 1", leafEdges)
	}
}

func TestRecurringFlowGraphProportional(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Salaire", "Revenus", 1500, domain.TransactionTypeIncome, true),
		tx(2, "Freelance", "Revenus", 500, domain.TransactionTypeIncome, true),
		tx(3, "Loyer", "Logement", 800, domain.TransactionTypeExpense, true),
		tx(4, "Netflix", "Abonnements", 200, domain.TransactionTypeExpense, true),
		tx(5, "Courses", "Alimentation", 100, domain.TransactionTypeExpense, false),
	}
	graph := BuildFlowGraph(txs, FlowVariantRecurring)

	// Salaire carries 1500/2000 of each category.
	for _, link := range graph.Links {
		if link.Source == "income:Salaire" && link.Target == "Logement" {
			want := decimal.NewFromInt(600) // 1500 * 800 / 2000
			if !link.Value.Equal(want) {
				t.Errorf("income:Salaire→Logement = %s, want %s", link.Value, want)
			}
		}
		if link.Source == "income:Freelance" && link.Target == "Abonnements" {
			want := decimal.NewFromInt(50) // 500 * 200 / 2000
			if !link.Value.Equal(want) {
				t.Errorf("income:Freelance→Abonnements = %s, want %s", link.Value, want)
			}
		}
		if link.Target == "expense:Courses" {
			t.Error("non-recurring transaction leaked into recurring variant")
		}
	}

	// Second layer: category to recurring expense leaf.
	var found bool
	for _, link := range graph.Links {
		if link.Source == "Abonnements" && link.Target == "expense:Netflix" {
			found = true
			if !link.Value.Equal(decimal.NewFromInt(200)) {
				t.Errorf("Abonnements→expense:Netflix = %s, want 200", link.Value)
			}
		}
	}
	if !found {
		t.Error("missing category→expense leaf edge")
	}
}

func TestRecurringFlowGraphZeroIncome(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Loyer", "Logement", 800, domain.TransactionTypeExpense, true),
	}
	graph := BuildFlowGraph(txs, FlowVariantRecurring)
	for _, link := range graph.Links {
		if link.Target == "Logement" {
			t.Errorf("unexpected income edge %v with zero recurring income", link)
		}
	}
	// The category→leaf layer is still present.
	if len(graph.Links) != 1 || graph.Links[0].Target != "expense:Loyer" {
		t.Errorf("links = %v, want only Logement→expense:Loyer", graph.Links)
	}
}

func TestFlowGraphNodePrefixAvoidsCollision(t *testing.T) {
	// A transaction described exactly like its category must not merge nodes.
	txs := []*domain.Transaction{
		tx(1, "Transport", "Transport", 10, domain.TransactionTypeExpense, false),
	}
	graph := BuildFlowGraph(txs, FlowVariantSimple)
	var hasCategory, hasLeaf bool
	for _, n := range graph.Nodes {
		if n == "Transport" {
			hasCategory = true
		}
		if n == "expense:Transport" {
			hasLeaf = true
		}
	}
	if !hasCategory || !hasLeaf {
		t.Errorf("nodes = %v, want distinct category and leaf nodes", graph.Nodes)
	}
}
