package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
)

// FlowVariant selects which Sankey view to build.
type FlowVariant string

const (
	FlowVariantSimple    FlowVariant = "simple"
	FlowVariantRecurring FlowVariant = "recurring"
)

// Leaf node prefixes keep a category name from colliding with a transaction
// description used as an edge endpoint.
const (
	incomeNodePrefix  = "income:"
	expenseNodePrefix = "expense:"
)

// incomeAggregateNode is the single source node of the simple variant.
const incomeAggregateNode = "Revenus"

// FlowEdge is one weighted directed link of the flow graph.
type FlowEdge struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

// FlowGraph is the node list plus edge list handed to the Sankey renderer.
// Nodes appear in first-reference order.
type FlowGraph struct {
	Nodes []string   `json:"nodes"`
	Links []FlowEdge `json:"links"`
}

func (g *FlowGraph) addEdge(source, target string, value decimal.Decimal) {
	g.addNode(source)
	g.addNode(target)
	g.Links = append(g.Links, FlowEdge{Source: source, Target: target, Value: value})
}

func (g *FlowGraph) addNode(name string) {
	for _, n := range g.Nodes {
		if n == name {
			return
		}
	}
	g.Nodes = append(g.Nodes, name)
}

// BuildFlowGraph dispatches on the requested variant.
func BuildFlowGraph(transactions []*domain.Transaction, variant FlowVariant) *FlowGraph {
	if variant == FlowVariantRecurring {
		return recurringFlowGraph(transactions)
	}
	return simpleFlowGraph(transactions)
}

// simpleFlowGraph routes the income aggregate into each expense category,
// weighted by the category total, then fans each category out to its
// individual transactions.
func simpleFlowGraph(transactions []*domain.Transaction) *FlowGraph {
	graph := &FlowGraph{}

	expenses := filterTransactions(transactions, func(tx *domain.Transaction) bool {
		return tx.Type == domain.TransactionTypeExpense
	})

	totals := CategoryTotals(expenses)
	for _, category := range sortedKeys(totals) {
		graph.addEdge(incomeAggregateNode, category, totals[category])
	}
	for _, tx := range expenses {
		graph.addEdge(tx.Category, expenseNodePrefix+tx.Description, tx.Amount)
	}

	return graph
}

// recurringFlowGraph distributes every recurring income source across the
// recurring expense categories, each income's contribution proportional to
// the category's share of total recurring income. A zero income total
// produces no income edges at all.
func recurringFlowGraph(transactions []*domain.Transaction) *FlowGraph {
	graph := &FlowGraph{}

	recurring := filterTransactions(transactions, func(tx *domain.Transaction) bool {
		return tx.Recurring
	})
	incomes := filterTransactions(recurring, func(tx *domain.Transaction) bool {
		return tx.Type == domain.TransactionTypeIncome
	})
	expenses := filterTransactions(recurring, func(tx *domain.Transaction) bool {
		return tx.Type == domain.TransactionTypeExpense
	})

	totalIncome := decimal.Zero
	for _, tx := range incomes {
		totalIncome = totalIncome.Add(tx.Amount)
	}

	totals := CategoryTotals(expenses)
	if totalIncome.IsPositive() {
		for _, tx := range incomes {
			for _, category := range sortedKeys(totals) {
				share := tx.Amount.Mul(totals[category]).Div(totalIncome)
				graph.addEdge(incomeNodePrefix+tx.Description, category, share)
			}
		}
	}

	for _, tx := range expenses {
		graph.addEdge(tx.Category, expenseNodePrefix+tx.Description, tx.Amount)
	}

	return graph
}

func filterTransactions(transactions []*domain.Transaction, keep func(*domain.Transaction) bool) []*domain.Transaction {
	var out []*domain.Transaction
	for _, tx := range transactions {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
