package analytics

import (
	"sort"

	"bilancio/internal/core"
)

// Node labels of the synthetic flow-graph layers.
const (
	FlowTotalIncome     = "Total income"
	FlowBalance         = "Balance"
	FlowExpenses        = "Expenses"
	FlowOtherCategories = "Other categories"
	FlowOtherMerchants  = "Other merchants"
)

type flowBuilder struct {
	graph FlowGraph
	index map[string]int
}

// node returns the index for a display name, creating the node on first
// use. The key keeps layers in separate namespaces so an income source
// named like an expense category does not collapse into one node.
func (b *flowBuilder) node(key, name string) int {
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.graph.Nodes)
	b.graph.Nodes = append(b.graph.Nodes, FlowNode{Name: name})
	b.index[key] = i
	return i
}

func (b *flowBuilder) link(source, target int, cents int64) {
	b.graph.Links = append(b.graph.Links, FlowLink{Source: source, Target: target, ValueCents: cents})
}

type rankedTotal struct {
	name  string
	cents int64
}

// rankTotals sorts descending by value, name ascending on ties so the
// output is deterministic.
func rankTotals(totals map[string]int64) []rankedTotal {
	ranked := make([]rankedTotal, 0, len(totals))
	for name, cents := range totals {
		ranked = append(ranked, rankedTotal{name: name, cents: cents})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].cents != ranked[j].cents {
			return ranked[i].cents > ranked[j].cents
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}

// BuildFlowGraph builds the hierarchical value-flow graph for a period:
// income sources feed a total-income node which splits into balance and
// expenses; expenses decompose into the top categories (the rest merged
// into one synthetic node) and each kept category into its largest
// merchants, with the unattributed remainder bucketed explicitly so
// value is conserved at every non-leaf node.
//
// The income layer is only built when the period's income covers its
// expenses; otherwise the graph is rooted at the expense node. A period
// with zero outflow yields an empty graph.
func BuildFlowGraph(txs []core.Transaction, rules []MerchantRule, opts Options) FlowGraph {
	b := &flowBuilder{index: make(map[string]int)}

	var incomeCents, expenseCents int64
	incomeBySource := make(map[string]int64)
	categoryTotals := make(map[string]int64)
	categoryTxs := make(map[string][]core.Transaction)

	for _, tx := range txs {
		switch {
		case tx.Amount.IsInflow():
			incomeCents += tx.Amount.Cents
			incomeBySource[categoryOf(tx)] += tx.Amount.Cents
		case tx.Amount.IsOutflow():
			expenseCents += tx.Amount.Abs()
			cat := categoryOf(tx)
			categoryTotals[cat] += tx.Amount.Abs()
			categoryTxs[cat] = append(categoryTxs[cat], tx)
		}
	}

	if expenseCents == 0 {
		return b.graph
	}

	expensesNode := -1
	if incomeCents >= expenseCents {
		totalNode := b.node("total", FlowTotalIncome)
		for _, src := range rankTotals(incomeBySource) {
			b.link(b.node("income:"+src.name, src.name), totalNode, src.cents)
		}
		if balance := incomeCents - expenseCents; balance > 0 {
			b.link(totalNode, b.node("balance", FlowBalance), balance)
		}
		expensesNode = b.node("expenses", FlowExpenses)
		b.link(totalNode, expensesNode, expenseCents)
	} else {
		expensesNode = b.node("expenses", FlowExpenses)
	}

	ranked := rankTotals(categoryTotals)
	top := ranked
	if len(top) > opts.TopCategories {
		top = top[:opts.TopCategories]
	}

	var otherCents int64
	for _, cat := range ranked[len(top):] {
		otherCents += cat.cents
	}

	threshold := int64(opts.MerchantInclusionRatio * float64(expenseCents))
	for _, cat := range top {
		catNode := b.node("category:"+cat.name, cat.name)
		b.link(expensesNode, catNode, cat.cents)
		b.linkMerchants(cat.name, catNode, cat.cents, categoryTxs[cat.name], rules, threshold, opts.TopMerchantsPerCategory)
	}
	if otherCents > 0 {
		b.link(expensesNode, b.node("category:"+FlowOtherCategories, FlowOtherCategories), otherCents)
	}

	return b.graph
}

// linkMerchants attaches the selected merchants of one category. A
// merchant is kept when its total reaches the global threshold; the
// single largest merchant is always kept; at most topM are kept. The
// remainder not attributed to kept merchants becomes an explicit bucket
// so the category's outgoing value matches its incoming link. Merchant
// nodes are keyed per category to keep the graph a tree.
func (b *flowBuilder) linkMerchants(category string, catNode int, catCents int64, txs []core.Transaction, rules []MerchantRule, threshold int64, topM int) {
	totals := make(map[string]int64)
	for _, tx := range txs {
		if merchantPlaceholder(tx.Merchant) {
			continue
		}
		totals[StandardizeMerchant(tx.Merchant, rules)] += tx.Amount.Abs()
	}
	if len(totals) == 0 {
		return
	}

	var kept int64
	for i, m := range rankTotals(totals) {
		if i >= topM {
			break
		}
		if i > 0 && m.cents < threshold {
			break
		}
		b.link(catNode, b.node("merchant:"+category+":"+m.name, m.name), m.cents)
		kept += m.cents
	}
	if rest := catCents - kept; rest > 0 {
		b.link(catNode, b.node("merchant:"+category+":"+FlowOtherMerchants, FlowOtherMerchants), rest)
	}
}
