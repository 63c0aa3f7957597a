// Package analytics implements the ledger aggregation and analytics
// engine: period rollups, budget tracking, flow graphs, distributional
// views and spending alerts.
//
// Every function in this package is a pure transformation of the
// transaction slice passed to it. The package performs no I/O, reads no
// clocks and keeps no state across calls; concurrent invocations are
// independent.
package analytics

import "bilancio/internal/core"

// CategoryOther is the label assigned to outflows without a category.
const CategoryOther = "Other"

// CategoryStat is the per-category rollup. TotalCents is sign-normalized
// to a magnitude.
type CategoryStat struct {
	TotalCents int64 `json:"total_cents"`
	Count      int   `json:"count"`
}

// MonthlyStats is the rollup for a single year+month.
type MonthlyStats struct {
	Year             int                     `json:"year"`
	Month            int                     `json:"month"`
	IncomeCents      int64                   `json:"income_cents"`
	ExpenseCents     int64                   `json:"expense_cents"`
	BalanceCents     int64                   `json:"balance_cents"`
	Categories       map[string]CategoryStat `json:"categories"`
	Transactions     []core.Transaction      `json:"transactions"`
	TransactionCount int                     `json:"transaction_count"`
}

// MonthBreakdown is one month's totals inside a YearlyStats.
type MonthBreakdown struct {
	Month        int   `json:"month"`
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

// YearlyStats is the rollup for a whole year. Transactions carries the
// year's full record sequence like MonthlyStats does; Expenses holds
// only the outflow records for downstream analytics.
type YearlyStats struct {
	Year             int                     `json:"year"`
	IncomeCents      int64                   `json:"income_cents"`
	ExpenseCents     int64                   `json:"expense_cents"`
	BalanceCents     int64                   `json:"balance_cents"`
	Categories       map[string]CategoryStat `json:"categories"`
	Months           []MonthBreakdown        `json:"months"`
	Transactions     []core.Transaction      `json:"transactions"`
	Expenses         []core.Transaction      `json:"-"`
	TransactionCount int                     `json:"transaction_count"`
}

// CategoryYearlyStat is one category's yearly outflow rollup with its
// per-month totals. MonthlyCents always holds twelve entries, index 0
// for January.
type CategoryYearlyStat struct {
	Category     string  `json:"category"`
	TotalCents   int64   `json:"total_cents"`
	Count        int     `json:"count"`
	MonthlyCents []int64 `json:"monthly_cents"`
}

// BudgetProgress compares actual spend against one configured budget.
type BudgetProgress struct {
	BudgetCents    int64   `json:"budget_cents"`
	SpentCents     int64   `json:"spent_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	PercentageUsed float64 `json:"percentage_used"`
	OverBudget     bool    `json:"over_budget"`
}

// BudgetReport is the progress for the total and every category that is
// budgeted or has actual spend.
type BudgetReport struct {
	Year       int                       `json:"year"`
	Month      int                       `json:"month,omitempty"`
	Total      BudgetProgress            `json:"total"`
	Categories map[string]BudgetProgress `json:"categories"`
}

// FlowNode is a node in the value-flow graph.
type FlowNode struct {
	Name string `json:"name"`
}

// FlowLink carries value from one node index to another.
type FlowLink struct {
	Source     int   `json:"source"`
	Target     int   `json:"target"`
	ValueCents int64 `json:"value_cents"`
}

// FlowGraph is a layered tree: income sources feed a total-income node,
// which splits into balance and expenses; expenses decompose into
// categories and categories into merchants. For every non-leaf node the
// incoming value equals the sum of its outgoing links.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// ParetoResult ranks categories by magnitude with a running cumulative
// share. Percentages are non-decreasing and end at ~100 when any value
// is present.
type ParetoResult struct {
	Categories            []string  `json:"categories"`
	ValuesCents           []int64   `json:"values_cents"`
	CumulativePercentages []float64 `json:"cumulative_percentages"`
}

// QuadrantPoint positions one merchant on the frequency vs. average
// amount plane.
type QuadrantPoint struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Frequency    int    `json:"frequency"`
	AverageCents int64  `json:"average_cents"`
	TotalCents   int64  `json:"total_cents"`
}

// ThemeRiverPoint is one cell of the sparse (period, category) matrix.
type ThemeRiverPoint struct {
	Period     string `json:"period"` // "2025-03"
	Category   string `json:"category"`
	ValueCents int64  `json:"value_cents"`
}

// FunnelBucket is one amount band of the spending-tier funnel.
type FunnelBucket struct {
	Label      string  `json:"label"`
	ValueCents int64   `json:"value_cents"`
	Percentage float64 `json:"percentage"`
}

// WordWeight is a merchant label weighted by total spend.
type WordWeight struct {
	Label       string `json:"label"`
	WeightCents int64  `json:"weight_cents"`
}

// BoxPlotStat holds the five-number summary for one category's outflow
// amounts. Values are float64 cents because quartiles are interpolated.
// Empty reports a category in the top set that has no transactions.
type BoxPlotStat struct {
	Category string  `json:"category"`
	Empty    bool    `json:"empty"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
}

// AlertKind tags the rule that raised an alert.
type AlertKind string

const (
	AlertHighValue       AlertKind = "high_value"
	AlertMonthlyIncrease AlertKind = "monthly_increase"
	AlertYearlyIncrease  AlertKind = "yearly_increase"
	AlertBudgetExceeded  AlertKind = "budget_exceeded"
)

// Alert is one triggered spending alert.
type Alert struct {
	Kind        AlertKind `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Threshold   float64   `json:"threshold"`
	Date        core.Date `json:"date,omitempty"`
	Category    string    `json:"category,omitempty"`
	Message     string    `json:"message"`
}
