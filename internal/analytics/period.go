package analytics

import (
	"sort"
	"strings"

	"bilancio/internal/core"
)

// categoryOf returns the record's category, falling back to
// CategoryOther for uncategorized records.
func categoryOf(tx core.Transaction) string {
	if strings.TrimSpace(tx.Category) == "" {
		return CategoryOther
	}
	return tx.Category
}

// FilterOwner returns the records whose owner matches the filter. An
// empty filter keeps everything. The input slice is never modified.
func FilterOwner(txs []core.Transaction, owner string) []core.Transaction {
	if owner == "" {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Owner == owner {
			out = append(out, tx)
		}
	}
	return out
}

// AggregateMonth computes the rollup for one month from that month's
// records. Inflows accumulate into income, outflows into expense and the
// per-category map; balance is income minus expense.
func AggregateMonth(txs []core.Transaction, year, month int, owner string) MonthlyStats {
	txs = FilterOwner(txs, owner)

	stats := MonthlyStats{
		Year:       year,
		Month:      month,
		Categories: make(map[string]CategoryStat),
	}

	for _, tx := range txs {
		switch {
		case tx.Amount.IsInflow():
			stats.IncomeCents += tx.Amount.Cents
		case tx.Amount.IsOutflow():
			stats.ExpenseCents += tx.Amount.Abs()
			cs := stats.Categories[categoryOf(tx)]
			cs.TotalCents += tx.Amount.Abs()
			cs.Count++
			stats.Categories[categoryOf(tx)] = cs
		}
	}

	stats.BalanceCents = stats.IncomeCents - stats.ExpenseCents
	stats.Transactions = txs
	stats.TransactionCount = len(txs)
	return stats
}

// AggregateYear computes the rollup for a whole year from that year's
// records. Besides the year totals it folds per-month totals into a
// breakdown ordered by month number and collects every outflow record
// for downstream analytics.
func AggregateYear(txs []core.Transaction, year int, owner string) YearlyStats {
	txs = FilterOwner(txs, owner)

	stats := YearlyStats{
		Year:       year,
		Categories: make(map[string]CategoryStat),
	}

	months := [12]MonthBreakdown{}
	for i := range months {
		months[i].Month = i + 1
	}

	for _, tx := range txs {
		m := tx.Date.Month()
		if m < 1 || m > 12 {
			continue
		}
		switch {
		case tx.Amount.IsInflow():
			stats.IncomeCents += tx.Amount.Cents
			months[m-1].IncomeCents += tx.Amount.Cents
		case tx.Amount.IsOutflow():
			stats.ExpenseCents += tx.Amount.Abs()
			months[m-1].ExpenseCents += tx.Amount.Abs()
			cs := stats.Categories[categoryOf(tx)]
			cs.TotalCents += tx.Amount.Abs()
			cs.Count++
			stats.Categories[categoryOf(tx)] = cs
			stats.Expenses = append(stats.Expenses, tx)
		}
	}

	stats.BalanceCents = stats.IncomeCents - stats.ExpenseCents
	for i := range months {
		months[i].BalanceCents = months[i].IncomeCents - months[i].ExpenseCents
	}
	stats.Months = months[:]
	stats.Transactions = txs
	stats.TransactionCount = len(txs)
	return stats
}

// AggregateCategoryYear rolls a year's outflows up per category, each
// with a twelve-month series. Categories are ordered by total
// descending, ties broken by name.
func AggregateCategoryYear(txs []core.Transaction, owner string) []CategoryYearlyStat {
	txs = FilterOwner(txs, owner)

	byCategory := make(map[string]*CategoryYearlyStat)
	for _, tx := range txs {
		if !tx.Amount.IsOutflow() {
			continue
		}
		m := tx.Date.Month()
		if m < 1 || m > 12 {
			continue
		}
		name := categoryOf(tx)
		stat, ok := byCategory[name]
		if !ok {
			stat = &CategoryYearlyStat{Category: name, MonthlyCents: make([]int64, 12)}
			byCategory[name] = stat
		}
		stat.TotalCents += tx.Amount.Abs()
		stat.Count++
		stat.MonthlyCents[m-1] += tx.Amount.Abs()
	}

	out := make([]CategoryYearlyStat, 0, len(byCategory))
	for _, stat := range byCategory {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCents != out[j].TotalCents {
			return out[i].TotalCents > out[j].TotalCents
		}
		return out[i].Category < out[j].Category
	})
	return out
}
