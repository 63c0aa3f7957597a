package analytics

import (
	"math"
	"sort"

	"bilancio/internal/core"
)

// percentile computes the p-th percentile (0-100) of ascending sorted
// values with linear interpolation: index = p/100 * (n-1), interpolating
// between the surrounding elements.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// BoxPlots computes the five-number summary of outflow amounts for the
// top categories by total. A category without transactions yields an
// explicitly empty entry rather than a zero-filled one.
func BoxPlots(expenses []core.Transaction, topCategories int) []BoxPlotStat {
	totals := make(map[string]int64)
	amounts := make(map[string][]float64)
	for _, tx := range expenses {
		if !tx.Amount.IsOutflow() {
			continue
		}
		cat := categoryOf(tx)
		totals[cat] += tx.Amount.Abs()
		amounts[cat] = append(amounts[cat], float64(tx.Amount.Abs()))
	}

	ranked := rankTotals(totals)
	if topCategories > 0 && len(ranked) > topCategories {
		ranked = ranked[:topCategories]
	}

	stats := make([]BoxPlotStat, 0, len(ranked))
	for _, r := range ranked {
		values := amounts[r.name]
		if len(values) == 0 {
			stats = append(stats, BoxPlotStat{Category: r.name, Empty: true})
			continue
		}
		sort.Float64s(values)
		stats = append(stats, BoxPlotStat{
			Category: r.name,
			Min:      values[0],
			Q1:       percentile(values, 25),
			Median:   percentile(values, 50),
			Q3:       percentile(values, 75),
			Max:      values[len(values)-1],
		})
	}
	return stats
}
