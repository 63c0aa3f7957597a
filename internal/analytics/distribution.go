package analytics

import (
	"fmt"
	"sort"

	"bilancio/internal/core"
)

// Pareto ranks expense categories by magnitude and tracks the running
// cumulative share of the included total. The percentage sequence is
// non-decreasing by construction and ends at ~100 whenever any value is
// present.
func Pareto(categories map[string]CategoryStat, limit int) ParetoResult {
	totals := make(map[string]int64, len(categories))
	for name, cs := range categories {
		totals[name] = cs.TotalCents
	}
	ranked := rankTotals(totals)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	var grandTotal int64
	for _, r := range ranked {
		grandTotal += r.cents
	}

	result := ParetoResult{
		Categories:            make([]string, 0, len(ranked)),
		ValuesCents:           make([]int64, 0, len(ranked)),
		CumulativePercentages: make([]float64, 0, len(ranked)),
	}
	if grandTotal == 0 {
		return result
	}

	var running int64
	for _, r := range ranked {
		running += r.cents
		result.Categories = append(result.Categories, r.name)
		result.ValuesCents = append(result.ValuesCents, r.cents)
		result.CumulativePercentages = append(result.CumulativePercentages, float64(running)/float64(grandTotal)*100)
	}
	return result
}

// Quadrant classifies merchants along frequency vs. average-amount axes.
// Merchants below the minimum total or minimum frequency are excluded as
// noise. Each point carries the merchant's dominant category.
func Quadrant(expenses []core.Transaction, rules []MerchantRule, opts Options) []QuadrantPoint {
	type acc struct {
		total      int64
		count      int
		categories map[string]int
	}
	merchants := make(map[string]*acc)

	for _, tx := range expenses {
		if !tx.Amount.IsOutflow() || merchantPlaceholder(tx.Merchant) {
			continue
		}
		name := StandardizeMerchant(tx.Merchant, rules)
		a := merchants[name]
		if a == nil {
			a = &acc{categories: make(map[string]int)}
			merchants[name] = a
		}
		a.total += tx.Amount.Abs()
		a.count++
		a.categories[categoryOf(tx)]++
	}

	points := make([]QuadrantPoint, 0, len(merchants))
	for name, a := range merchants {
		if a.total < opts.QuadrantMinTotalCents || a.count < opts.QuadrantMinFrequency {
			continue
		}
		points = append(points, QuadrantPoint{
			Name:         name,
			Category:     dominantCategory(a.categories),
			Frequency:    a.count,
			AverageCents: a.total / int64(a.count),
			TotalCents:   a.total,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].TotalCents != points[j].TotalCents {
			return points[i].TotalCents > points[j].TotalCents
		}
		return points[i].Name < points[j].Name
	})
	return points
}

func dominantCategory(counts map[string]int) string {
	best, bestCount := "", -1
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best
}

// ThemeRiver buckets outflows of the top categories by (year-month,
// category) and sums them. The result is sparse: only non-empty cells
// are emitted, ordered by period then category.
func ThemeRiver(expenses []core.Transaction, topCategories int) []ThemeRiverPoint {
	totals := make(map[string]int64)
	for _, tx := range expenses {
		if tx.Amount.IsOutflow() {
			totals[categoryOf(tx)] += tx.Amount.Abs()
		}
	}
	ranked := rankTotals(totals)
	if topCategories > 0 && len(ranked) > topCategories {
		ranked = ranked[:topCategories]
	}
	keep := make(map[string]bool, len(ranked))
	for _, r := range ranked {
		keep[r.name] = true
	}

	type cell struct {
		period   string
		category string
	}
	cells := make(map[cell]int64)
	for _, tx := range expenses {
		if !tx.Amount.IsOutflow() || !keep[categoryOf(tx)] {
			continue
		}
		key := cell{
			period:   fmt.Sprintf("%04d-%02d", tx.Date.Year(), tx.Date.Month()),
			category: categoryOf(tx),
		}
		cells[key] += tx.Amount.Abs()
	}

	points := make([]ThemeRiverPoint, 0, len(cells))
	for key, cents := range cells {
		points = append(points, ThemeRiverPoint{Period: key.period, Category: key.category, ValueCents: cents})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Period != points[j].Period {
			return points[i].Period < points[j].Period
		}
		return points[i].Category < points[j].Category
	})
	return points
}

// funnelBand is one fixed amount band of the spending-tier funnel.
// Bounds are cents; Upper of 0 means unbounded.
type funnelBand struct {
	label string
	lower int64
	upper int64
}

var funnelBands = []funnelBand{
	{"0-50", 0, 50_00},
	{"50-100", 50_00, 100_00},
	{"100-500", 100_00, 500_00},
	{"500-1000", 500_00, 1000_00},
	{"1000-5000", 1000_00, 5000_00},
	{"5000-20000", 5000_00, 20000_00},
	{"20000+", 20000_00, 0},
}

// Funnel partitions outflows into fixed ascending amount bands, computes
// per-band totals and their share of the grand total, drops empty bands
// and sorts descending by value for display.
func Funnel(expenses []core.Transaction) []FunnelBucket {
	totals := make([]int64, len(funnelBands))
	var grandTotal int64
	for _, tx := range expenses {
		if !tx.Amount.IsOutflow() {
			continue
		}
		amount := tx.Amount.Abs()
		grandTotal += amount
		for i, band := range funnelBands {
			if amount >= band.lower && (band.upper == 0 || amount < band.upper) {
				totals[i] += amount
				break
			}
		}
	}
	if grandTotal == 0 {
		return nil
	}

	buckets := make([]FunnelBucket, 0, len(funnelBands))
	for i, band := range funnelBands {
		if totals[i] == 0 {
			continue
		}
		buckets = append(buckets, FunnelBucket{
			Label:      band.label,
			ValueCents: totals[i],
			Percentage: float64(totals[i]) / float64(grandTotal) * 100,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].ValueCents != buckets[j].ValueCents {
			return buckets[i].ValueCents > buckets[j].ValueCents
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

// WordWeights groups outflows by standardized merchant name and sums
// them into word-cloud weights. Placeholder names and merchants at or
// below the minimum are dropped; the list is sorted descending and
// capped at the limit.
func WordWeights(expenses []core.Transaction, rules []MerchantRule, opts Options) []WordWeight {
	totals := make(map[string]int64)
	for _, tx := range expenses {
		if !tx.Amount.IsOutflow() || merchantPlaceholder(tx.Merchant) {
			continue
		}
		totals[StandardizeMerchant(tx.Merchant, rules)] += tx.Amount.Abs()
	}

	weights := make([]WordWeight, 0, len(totals))
	for _, r := range rankTotals(totals) {
		if r.cents <= opts.WordCloudMinCents {
			continue
		}
		weights = append(weights, WordWeight{Label: r.name, WeightCents: r.cents})
	}
	if opts.WordCloudLimit > 0 && len(weights) > opts.WordCloudLimit {
		weights = weights[:opts.WordCloudLimit]
	}
	return weights
}
