package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func TestParetoCumulative(t *testing.T) {
	categories := map[string]CategoryStat{
		"Food":      {TotalCents: 50000, Count: 10},
		"Transport": {TotalCents: 30000, Count: 5},
		"Leisure":   {TotalCents: 20000, Count: 4},
	}

	result := Pareto(categories, 15)

	require.Equal(t, []string{"Food", "Transport", "Leisure"}, result.Categories)
	require.Equal(t, []int64{50000, 30000, 20000}, result.ValuesCents)

	prev := 0.0
	for _, p := range result.CumulativePercentages {
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
	assert.InDelta(t, 100.0, result.CumulativePercentages[len(result.CumulativePercentages)-1], 0.01)
}

func TestParetoCap(t *testing.T) {
	categories := make(map[string]CategoryStat)
	for i := 0; i < 20; i++ {
		categories[fmt.Sprintf("cat-%02d", i)] = CategoryStat{TotalCents: int64(1000 * (i + 1)), Count: 1}
	}

	result := Pareto(categories, 15)

	assert.Len(t, result.Categories, 15)
	assert.InDelta(t, 100.0, result.CumulativePercentages[14], 0.01)
}

func TestParetoEmpty(t *testing.T) {
	result := Pareto(nil, 15)
	assert.Empty(t, result.Categories)
	assert.Empty(t, result.CumulativePercentages)
}

func TestQuadrantNoiseFilter(t *testing.T) {
	expenses := []core.Transaction{
		// Frequent, mid-value merchant: kept.
		tx(2025, 1, 1, -3000, "Food", "Esselunga"),
		tx(2025, 1, 8, -5000, "Food", "Esselunga"),
		tx(2025, 1, 15, -4000, "Food", "Esselunga"),
		// One-off merchant: excluded on frequency.
		tx(2025, 1, 3, -90000, "Travel", "Ryanair"),
		// Frequent but tiny merchant: excluded on total.
		tx(2025, 1, 4, -100, "Food", "Kiosk"),
		tx(2025, 1, 5, -200, "Food", "Kiosk"),
	}

	points := Quadrant(expenses, DefaultMerchantRules, DefaultOptions())

	require.Len(t, points, 1)
	p := points[0]
	assert.Equal(t, "Esselunga", p.Name)
	assert.Equal(t, "Food", p.Category)
	assert.Equal(t, 3, p.Frequency)
	assert.Equal(t, int64(4000), p.AverageCents)
	assert.Equal(t, int64(12000), p.TotalCents)
}

func TestThemeRiverSparse(t *testing.T) {
	expenses := []core.Transaction{
		tx(2025, 1, 5, -1000, "Food", ""),
		tx(2025, 1, 9, -2000, "Food", ""),
		tx(2025, 3, 2, -3000, "Food", ""),
		tx(2025, 3, 4, -4000, "Transport", ""),
	}

	points := ThemeRiver(expenses, 10)

	require.Len(t, points, 3)
	assert.Equal(t, ThemeRiverPoint{Period: "2025-01", Category: "Food", ValueCents: 3000}, points[0])
	assert.Equal(t, ThemeRiverPoint{Period: "2025-03", Category: "Food", ValueCents: 3000}, points[1])
	assert.Equal(t, ThemeRiverPoint{Period: "2025-03", Category: "Transport", ValueCents: 4000}, points[2])
}

func TestThemeRiverTopCategories(t *testing.T) {
	expenses := []core.Transaction{
		tx(2025, 1, 1, -9000, "Big", ""),
		tx(2025, 1, 2, -100, "Small", ""),
	}

	points := ThemeRiver(expenses, 1)

	require.Len(t, points, 1)
	assert.Equal(t, "Big", points[0].Category)
}

func TestFunnelBands(t *testing.T) {
	expenses := []core.Transaction{
		tx(2025, 1, 1, -2500, "Food", ""),     // 0-50 band
		tx(2025, 1, 2, -7500, "Food", ""),     // 50-100 band
		tx(2025, 1, 3, -7500, "Food", ""),     // 50-100 band
		tx(2025, 1, 4, -2500000, "Rent", ""),  // 20000+ band
	}

	buckets := Funnel(expenses)

	require.Len(t, buckets, 3)
	// Sorted descending by value.
	assert.Equal(t, "20000+", buckets[0].Label)
	assert.Equal(t, int64(2500000), buckets[0].ValueCents)
	assert.Equal(t, "50-100", buckets[1].Label)
	assert.Equal(t, int64(15000), buckets[1].ValueCents)
	assert.Equal(t, "0-50", buckets[2].Label)

	var pctTotal float64
	for _, b := range buckets {
		pctTotal += b.Percentage
	}
	assert.InDelta(t, 100.0, pctTotal, 0.01)
}

func TestFunnelEmpty(t *testing.T) {
	assert.Nil(t, Funnel(nil))
}

func TestWordWeights(t *testing.T) {
	expenses := []core.Transaction{
		tx(2025, 1, 1, -5000, "Food", "Esselunga Milano"),
		tx(2025, 1, 2, -3000, "Food", "Esselunga (online)"),
		tx(2025, 1, 3, -900, "Food", "Kiosk"),   // at/below minimum, dropped
		tx(2025, 1, 4, -5000, "Other", "unknown"), // placeholder, dropped
	}

	weights := WordWeights(expenses, DefaultMerchantRules, DefaultOptions())

	require.Len(t, weights, 1)
	assert.Equal(t, WordWeight{Label: "Esselunga", WeightCents: 8000}, weights[0])
}

func TestWordWeightsLimit(t *testing.T) {
	var expenses []core.Transaction
	for i := 0; i < 40; i++ {
		expenses = append(expenses, tx(2025, 1, 1, -int64(2000+i), "Food", fmt.Sprintf("Shop %02d", i)))
	}

	opts := DefaultOptions()
	weights := WordWeights(expenses, DefaultMerchantRules, opts)
	assert.Len(t, weights, opts.WordCloudLimit)
}
