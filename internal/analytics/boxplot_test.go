package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{100, 200, 300, 400}

	// index = p/100 * (n-1) = 0.25*3 = 0.75 -> 100 + 0.75*(200-100)
	assert.InDelta(t, 175.0, percentile(values, 25), 0.0001)
	assert.InDelta(t, 250.0, percentile(values, 50), 0.0001)
	assert.InDelta(t, 325.0, percentile(values, 75), 0.0001)
	assert.InDelta(t, 100.0, percentile(values, 0), 0.0001)
	assert.InDelta(t, 400.0, percentile(values, 100), 0.0001)
}

func TestPercentileDegenerate(t *testing.T) {
	assert.Zero(t, percentile(nil, 50))
	assert.Equal(t, 42.0, percentile([]float64{42}, 75))
}

func TestBoxPlotsOrderingInvariant(t *testing.T) {
	expenses := []core.Transaction{
		tx(2025, 1, 1, -100, "Food", ""),
		tx(2025, 1, 2, -900, "Food", ""),
		tx(2025, 1, 3, -400, "Food", ""),
		tx(2025, 1, 4, -50, "Food", ""),
		tx(2025, 1, 5, -7000, "Food", ""),
		tx(2025, 1, 6, -300, "Transport", ""),
	}

	stats := BoxPlots(expenses, 8)

	require.Len(t, stats, 2)
	for _, s := range stats {
		require.False(t, s.Empty)
		assert.LessOrEqual(t, s.Min, s.Q1, s.Category)
		assert.LessOrEqual(t, s.Q1, s.Median, s.Category)
		assert.LessOrEqual(t, s.Median, s.Q3, s.Category)
		assert.LessOrEqual(t, s.Q3, s.Max, s.Category)
	}

	// Categories are ordered by total, largest first.
	assert.Equal(t, "Food", stats[0].Category)
	assert.Equal(t, "Transport", stats[1].Category)
}

func TestBoxPlotsSingleTransaction(t *testing.T) {
	stats := BoxPlots([]core.Transaction{tx(2025, 1, 1, -500, "Food", "")}, 8)

	require.Len(t, stats, 1)
	s := stats[0]
	assert.Equal(t, 500.0, s.Min)
	assert.Equal(t, 500.0, s.Q1)
	assert.Equal(t, 500.0, s.Median)
	assert.Equal(t, 500.0, s.Q3)
	assert.Equal(t, 500.0, s.Max)
}

func TestBoxPlotsTopCategoriesCap(t *testing.T) {
	var expenses []core.Transaction
	for i := 0; i < 12; i++ {
		expenses = append(expenses, tx(2025, 1, 1, -int64(1000*(i+1)), string(rune('A'+i)), ""))
	}

	stats := BoxPlots(expenses, 8)
	assert.Len(t, stats, 8)
}
