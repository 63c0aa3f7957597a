package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func TestTrackBudgetScenario(t *testing.T) {
	budget := core.Budget{
		Year:       2025,
		TotalCents: 100000,
		Categories: map[string]int64{"Food": 20000},
	}
	categories := map[string]CategoryStat{
		"Food": {TotalCents: 25000, Count: 7},
	}

	report := TrackBudget(budget, 25000, categories)

	require.Contains(t, report.Categories, "Food")
	food := report.Categories["Food"]
	assert.Equal(t, int64(20000), food.BudgetCents)
	assert.Equal(t, int64(25000), food.SpentCents)
	assert.Equal(t, int64(-5000), food.RemainingCents)
	assert.InDelta(t, 125.0, food.PercentageUsed, 0.001)
	assert.True(t, food.OverBudget)

	assert.InDelta(t, 25.0, report.Total.PercentageUsed, 0.001)
	assert.False(t, report.Total.OverBudget)
}

func TestTrackBudgetZeroBudget(t *testing.T) {
	report := TrackBudget(core.Budget{Year: 2025}, 5000, map[string]CategoryStat{
		"Travel": {TotalCents: 5000, Count: 1},
	})

	// percentageUsed is defined as 0 when the budget is 0.
	assert.Zero(t, report.Total.PercentageUsed)
	require.Contains(t, report.Categories, "Travel")
	assert.Zero(t, report.Categories["Travel"].PercentageUsed)
	assert.Equal(t, int64(0), report.Categories["Travel"].BudgetCents)
}

func TestTrackBudgetOverBudgetProperty(t *testing.T) {
	cases := []struct {
		budget int64
		spent  int64
	}{
		{10000, 5000},
		{10000, 10000},
		{10000, 10001},
		{0, 0},
		{0, 100},
	}
	for _, tc := range cases {
		p := progressFor(tc.budget, tc.spent)
		assert.Equal(t, tc.spent > tc.budget, p.OverBudget, "budget=%d spent=%d", tc.budget, tc.spent)
		assert.Equal(t, tc.budget-tc.spent, p.RemainingCents)
	}
}

func TestTrackBudgetBudgetedCategoryWithoutSpend(t *testing.T) {
	budget := core.Budget{
		Year:       2025,
		TotalCents: 50000,
		Categories: map[string]int64{"Gifts": 10000},
	}

	report := TrackBudget(budget, 0, nil)

	require.Contains(t, report.Categories, "Gifts")
	gifts := report.Categories["Gifts"]
	assert.Zero(t, gifts.SpentCents)
	assert.Equal(t, int64(10000), gifts.RemainingCents)
	assert.False(t, gifts.OverBudget)
}
