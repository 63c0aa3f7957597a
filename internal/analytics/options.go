package analytics

// Options are the tuning knobs of the engine. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// Flow graph
	TopCategories           int     // categories kept as direct children of the expense node
	TopMerchantsPerCategory int     // merchant children kept per category
	MerchantInclusionRatio  float64 // merchant total / total outflow cutoff

	// Quadrant noise filter
	QuadrantMinTotalCents int64
	QuadrantMinFrequency  int

	// Theme river
	ThemeRiverCategories int

	// Word weights
	WordCloudMinCents int64
	WordCloudLimit    int

	// Pareto
	ParetoLimit int

	// Box plot
	BoxPlotCategories int

	// Alert thresholds
	SingleTransactionCents int64
	MonthlyIncreasePct     float64
	YearlyIncreasePct      float64
	BudgetUsagePct         float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		TopCategories:           8,
		TopMerchantsPerCategory: 3,
		MerchantInclusionRatio:  0.005,

		QuadrantMinTotalCents: 50_00,
		QuadrantMinFrequency:  2,

		ThemeRiverCategories: 10,

		WordCloudMinCents: 10_00,
		WordCloudLimit:    30,

		ParetoLimit: 15,

		BoxPlotCategories: 8,

		SingleTransactionCents: 1000_00,
		MonthlyIncreasePct:     50,
		YearlyIncreasePct:      30,
		BudgetUsagePct:         90,
	}
}
