package analytics

import "bilancio/internal/core"

// progressFor computes one budget-vs-actual line. A budget of 0 means
// "not configured": usage is reported as 0 so threshold alerts never
// fire for it.
func progressFor(budgetCents, spentCents int64) BudgetProgress {
	p := BudgetProgress{
		BudgetCents:    budgetCents,
		SpentCents:     spentCents,
		RemainingCents: budgetCents - spentCents,
		OverBudget:     spentCents > budgetCents,
	}
	if budgetCents > 0 {
		p.PercentageUsed = float64(spentCents) / float64(budgetCents) * 100
	}
	return p
}

// TrackBudget compares the configured budget against actual spend. Every
// budgeted category gets a line even without spend, and every category
// with spend gets a line even without a configured budget (reported with
// budget 0).
func TrackBudget(b core.Budget, expenseCents int64, categories map[string]CategoryStat) BudgetReport {
	report := BudgetReport{
		Year:       b.Year,
		Month:      b.Month,
		Total:      progressFor(b.TotalCents, expenseCents),
		Categories: make(map[string]BudgetProgress),
	}

	for name, budgetCents := range b.Categories {
		report.Categories[name] = progressFor(budgetCents, categories[name].TotalCents)
	}
	for name, cs := range categories {
		if _, ok := report.Categories[name]; ok {
			continue
		}
		report.Categories[name] = progressFor(0, cs.TotalCents)
	}

	return report
}
