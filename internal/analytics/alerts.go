package analytics

import (
	"fmt"
	"sort"
)

// AlertInput is everything the spending-alert analyzer looks at.
type AlertInput struct {
	CurrentMonth  MonthlyStats
	PreviousMonth MonthlyStats
	CurrentYear   YearlyStats
	PreviousYear  YearlyStats
	Budget        BudgetReport
}

// DetectAlerts runs the four alert checks independently and concatenates
// their results: high-value transactions, month-over-month growth,
// year-over-year growth and budget usage. Growth checks are skipped when
// the prior period's total is exactly 0 so no undefined percentage is
// produced. There is no cross-suppression between checks.
func DetectAlerts(in AlertInput, opts Options) []Alert {
	var alerts []Alert

	for _, tx := range in.CurrentMonth.Transactions {
		if !tx.Amount.IsOutflow() || tx.Amount.Abs() < opts.SingleTransactionCents {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:        AlertHighValue,
			AmountCents: tx.Amount.Abs(),
			Threshold:   float64(opts.SingleTransactionCents),
			Date:        tx.Date,
			Category:    categoryOf(tx),
			Message: fmt.Sprintf("single transaction of %.2f in %s exceeds %.2f",
				float64(tx.Amount.Abs())/100, categoryOf(tx), float64(opts.SingleTransactionCents)/100),
		})
	}

	if growth, ok := growthPct(in.PreviousMonth.ExpenseCents, in.CurrentMonth.ExpenseCents); ok && growth >= opts.MonthlyIncreasePct {
		alerts = append(alerts, Alert{
			Kind:        AlertMonthlyIncrease,
			AmountCents: in.CurrentMonth.ExpenseCents,
			Threshold:   opts.MonthlyIncreasePct,
			Message: fmt.Sprintf("monthly spend grew %.1f%% over the previous month (threshold %.1f%%)",
				growth, opts.MonthlyIncreasePct),
		})
	}

	if growth, ok := growthPct(in.PreviousYear.ExpenseCents, in.CurrentYear.ExpenseCents); ok && growth >= opts.YearlyIncreasePct {
		alerts = append(alerts, Alert{
			Kind:        AlertYearlyIncrease,
			AmountCents: in.CurrentYear.ExpenseCents,
			Threshold:   opts.YearlyIncreasePct,
			Message: fmt.Sprintf("yearly spend grew %.1f%% over the previous year (threshold %.1f%%)",
				growth, opts.YearlyIncreasePct),
		})
	}

	alerts = append(alerts, budgetAlerts(in.Budget, opts.BudgetUsagePct)...)
	return alerts
}

// growthPct returns the percentage increase from previous to current.
// The second return is false when previous is 0 and the percentage is
// undefined.
func growthPct(previous, current int64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	return float64(current-previous) / float64(previous) * 100, true
}

// budgetAlerts flags the total and every category whose usage reached
// the threshold. Unconfigured budgets report 0% usage and never fire.
func budgetAlerts(report BudgetReport, thresholdPct float64) []Alert {
	var alerts []Alert
	if report.Total.PercentageUsed >= thresholdPct && report.Total.BudgetCents > 0 {
		alerts = append(alerts, Alert{
			Kind:        AlertBudgetExceeded,
			AmountCents: report.Total.SpentCents,
			Threshold:   thresholdPct,
			Message: fmt.Sprintf("total budget usage at %.1f%% (threshold %.1f%%)",
				report.Total.PercentageUsed, thresholdPct),
		})
	}

	names := make([]string, 0, len(report.Categories))
	for name := range report.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := report.Categories[name]
		if p.BudgetCents == 0 || p.PercentageUsed < thresholdPct {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:        AlertBudgetExceeded,
			AmountCents: p.SpentCents,
			Threshold:   thresholdPct,
			Category:    name,
			Message: fmt.Sprintf("budget usage for %s at %.1f%% (threshold %.1f%%)",
				name, p.PercentageUsed, thresholdPct),
		})
	}
	return alerts
}
