// Package report orchestrates the ledger ports and the analytics engine
// into the query surface consumed by the reporting layer. Every method
// recomputes its artifact from the current ledger snapshot.
package report

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/log"
)

// ErrNoPeriodData signals that the requested year or month has no
// underlying ledger data at all. Callers must be able to distinguish
// "no data" from "zero spend", so this is an explicit failure, not an
// empty report.
var ErrNoPeriodData = errors.New("no ledger data for requested period")

// Service answers report queries. It is stateless across calls and safe
// for concurrent use as long as the ledger ports are.
type Service struct {
	reader  ledger.Reader
	budgets ledger.BudgetStore
	owners  ledger.OwnerDirectory
	rules   []analytics.MerchantRule
	opts    analytics.Options
	logger  *log.Logger
}

func NewService(reader ledger.Reader, budgets ledger.BudgetStore, owners ledger.OwnerDirectory, opts analytics.Options, logger *log.Logger) *Service {
	return &Service{
		reader:  reader,
		budgets: budgets,
		owners:  owners,
		rules:   analytics.DefaultMerchantRules,
		opts:    opts,
		logger:  logger.WithComponent(log.ComponentReport),
	}
}

// Years lists the years with ledger data.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	years, err := s.reader.Years(ctx)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return years, nil
}

// Months lists the months of a year with ledger data for the owner.
func (s *Service) Months(ctx context.Context, year int, owner string) ([]int, error) {
	months, err := s.reader.Months(ctx, year, owner)
	if err != nil {
		return nil, fmt.Errorf("list months: %w", err)
	}
	return months, nil
}

// resolveOwner maps an owner identifier onto the display name ledger
// rows are tagged with. Unknown identifiers pass through unchanged: a
// filter matching no records yields an empty report, not an error.
func (s *Service) resolveOwner(ctx context.Context, owner string) string {
	if owner == "" || s.owners == nil {
		return owner
	}
	name, err := s.owners.ResolveOwnerName(ctx, owner)
	if err != nil || name == "" {
		return owner
	}
	return name
}

// ensurePeriod escalates ErrNoPeriodData when the year (or year+month)
// holds no ledger rows at all. The check runs without the owner filter:
// an owner filter matching nothing still yields an empty-but-valid
// report downstream.
func (s *Service) ensurePeriod(ctx context.Context, year, month int) error {
	years, err := s.reader.Years(ctx)
	if err != nil {
		return fmt.Errorf("list years: %w", err)
	}
	yearPresent := false
	for _, y := range years {
		if y == year {
			yearPresent = true
			break
		}
	}
	if !yearPresent {
		return fmt.Errorf("year %d: %w", year, ErrNoPeriodData)
	}
	if month == 0 {
		return nil
	}
	months, err := s.reader.Months(ctx, year, "")
	if err != nil {
		return fmt.Errorf("list months: %w", err)
	}
	for _, m := range months {
		if m == month {
			return nil
		}
	}
	return fmt.Errorf("month %d-%02d: %w", year, month, ErrNoPeriodData)
}

// Monthly returns the rollup for one month.
func (s *Service) Monthly(ctx context.Context, year, month int, owner string) (analytics.MonthlyStats, error) {
	if err := s.ensurePeriod(ctx, year, month); err != nil {
		return analytics.MonthlyStats{}, err
	}
	txs, err := s.reader.Transactions(ctx, year, month, s.resolveOwner(ctx, owner))
	if err != nil {
		return analytics.MonthlyStats{}, fmt.Errorf("read transactions: %w", err)
	}
	return analytics.AggregateMonth(txs, year, month, ""), nil
}

// Yearly returns the rollup for a whole year.
func (s *Service) Yearly(ctx context.Context, year int, owner string) (analytics.YearlyStats, error) {
	if err := s.ensurePeriod(ctx, year, 0); err != nil {
		return analytics.YearlyStats{}, err
	}
	txs, err := s.reader.Transactions(ctx, year, 0, s.resolveOwner(ctx, owner))
	if err != nil {
		return analytics.YearlyStats{}, fmt.Errorf("read transactions: %w", err)
	}
	return analytics.AggregateYear(txs, year, ""), nil
}

// CategoryYearly returns every category's yearly spend with its
// per-month series.
func (s *Service) CategoryYearly(ctx context.Context, year int, owner string) ([]analytics.CategoryYearlyStat, error) {
	if err := s.ensurePeriod(ctx, year, 0); err != nil {
		return nil, err
	}
	txs, err := s.reader.Transactions(ctx, year, 0, s.resolveOwner(ctx, owner))
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return analytics.AggregateCategoryYear(txs, ""), nil
}

// budgetFor loads the year's budget, degrading to a zero budget with a
// warning when the store is unavailable so the rest of the report still
// renders.
func (s *Service) budgetFor(ctx context.Context, year int) core.Budget {
	b, err := s.budgets.Budget(ctx, year)
	if err != nil {
		s.logger.WarnContext(ctx, "Budget store unavailable, reporting zero budgets",
			log.FieldYear, year, log.FieldError, err)
		return core.Budget{Year: year}
	}
	return b
}

// BudgetProgress compares the period's spend against the year's
// configured budget. With month 0 the yearly spend is compared;
// otherwise that month's spend is.
func (s *Service) BudgetProgress(ctx context.Context, year, month int, owner string) (analytics.BudgetReport, error) {
	budget := s.budgetFor(ctx, year)

	if month == 0 {
		stats, err := s.Yearly(ctx, year, owner)
		if err != nil {
			return analytics.BudgetReport{}, err
		}
		return analytics.TrackBudget(budget, stats.ExpenseCents, stats.Categories), nil
	}

	stats, err := s.Monthly(ctx, year, month, owner)
	if err != nil {
		return analytics.BudgetReport{}, err
	}
	budget.Month = month
	return analytics.TrackBudget(budget, stats.ExpenseCents, stats.Categories), nil
}

// SaveBudget validates and stores a budget configuration.
func (s *Service) SaveBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}
	if err := s.budgets.SaveBudget(ctx, b); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	s.logger.InfoContext(ctx, "Budget saved", log.FieldYear, b.Year)
	return nil
}

// periodTransactions loads the records backing most analytics views.
func (s *Service) periodTransactions(ctx context.Context, year, month int, owner string) ([]core.Transaction, error) {
	if err := s.ensurePeriod(ctx, year, month); err != nil {
		return nil, err
	}
	txs, err := s.reader.Transactions(ctx, year, month, s.resolveOwner(ctx, owner))
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return txs, nil
}

// FlowGraph builds the value-flow graph for a period.
func (s *Service) FlowGraph(ctx context.Context, year, month int, owner string) (analytics.FlowGraph, error) {
	txs, err := s.periodTransactions(ctx, year, month, owner)
	if err != nil {
		return analytics.FlowGraph{}, err
	}
	return analytics.BuildFlowGraph(txs, s.rules, s.opts), nil
}

// Pareto ranks the period's expense categories by cumulative share.
func (s *Service) Pareto(ctx context.Context, year, month int, owner string) (analytics.ParetoResult, error) {
	txs, err := s.periodTransactions(ctx, year, month, owner)
	if err != nil {
		return analytics.ParetoResult{}, err
	}
	stats := analytics.AggregateMonth(txs, year, month, "")
	return analytics.Pareto(stats.Categories, s.opts.ParetoLimit), nil
}

// Quadrant classifies the period's merchants by frequency and average.
func (s *Service) Quadrant(ctx context.Context, year, month int, owner string) ([]analytics.QuadrantPoint, error) {
	txs, err := s.periodTransactions(ctx, year, month, owner)
	if err != nil {
		return nil, err
	}
	return analytics.Quadrant(txs, s.rules, s.opts), nil
}

// ThemeRiver buckets a year's top category flows by month.
func (s *Service) ThemeRiver(ctx context.Context, year int, owner string) ([]analytics.ThemeRiverPoint, error) {
	txs, err := s.periodTransactions(ctx, year, 0, owner)
	if err != nil {
		return nil, err
	}
	return analytics.ThemeRiver(txs, s.opts.ThemeRiverCategories), nil
}

// Funnel partitions the period's outflows into amount tiers.
func (s *Service) Funnel(ctx context.Context, year, month int, owner string) ([]analytics.FunnelBucket, error) {
	txs, err := s.periodTransactions(ctx, year, month, owner)
	if err != nil {
		return nil, err
	}
	return analytics.Funnel(txs), nil
}

// WordWeights returns merchant word-cloud weights for a period.
func (s *Service) WordWeights(ctx context.Context, year, month int, owner string) ([]analytics.WordWeight, error) {
	txs, err := s.periodTransactions(ctx, year, month, owner)
	if err != nil {
		return nil, err
	}
	return analytics.WordWeights(txs, s.rules, s.opts), nil
}

// BoxPlots returns quartile statistics of the period's top categories.
func (s *Service) BoxPlots(ctx context.Context, year, month int, owner string) ([]analytics.BoxPlotStat, error) {
	txs, err := s.periodTransactions(ctx, year, month, owner)
	if err != nil {
		return nil, err
	}
	return analytics.BoxPlots(txs, s.opts.BoxPlotCategories), nil
}

// Alerts runs the spending-alert analyzer for one month. Prior periods
// without data contribute zero totals, which skips the growth checks.
func (s *Service) Alerts(ctx context.Context, year, month int, owner string) ([]analytics.Alert, error) {
	current, err := s.Monthly(ctx, year, month, owner)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevYear, prevMonth = year-1, 12
	}

	in := analytics.AlertInput{
		CurrentMonth:  current,
		PreviousMonth: s.monthlyOrZero(ctx, prevYear, prevMonth, owner),
		CurrentYear:   s.yearlyOrZero(ctx, year, owner),
		PreviousYear:  s.yearlyOrZero(ctx, year-1, owner),
	}

	progress, err := s.BudgetProgress(ctx, year, month, owner)
	if err != nil {
		s.logger.WarnContext(ctx, "Budget progress unavailable, alerting without budget checks",
			log.FieldYear, year, log.FieldError, err)
	} else {
		in.Budget = progress
	}

	return analytics.DetectAlerts(in, s.opts), nil
}

func (s *Service) monthlyOrZero(ctx context.Context, year, month int, owner string) analytics.MonthlyStats {
	stats, err := s.Monthly(ctx, year, month, owner)
	if err != nil {
		return analytics.MonthlyStats{Year: year, Month: month}
	}
	return stats
}

func (s *Service) yearlyOrZero(ctx context.Context, year int, owner string) analytics.YearlyStats {
	stats, err := s.Yearly(ctx, year, owner)
	if err != nil {
		return analytics.YearlyStats{Year: year}
	}
	return stats
}

// FullReport bundles every artifact for one year.
type FullReport struct {
	Yearly     analytics.YearlyStats       `json:"yearly"`
	Budget     analytics.BudgetReport      `json:"budget"`
	FlowGraph  analytics.FlowGraph         `json:"flow_graph"`
	Pareto     analytics.ParetoResult      `json:"pareto"`
	Quadrant   []analytics.QuadrantPoint   `json:"quadrant"`
	ThemeRiver []analytics.ThemeRiverPoint `json:"theme_river"`
	Funnel     []analytics.FunnelBucket    `json:"funnel"`
	WordCloud  []analytics.WordWeight      `json:"word_cloud"`
	BoxPlots   []analytics.BoxPlotStat     `json:"box_plots"`
	Alerts     []analytics.Alert           `json:"alerts"`
}

// Full computes every artifact of a year concurrently. The ledger is
// read once; each artifact is then a pure computation over that
// snapshot.
func (s *Service) Full(ctx context.Context, year int, owner string) (FullReport, error) {
	txs, err := s.periodTransactions(ctx, year, 0, owner)
	if err != nil {
		return FullReport{}, err
	}

	// The group context only governs the goroutines below; the caller's
	// context stays live for the alert lookup after Wait.
	var report FullReport
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.Yearly = analytics.AggregateYear(txs, year, "")
		report.Budget = analytics.TrackBudget(s.budgetFor(gctx, year), report.Yearly.ExpenseCents, report.Yearly.Categories)
		return nil
	})
	g.Go(func() error {
		report.FlowGraph = analytics.BuildFlowGraph(txs, s.rules, s.opts)
		return nil
	})
	g.Go(func() error {
		stats := analytics.AggregateYear(txs, year, "")
		report.Pareto = analytics.Pareto(stats.Categories, s.opts.ParetoLimit)
		report.BoxPlots = analytics.BoxPlots(stats.Expenses, s.opts.BoxPlotCategories)
		return nil
	})
	g.Go(func() error {
		report.Quadrant = analytics.Quadrant(txs, s.rules, s.opts)
		report.ThemeRiver = analytics.ThemeRiver(txs, s.opts.ThemeRiverCategories)
		return nil
	})
	g.Go(func() error {
		report.Funnel = analytics.Funnel(txs)
		report.WordCloud = analytics.WordWeights(txs, s.rules, s.opts)
		return nil
	})

	if err := g.Wait(); err != nil {
		return FullReport{}, err
	}

	// Alerts need the latest month with data.
	months, err := s.reader.Months(ctx, year, "")
	if err != nil {
		s.logger.WarnContext(ctx, "Skipping alerts in full report",
			log.FieldYear, year, log.FieldError, err)
		return report, nil
	}
	if len(months) > 0 {
		alerts, err := s.Alerts(ctx, year, months[len(months)-1], owner)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping alerts in full report",
				log.FieldYear, year, log.FieldError, err)
		} else {
			report.Alerts = alerts
		}
	}

	return report, nil
}
