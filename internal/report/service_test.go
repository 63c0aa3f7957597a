package report

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
	"bilancio/internal/log"
)

// fakeLedger is an in-memory Reader/BudgetStore/OwnerDirectory for
// service tests.
type fakeLedger struct {
	txs       []core.Transaction
	budgets   map[int]core.Budget
	owners    map[string]string
	budgetErr error
}

func (f *fakeLedger) Transactions(_ context.Context, year, month int, owner string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, tx := range f.txs {
		if tx.Date.Year() != year {
			continue
		}
		if month != 0 && tx.Date.Month() != month {
			continue
		}
		if owner != "" && tx.Owner != owner {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeLedger) Years(context.Context) ([]int, error) {
	seen := map[int]bool{}
	var years []int
	for _, tx := range f.txs {
		if !seen[tx.Date.Year()] {
			seen[tx.Date.Year()] = true
			years = append(years, tx.Date.Year())
		}
	}
	return years, nil
}

func (f *fakeLedger) Months(_ context.Context, year int, owner string) ([]int, error) {
	seen := map[int]bool{}
	var months []int
	for _, tx := range f.txs {
		if tx.Date.Year() != year {
			continue
		}
		if owner != "" && tx.Owner != owner {
			continue
		}
		if !seen[tx.Date.Month()] {
			seen[tx.Date.Month()] = true
			months = append(months, tx.Date.Month())
		}
	}
	return months, nil
}

func (f *fakeLedger) Budget(_ context.Context, year int) (core.Budget, error) {
	if f.budgetErr != nil {
		return core.Budget{}, f.budgetErr
	}
	return f.budgets[year], nil
}

func (f *fakeLedger) SaveBudget(_ context.Context, b core.Budget) error {
	if f.budgets == nil {
		f.budgets = map[int]core.Budget{}
	}
	f.budgets[b.Year] = b
	return nil
}

func (f *fakeLedger) ResolveOwnerName(_ context.Context, ownerID string) (string, error) {
	return f.owners[ownerID], nil
}

func testTx(year, month, day int, cents int64, category, merchant, owner string) core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(year, month, day),
		Amount:   core.Money{Cents: cents},
		Category: category,
		Merchant: merchant,
		Owner:    owner,
	}
}

func newTestService(f *fakeLedger) *Service {
	return NewService(f, f, f, analytics.DefaultOptions(), log.New(slog.LevelError, "test"))
}

func TestMonthlyMissingPeriod(t *testing.T) {
	f := &fakeLedger{txs: []core.Transaction{
		testTx(2025, 3, 1, -1000, "Food", "", ""),
	}}
	s := newTestService(f)

	_, err := s.Monthly(context.Background(), 2024, 3, "")
	assert.ErrorIs(t, err, ErrNoPeriodData)

	_, err = s.Monthly(context.Background(), 2025, 4, "")
	assert.ErrorIs(t, err, ErrNoPeriodData)

	stats, err := s.Monthly(context.Background(), 2025, 3, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stats.ExpenseCents)
}

func TestUnknownOwnerYieldsEmptyReport(t *testing.T) {
	f := &fakeLedger{txs: []core.Transaction{
		testTx(2025, 3, 1, -1000, "Food", "", "alice"),
	}}
	s := newTestService(f)

	stats, err := s.Monthly(context.Background(), 2025, 3, "nobody")
	require.NoError(t, err, "unknown owner filter is not an error")
	assert.Zero(t, stats.ExpenseCents)
	assert.Zero(t, stats.TransactionCount)
}

func TestOwnerResolution(t *testing.T) {
	f := &fakeLedger{
		txs: []core.Transaction{
			testTx(2025, 3, 1, -1000, "Food", "", "Alice B."),
			testTx(2025, 3, 2, -2000, "Food", "", "Bob C."),
		},
		owners: map[string]string{"alice": "Alice B."},
	}
	s := newTestService(f)

	stats, err := s.Monthly(context.Background(), 2025, 3, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stats.ExpenseCents)
}

func TestBudgetStoreFailureDegrades(t *testing.T) {
	f := &fakeLedger{
		txs:       []core.Transaction{testTx(2025, 3, 1, -25000, "Food", "", "")},
		budgetErr: errors.New("store offline"),
	}
	s := newTestService(f)

	report, err := s.BudgetProgress(context.Background(), 2025, 0, "")
	require.NoError(t, err, "budget failure must not fail the report")
	assert.Zero(t, report.Total.BudgetCents)
	assert.Equal(t, int64(25000), report.Total.SpentCents)
	assert.Zero(t, report.Total.PercentageUsed)
}

func TestBudgetProgressMonthly(t *testing.T) {
	f := &fakeLedger{
		txs: []core.Transaction{
			testTx(2025, 3, 1, -25000, "Food", "", ""),
			testTx(2025, 4, 1, -90000, "Food", "", ""),
		},
		budgets: map[int]core.Budget{
			2025: {Year: 2025, TotalCents: 100000, Categories: map[string]int64{"Food": 20000}},
		},
	}
	s := newTestService(f)

	report, err := s.BudgetProgress(context.Background(), 2025, 3, "")
	require.NoError(t, err)
	food := report.Categories["Food"]
	assert.Equal(t, int64(25000), food.SpentCents)
	assert.InDelta(t, 125.0, food.PercentageUsed, 0.001)
	assert.True(t, food.OverBudget)
}

func TestFullReportIdempotent(t *testing.T) {
	f := &fakeLedger{
		txs: []core.Transaction{
			testTx(2025, 1, 1, 500000, "Salary", "", ""),
			testTx(2025, 1, 5, -40000, "Food", "Esselunga", ""),
			testTx(2025, 2, 7, -30000, "Transport", "Trenitalia", ""),
			testTx(2025, 2, 9, -20000, "Food", "Lidl", ""),
		},
	}
	s := newTestService(f)

	first, err := s.Full(context.Background(), 2025, "")
	require.NoError(t, err)
	second, err := s.Full(context.Background(), 2025, "")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same snapshot must produce identical reports")
	assert.Equal(t, int64(90000), first.Yearly.ExpenseCents)
	assert.NotEmpty(t, first.FlowGraph.Nodes)
	assert.NotEmpty(t, first.Pareto.Categories)
}

// ctxLedger rejects calls made with a canceled context, matching the
// database/sql contract the SQLite repository inherits.
type ctxLedger struct {
	*fakeLedger
}

func (c *ctxLedger) Transactions(ctx context.Context, year, month int, owner string) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fakeLedger.Transactions(ctx, year, month, owner)
}

func (c *ctxLedger) Years(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fakeLedger.Years(ctx)
}

func (c *ctxLedger) Months(ctx context.Context, year int, owner string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fakeLedger.Months(ctx, year, owner)
}

func (c *ctxLedger) Budget(ctx context.Context, year int) (core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, err
	}
	return c.fakeLedger.Budget(ctx, year)
}

func TestFullReportCarriesAlerts(t *testing.T) {
	f := &ctxLedger{fakeLedger: &fakeLedger{txs: []core.Transaction{
		testTx(2025, 1, 3, -200000, "Travel", "Ryanair", ""),
	}}}
	s := NewService(f, f, f, analytics.DefaultOptions(), log.New(slog.LevelError, "test"))

	want, err := s.Alerts(context.Background(), 2025, 1, "")
	require.NoError(t, err)
	require.NotEmpty(t, want, "high-value outflow must alert")

	full, err := s.Full(context.Background(), 2025, "")
	require.NoError(t, err)
	assert.Equal(t, want, full.Alerts, "full report must carry the latest month's alerts")
}

func TestCategoryYearly(t *testing.T) {
	f := &fakeLedger{txs: []core.Transaction{
		testTx(2025, 1, 1, 500000, "Salary", "", ""),
		testTx(2025, 1, 5, -40000, "Food", "Esselunga", ""),
		testTx(2025, 6, 9, -20000, "Food", "Lidl", ""),
		testTx(2025, 6, 12, -30000, "Transport", "Trenitalia", ""),
	}}
	s := newTestService(f)

	_, err := s.CategoryYearly(context.Background(), 1999, "")
	assert.ErrorIs(t, err, ErrNoPeriodData)

	stats, err := s.CategoryYearly(context.Background(), 2025, "")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Food", stats[0].Category)
	assert.Equal(t, int64(60000), stats[0].TotalCents)
	assert.Equal(t, int64(40000), stats[0].MonthlyCents[0])
	assert.Equal(t, int64(20000), stats[0].MonthlyCents[5])
	assert.Equal(t, "Transport", stats[1].Category)
}

func TestAlertsPriorPeriodMissing(t *testing.T) {
	f := &fakeLedger{txs: []core.Transaction{
		testTx(2025, 1, 3, -200000, "Travel", "Ryanair", ""),
	}}
	s := newTestService(f)

	alerts, err := s.Alerts(context.Background(), 2025, 1, "")
	require.NoError(t, err)

	// December of the previous year has no data: growth checks are
	// skipped and only the high-value alert fires.
	require.Len(t, alerts, 1)
	assert.Equal(t, analytics.AlertHighValue, alerts[0].Kind)
}

func TestColorForStable(t *testing.T) {
	labels := []string{"Food", "Transport", "Rent"}
	assert.Equal(t, ColorFor("Food", labels), ColorFor("Food", labels))
	assert.NotEqual(t, ColorFor("Food", labels), ColorFor("Transport", labels))
}
