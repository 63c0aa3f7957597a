// Package storage implements the ledger ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// Interface conformance for the ledger ports.
var (
	_ ledger.Reader         = (*SQLiteRepository)(nil)
	_ ledger.BudgetStore    = (*SQLiteRepository)(nil)
	_ ledger.OwnerDirectory = (*SQLiteRepository)(nil)
	_ ledger.Writer         = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.Writer.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		TxDate:      tx.Date.Format(dateLayout),
		Year:        tx.Date.Year(),
		Month:       tx.Date.Month(),
		AmountCents: tx.Amount.Cents,
		Category:    tx.Category,
		Merchant:    tx.Merchant,
		Account:     tx.Account,
		Tags:        encodeTags(tx.Tags),
		Owner:       tx.Owner,
		Description: tx.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", id,
		"date", tx.Date.Format(dateLayout),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return id, nil
}

// Transactions implements ledger.Reader. Rows whose date does not parse
// are skipped with a warning so one malformed record cannot abort the
// aggregation of the rest.
func (r *SQLiteRepository) Transactions(ctx context.Context, year, month int, owner string) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{Year: year, Month: month, Owner: owner})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		parsed, err := time.Parse(dateLayout, row.TxDate)
		if err != nil {
			slog.WarnContext(ctx, "Skipping transaction with malformed date",
				"id", row.ID, "tx_date", row.TxDate, "error", err)
			continue
		}
		if row.AmountCents == 0 {
			slog.WarnContext(ctx, "Skipping transaction with zero amount", "id", row.ID)
			continue
		}
		txs = append(txs, core.Transaction{
			Date:        core.Date{Time: parsed},
			Amount:      core.Money{Cents: row.AmountCents},
			Category:    row.Category,
			Merchant:    row.Merchant,
			Account:     row.Account,
			Tags:        decodeTags(row.Tags),
			Owner:       row.Owner,
			Description: row.Description,
		})
	}
	return txs, nil
}

// Years implements ledger.Reader.
func (r *SQLiteRepository) Years(ctx context.Context) ([]int, error) {
	years, err := r.queries.ListYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return years, nil
}

// Months implements ledger.Reader.
func (r *SQLiteRepository) Months(ctx context.Context, year int, owner string) ([]int, error) {
	months, err := r.queries.ListMonths(ctx, ListMonthsParams{Year: year, Owner: owner})
	if err != nil {
		return nil, fmt.Errorf("list months: %w", err)
	}
	return months, nil
}

// Budget implements ledger.BudgetStore. A year without a configured
// budget yields a zero budget, not an error.
func (r *SQLiteRepository) Budget(ctx context.Context, year int) (core.Budget, error) {
	budget := core.Budget{Year: year, Categories: map[string]int64{}}

	total, err := r.queries.GetBudgetTotal(ctx, year)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return budget, nil
	case err != nil:
		return core.Budget{}, fmt.Errorf("get budget total: %w", err)
	}
	budget.TotalCents = total

	categories, err := r.queries.ListBudgetCategories(ctx, year)
	if err != nil {
		return core.Budget{}, fmt.Errorf("list budget categories: %w", err)
	}
	for _, c := range categories {
		budget.Categories[c.Category] = c.AmountCents
	}
	return budget, nil
}

// SaveBudget implements ledger.BudgetStore. Category rows are replaced
// wholesale inside one transaction.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	q := r.queries.WithTx(dbTx)
	if err := q.UpsertBudget(ctx, b.Year, b.TotalCents); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	if err := q.DeleteBudgetCategories(ctx, b.Year); err != nil {
		return fmt.Errorf("delete budget categories: %w", err)
	}
	for category, cents := range b.Categories {
		if err := q.InsertBudgetCategory(ctx, b.Year, category, cents); err != nil {
			return fmt.Errorf("insert budget category %s: %w", category, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved", "year", b.Year, "categories", len(b.Categories))
	return nil
}

// ResolveOwnerName implements ledger.OwnerDirectory. Unknown owners
// resolve to the identifier itself.
func (r *SQLiteRepository) ResolveOwnerName(ctx context.Context, ownerID string) (string, error) {
	name, err := r.queries.GetOwnerName(ctx, ownerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ownerID, nil
	case err != nil:
		return "", fmt.Errorf("get owner name: %w", err)
	}
	return name, nil
}

// RegisterOwner stores or updates an owner's display name.
func (r *SQLiteRepository) RegisterOwner(ctx context.Context, ownerID, displayName string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(displayName) == "" {
		return errors.New("owner id and display name are required")
	}
	if err := r.queries.UpsertOwner(ctx, ownerID, displayName); err != nil {
		return fmt.Errorf("upsert owner: %w", err)
	}
	return nil
}

func encodeTags(tags []string) string {
	return strings.Join(tags, ",")
}

func decodeTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
