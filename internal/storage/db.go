package storage

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries wraps the hand-written SQL against the ledger schema.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TransactionRow mirrors one transactions table row. Dates are kept as
// raw text so unparseable rows can be skipped instead of failing the
// whole read.
type TransactionRow struct {
	ID          int64
	TxDate      string
	AmountCents int64
	Category    string
	Merchant    string
	Account     string
	Tags        string
	Owner       string
	Description string
}

type CreateTransactionParams struct {
	TxDate      string
	Year        int
	Month       int
	AmountCents int64
	Category    string
	Merchant    string
	Account     string
	Tags        string
	Owner       string
	Description string
}

func (q *Queries) CreateTransaction(ctx context.Context, p CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (tx_date, year, month, amount_cents, category, merchant, account, tags, owner, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.TxDate, p.Year, p.Month, p.AmountCents, p.Category, p.Merchant, p.Account, p.Tags, p.Owner, p.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type ListTransactionsParams struct {
	Year  int
	Month int    // 0 selects the whole year
	Owner string // "" selects all owners
}

func (q *Queries) ListTransactions(ctx context.Context, p ListTransactionsParams) ([]TransactionRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, tx_date, amount_cents, category, merchant, account, tags, owner, description
		FROM transactions WHERE year = ?`)
	args := []any{p.Year}
	if p.Month != 0 {
		sb.WriteString(" AND month = ?")
		args = append(args, p.Month)
	}
	if p.Owner != "" {
		sb.WriteString(" AND owner = ?")
		args = append(args, p.Owner)
	}
	sb.WriteString(" ORDER BY tx_date, id")

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var r TransactionRow
		if err := rows.Scan(&r.ID, &r.TxDate, &r.AmountCents, &r.Category, &r.Merchant, &r.Account, &r.Tags, &r.Owner, &r.Description); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) ListYears(ctx context.Context) ([]int, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT DISTINCT year FROM transactions ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

type ListMonthsParams struct {
	Year  int
	Owner string
}

func (q *Queries) ListMonths(ctx context.Context, p ListMonthsParams) ([]int, error) {
	query := `SELECT DISTINCT month FROM transactions WHERE year = ?`
	args := []any{p.Year}
	if p.Owner != "" {
		query += " AND owner = ?"
		args = append(args, p.Owner)
	}
	query += " ORDER BY month"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []int
	for rows.Next() {
		var m int
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func (q *Queries) GetBudgetTotal(ctx context.Context, year int) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, `SELECT total_cents FROM budgets WHERE year = ?`, year).Scan(&total)
	return total, err
}

type BudgetCategoryRow struct {
	Category    string
	AmountCents int64
}

func (q *Queries) ListBudgetCategories(ctx context.Context, year int) ([]BudgetCategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT category, amount_cents FROM budget_categories WHERE year = ? ORDER BY category`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BudgetCategoryRow
	for rows.Next() {
		var r BudgetCategoryRow
		if err := rows.Scan(&r.Category, &r.AmountCents); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) UpsertBudget(ctx context.Context, year int, totalCents int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO budgets (year, total_cents, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (year) DO UPDATE SET total_cents = excluded.total_cents, updated_at = CURRENT_TIMESTAMP`,
		year, totalCents)
	return err
}

func (q *Queries) DeleteBudgetCategories(ctx context.Context, year int) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM budget_categories WHERE year = ?`, year)
	return err
}

func (q *Queries) InsertBudgetCategory(ctx context.Context, year int, category string, amountCents int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO budget_categories (year, category, amount_cents) VALUES (?, ?, ?)`,
		year, category, amountCents)
	return err
}

func (q *Queries) GetOwnerName(ctx context.Context, ownerID string) (string, error) {
	var name string
	err := q.db.QueryRowContext(ctx, `SELECT display_name FROM owners WHERE id = ?`, ownerID).Scan(&name)
	return name, err
}

func (q *Queries) UpsertOwner(ctx context.Context, ownerID, displayName string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO owners (id, display_name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name`,
		ownerID, displayName)
	return err
}
