// Package ledger defines the ports the analytics engine consumes its
// data through. Implementations live in internal/storage.
package ledger

import (
	"context"

	"bilancio/internal/core"
)

// Ports for outbound adapters.
type (
	// Reader supplies ordered transaction records for a period.
	Reader interface {
		// Transactions returns all records for the given year, ordered by
		// date. A month of 0 selects the whole year; an empty owner
		// selects all owners.
		Transactions(ctx context.Context, year, month int, owner string) ([]core.Transaction, error)

		// Years returns the years for which ledger data exists, ascending.
		Years(ctx context.Context) ([]int, error)

		// Months returns the months (1-12) of a year that hold data for
		// the given owner filter, ascending.
		Months(ctx context.Context, year int, owner string) ([]int, error)
	}

	// BudgetStore reads and writes configured budgets.
	BudgetStore interface {
		// Budget returns the budget for a year. A year without a
		// configured budget yields a zero-valued Budget, not an error.
		Budget(ctx context.Context, year int) (core.Budget, error)

		SaveBudget(ctx context.Context, b core.Budget) error
	}

	// OwnerDirectory resolves owner identifiers to display names, used
	// only to match Transaction.Owner against a filter value.
	OwnerDirectory interface {
		ResolveOwnerName(ctx context.Context, ownerID string) (string, error)
	}

	// Writer appends normalized records to the ledger. Used by the
	// import path, never by the engine.
	Writer interface {
		Append(ctx context.Context, tx core.Transaction) (int64, error)
	}
)
