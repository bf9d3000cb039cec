package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management. Every
// logical ledger operation runs inside exactly one transaction obtained here;
// the pgx.Tx handle is threaded explicitly through all reads and writes that
// belong to the operation.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error

	// WithTx begins a transaction, runs fn, commits on nil error and rolls
	// back otherwise.
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
