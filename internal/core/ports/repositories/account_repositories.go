package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a tenant.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)

	// FindAccountByCode retrieves a tenant's account by its numeric code.
	FindAccountByCode(ctx context.Context, tenantID string, code int64) (*domain.Account, error)

	// HasJournalHistory reports whether any journal line references the account.
	HasJournalHistory(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTransactionSupport defines the reads the posting and reversal
// engines perform inside their own transaction. Account state is re-read on
// every resolution; results are never cached across calls.
type AccountTransactionSupport interface {
	// GetAccountInTx retrieves an account through the given transaction handle.
	GetAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// FindAccountByNameInTx retrieves a tenant's account by exact name.
	FindAccountByNameInTx(ctx context.Context, tx pgx.Tx, tenantID string, name string) (*domain.Account, error)

	// FindAccountByCodeInTx retrieves a tenant's account by numeric code.
	FindAccountByCodeInTx(ctx context.Context, tx pgx.Tx, tenantID string, code int64) (*domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
