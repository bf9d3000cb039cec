package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/jackc/pgx/v5"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, tenantID string, accountID string, requestingUserID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts in a tenant.
	ListAccounts(ctx context.Context, tenantID string, requestingUserID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data
type AccountWriterSvc interface {
	// CreateAccount persists a new account after code-range and duplicate checks.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates account details (admin only).
	UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive. Refused for system accounts
	// and for accounts with journal history.
	DeactivateAccount(ctx context.Context, tenantID string, accountID string, requestingUserID string) error
}

// AccountResolverSvc defines the in-transaction resolution the posting and
// reversal engines use. Every call re-reads account state through the
// transaction handle; results are never cached.
type AccountResolverSvc interface {
	// ResolveAccount returns the account iff it exists, belongs to the tenant
	// and is active. ErrNotFound, ErrForbidden and ErrPrecondition otherwise.
	ResolveAccount(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.Account, error)

	// FindSystemAccount locates a well-known account by trying the name
	// candidates in order, then falling back to the numeric code.
	FindSystemAccount(ctx context.Context, tx pgx.Tx, tenantID string, names []string, code int64) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountResolverSvc
}
