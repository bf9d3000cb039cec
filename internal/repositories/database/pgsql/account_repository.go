package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

const accountColumns = `account_id, tenant_id, code, name, account_type, parent_account_id, description,
	       is_active, is_system, bank_account_id,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var model models.Account
	err := row.Scan(
		&model.AccountID,
		&model.TenantID,
		&model.Code,
		&model.Name,
		&model.AccountType,
		&model.ParentAccountID,
		&model.Description,
		&model.IsActive,
		&model.IsSystem,
		&model.BankAccountID,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan account row", err)
	}
	account := mapping.ToDomainAccount(model)
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return scanAccount(r.Pool.QueryRow(ctx, query, accountID))
}

// ListAccounts retrieves a paginated list of accounts for a tenant, ordered
// by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for tenant "+tenantID, err)
	}
	return accounts, nil
}

// FindAccountByCode retrieves a tenant's account by its numeric code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND code = $2;`
	return scanAccount(r.Pool.QueryRow(ctx, query, tenantID, code))
}

// HasJournalHistory reports whether any journal line references the account.
func (r *PgxAccountRepository) HasJournalHistory(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check journal history for account "+accountID, err)
	}
	return exists, nil
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	model := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_id, tenant_id, code, name, account_type, parent_account_id, description,
		                      is_active, is_system, bank_account_id,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.AccountID,
		model.TenantID,
		model.Code,
		model.Name,
		model.AccountType,
		model.ParentAccountID,
		model.Description,
		model.IsActive,
		model.IsSystem,
		model.BankAccountID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert account "+model.AccountID, err)
	}
	return nil
}

// UpdateAccount updates an existing account's mutable details.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	model := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2,
		    description = $3,
		    is_active = $4,
		    bank_account_id = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.AccountID,
		model.Name,
		model.Description,
		model.IsActive,
		model.BankAccountID,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account "+model.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + model.AccountID + " not found for update")
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for deactivation")
	}
	return nil
}

// GetAccountInTx retrieves an account through the given transaction handle.
func (r *PgxAccountRepository) GetAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return scanAccount(tx.QueryRow(ctx, query, accountID))
}

// FindAccountByNameInTx retrieves a tenant's account by exact name.
func (r *PgxAccountRepository) FindAccountByNameInTx(ctx context.Context, tx pgx.Tx, tenantID string, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND name = $2;`
	return scanAccount(tx.QueryRow(ctx, query, tenantID, name))
}

// FindAccountByCodeInTx retrieves a tenant's account by numeric code.
func (r *PgxAccountRepository) FindAccountByCodeInTx(ctx context.Context, tx pgx.Tx, tenantID string, code int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND code = $2;`
	return scanAccount(tx.QueryRow(ctx, query, tenantID, code))
}
