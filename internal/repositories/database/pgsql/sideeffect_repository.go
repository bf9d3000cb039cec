package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

const bankAccountColumns = `bank_account_id, tenant_id, name, account_id, balance,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxBankAccountRepository struct {
	BaseRepository
}

// newPgxBankAccountRepository creates a new repository for bank accounts.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

func scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var model models.BankAccount
	err := row.Scan(
		&model.BankAccountID,
		&model.TenantID,
		&model.Name,
		&model.AccountID,
		&model.Balance,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan bank account row", err)
	}
	account := mapping.ToDomainBankAccount(model)
	return &account, nil
}

// SaveBankAccount persists a new bank account.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	model := mapping.ToModelBankAccount(account)
	query := `
		INSERT INTO bank_accounts (bank_account_id, tenant_id, name, account_id, balance,
		                           created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.BankAccountID,
		model.TenantID,
		model.Name,
		model.AccountID,
		model.Balance,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert bank account "+model.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	return scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
}

// FindBankAccountByIDInTx retrieves a bank account through the caller's
// transaction.
func (r *PgxBankAccountRepository) FindBankAccountByIDInTx(ctx context.Context, tx pgx.Tx, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	return scanBankAccount(tx.QueryRow(ctx, query, bankAccountID))
}

// FindBankAccountByGLAccountInTx locates the bank account mirroring a GL
// account, or nil when the account has no bank mirror.
func (r *PgxBankAccountRepository) FindBankAccountByGLAccountInTx(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE tenant_id = $1 AND account_id = $2;`
	account, err := scanBankAccount(tx.QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

// ApplyBalanceDeltaInTx adds delta (which may be negative) to the bank
// account's running balance.
func (r *PgxBankAccountRepository) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, tenantID string, bankAccountID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE bank_accounts
		SET balance = balance + $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND bank_account_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, bankAccountID, delta, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply balance delta to bank account "+bankAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("bank account " + bankAccountID + " not found for balance update")
	}
	return nil
}

const counterpartyColumns = `counterparty_id, tenant_id, kind, name, total_billed, total_paid,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxCounterpartyRepository struct {
	BaseRepository
}

// newPgxCounterpartyRepository creates a new repository for counterparties.
func newPgxCounterpartyRepository(pool *pgxpool.Pool) portsrepo.CounterpartyRepositoryFacade {
	return &PgxCounterpartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CounterpartyRepositoryFacade = (*PgxCounterpartyRepository)(nil)

// SaveCounterparty persists a new counterparty.
func (r *PgxCounterpartyRepository) SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error {
	model := mapping.ToModelCounterparty(counterparty)
	query := `
		INSERT INTO counterparties (counterparty_id, tenant_id, kind, name, total_billed, total_paid,
		                            created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.CounterpartyID,
		model.TenantID,
		model.Kind,
		model.Name,
		model.TotalBilled,
		model.TotalPaid,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert counterparty "+model.CounterpartyID, err)
	}
	return nil
}

// FindCounterpartyByID retrieves a counterparty by its ID.
func (r *PgxCounterpartyRepository) FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error) {
	query := `SELECT ` + counterpartyColumns + ` FROM counterparties WHERE counterparty_id = $1;`
	return scanCounterparty(r.Pool.QueryRow(ctx, query, counterpartyID), counterpartyID)
}

// FindCounterpartyByIDInTx retrieves a counterparty through the caller's
// transaction.
func (r *PgxCounterpartyRepository) FindCounterpartyByIDInTx(ctx context.Context, tx pgx.Tx, counterpartyID string) (*domain.Counterparty, error) {
	query := `SELECT ` + counterpartyColumns + ` FROM counterparties WHERE counterparty_id = $1;`
	return scanCounterparty(tx.QueryRow(ctx, query, counterpartyID), counterpartyID)
}

func scanCounterparty(row pgx.Row, counterpartyID string) (*domain.Counterparty, error) {
	var model models.Counterparty
	err := row.Scan(
		&model.CounterpartyID,
		&model.TenantID,
		&model.Kind,
		&model.Name,
		&model.TotalBilled,
		&model.TotalPaid,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find counterparty by ID "+counterpartyID, err)
	}
	counterparty := mapping.ToDomainCounterparty(model)
	return &counterparty, nil
}

// ApplyTotalsDeltaInTx adjusts the running billed/paid totals. Deltas may be
// negative when a reversal rolls totals back.
func (r *PgxCounterpartyRepository) ApplyTotalsDeltaInTx(ctx context.Context, tx pgx.Tx, tenantID string, counterpartyID string, billedDelta, paidDelta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE counterparties
		SET total_billed = total_billed + $3,
		    total_paid = total_paid + $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE tenant_id = $1 AND counterparty_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, counterpartyID, billedDelta, paidDelta, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply totals delta to counterparty "+counterpartyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("counterparty " + counterpartyID + " not found for totals update")
	}
	return nil
}

const movementColumns = `movement_id, tenant_id, item_id, quantity, direction, unit_cost,
	       reference_type, reference_id, entry_id, movement_date, reversed,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for stock movements.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

// InsertMovementInTx records one stock movement.
func (r *PgxInventoryRepository) InsertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.InventoryMovement) error {
	model := mapping.ToModelInventoryMovement(movement)
	query := `
		INSERT INTO inventory_movements (movement_id, tenant_id, item_id, quantity, direction, unit_cost,
		                                 reference_type, reference_id, entry_id, movement_date, reversed,
		                                 created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		model.MovementID,
		model.TenantID,
		model.ItemID,
		model.Quantity,
		model.Direction,
		model.UnitCost,
		model.ReferenceType,
		model.ReferenceID,
		model.EntryID,
		model.MovementDate,
		model.Reversed,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert inventory movement "+model.MovementID, err)
	}
	return nil
}

// ListMovementsByEntryInTx returns the movements recorded for an entry.
func (r *PgxInventoryRepository) ListMovementsByEntryInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE entry_id = $1 ORDER BY created_at;`
	rows, err := tx.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query movements for entry "+entryID, err)
	}
	defer rows.Close()

	movements := []domain.InventoryMovement{}
	for rows.Next() {
		var model models.InventoryMovement
		err := rows.Scan(
			&model.MovementID,
			&model.TenantID,
			&model.ItemID,
			&model.Quantity,
			&model.Direction,
			&model.UnitCost,
			&model.ReferenceType,
			&model.ReferenceID,
			&model.EntryID,
			&model.MovementDate,
			&model.Reversed,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan movement row for entry "+entryID, err)
		}
		movements = append(movements, mapping.ToDomainInventoryMovement(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating movement rows for entry "+entryID, err)
	}
	return movements, nil
}

// MarkMovementReversedInTx flags a movement as reversed.
func (r *PgxInventoryRepository) MarkMovementReversedInTx(ctx context.Context, tx pgx.Tx, movementID string, userID string, now time.Time) error {
	query := `
		UPDATE inventory_movements
		SET reversed = TRUE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE movement_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, movementID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark movement "+movementID+" reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("movement " + movementID + " not found for reversal update")
	}
	return nil
}
