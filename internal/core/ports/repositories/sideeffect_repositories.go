package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BankAccountRepositoryFacade defines bank-balance storage. Balance deltas
// are applied inside the same transaction as the ledger write.
type BankAccountRepositoryFacade interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// FindBankAccountByID retrieves a bank account.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// FindBankAccountByIDInTx retrieves a bank account through the caller's
	// transaction, so the read sees that transaction's writes.
	FindBankAccountByIDInTx(ctx context.Context, tx pgx.Tx, bankAccountID string) (*domain.BankAccount, error)

	// FindBankAccountByGLAccountInTx locates the bank account mirroring a GL
	// account, or nil when the account has no bank mirror.
	FindBankAccountByGLAccountInTx(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.BankAccount, error)

	// ApplyBalanceDeltaInTx adds delta (which may be negative) to the bank
	// account's running balance.
	ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, tenantID string, bankAccountID string, delta decimal.Decimal, userID string, now time.Time) error
}

// CounterpartyRepositoryFacade defines customer/vendor storage with the
// running totals the payment adapters maintain.
type CounterpartyRepositoryFacade interface {
	// SaveCounterparty persists a new counterparty.
	SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error

	// FindCounterpartyByID retrieves a counterparty.
	FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error)

	// FindCounterpartyByIDInTx retrieves a counterparty through the caller's
	// transaction.
	FindCounterpartyByIDInTx(ctx context.Context, tx pgx.Tx, counterpartyID string) (*domain.Counterparty, error)

	// ApplyTotalsDeltaInTx adjusts the running billed/paid totals.
	ApplyTotalsDeltaInTx(ctx context.Context, tx pgx.Tx, tenantID string, counterpartyID string, billedDelta, paidDelta decimal.Decimal, userID string, now time.Time) error
}

// InventoryRepositoryFacade defines stock-movement storage. Reversals append
// opposite movements; history is never deleted.
type InventoryRepositoryFacade interface {
	// InsertMovementInTx records one stock movement.
	InsertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.InventoryMovement) error

	// ListMovementsByEntryInTx returns the movements recorded for an entry.
	ListMovementsByEntryInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.InventoryMovement, error)

	// MarkMovementReversedInTx flags a movement as reversed.
	MarkMovementReversedInTx(ctx context.Context, tx pgx.Tx, movementID string, userID string, now time.Time) error
}
