package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AdvanceReader defines read operations for salary advances.
type AdvanceReader interface {
	// FindAdvanceByID retrieves an advance by identifier.
	FindAdvanceByID(ctx context.Context, advanceID string) (*domain.Advance, error)

	// ListAdvancesByTenant retrieves all advances for a tenant, optionally
	// filtered by employee.
	ListAdvancesByTenant(ctx context.Context, tenantID string, employeeID string) ([]domain.Advance, error)
}

// AdvanceWriter defines write operations for salary advances. Advances are
// created alongside their disbursement entry, so the insert takes the same
// transaction handle.
type AdvanceWriter interface {
	// SaveAdvanceInTx persists a new advance inside the caller's transaction.
	SaveAdvanceInTx(ctx context.Context, tx pgx.Tx, advance domain.Advance) error
}

// AdvanceTransactionSupport defines the allocation-ledger operations that run
// inside one payroll transaction. Advances are locked for update so
// concurrent payroll runs touching the same advance serialize.
type AdvanceTransactionSupport interface {
	// ListOpenAdvancesForUpdateInTx returns the employee's advances with
	// status PENDING or PARTIAL, oldest deduction date first, row-locked.
	ListOpenAdvancesForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string, employeeID string) ([]domain.Advance, error)

	// GetAdvanceForUpdateInTx retrieves one advance with a row lock, or nil
	// when it does not exist.
	GetAdvanceForUpdateInTx(ctx context.Context, tx pgx.Tx, advanceID string) (*domain.Advance, error)

	// UpdateAdvanceInTx writes back an advance's balance, months counter and status.
	UpdateAdvanceInTx(ctx context.Context, tx pgx.Tx, advance domain.Advance) error

	// InsertDeductionInTx appends one immutable allocation row.
	InsertDeductionInTx(ctx context.Context, tx pgx.Tx, deduction domain.AdvanceDeduction) error

	// ListDeductionsByRunInTx returns all allocation rows of a payroll run.
	ListDeductionsByRunInTx(ctx context.Context, tx pgx.Tx, tenantID string, payrollRunID string) ([]domain.AdvanceDeduction, error)

	// MarkDeductionReversedInTx flags one allocation row as reversed.
	MarkDeductionReversedInTx(ctx context.Context, tx pgx.Tx, deductionID string, userID string, now time.Time) error
}

// AdvanceRepositoryFacade combines all advance-related repository interfaces.
type AdvanceRepositoryFacade interface {
	AdvanceReader
	AdvanceWriter
	AdvanceTransactionSupport
}

// PayrollRepositoryFacade defines payroll-run storage used by the advance
// allocation ledger.
type PayrollRepositoryFacade interface {
	// SavePayrollRun persists a run and its items.
	SavePayrollRun(ctx context.Context, run domain.PayrollRun, items []domain.PayrollItem) error

	// FindRunByID retrieves a run header.
	FindRunByID(ctx context.Context, payrollRunID string) (*domain.PayrollRun, error)

	// GetRunForUpdateInTx retrieves a run header with a row lock.
	GetRunForUpdateInTx(ctx context.Context, tx pgx.Tx, payrollRunID string) (*domain.PayrollRun, error)

	// ListItemsInTx returns the run's items.
	ListItemsInTx(ctx context.Context, tx pgx.Tx, payrollRunID string) ([]domain.PayrollItem, error)

	// UpdateRunStatusInTx transitions the run's status.
	UpdateRunStatusInTx(ctx context.Context, tx pgx.Tx, payrollRunID string, status domain.PayrollRunStatus, userID string, now time.Time) error
}
