package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PeriodGuardSupport defines the lock-source reads the period guard performs
// inside the posting transaction, so a concurrently created lock either lands
// before the check or after the commit, never in between.
type PeriodGuardSupport interface {
	// FindLockCoveringInTx returns the first period lock covering date, or
	// nil when none applies. Open-ended locks cover everything from their
	// start date onwards.
	FindLockCoveringInTx(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) (*domain.PeriodLock, error)

	// FindPeriodCoveringInTx returns the financial period covering date, or
	// nil when none exists.
	FindPeriodCoveringInTx(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) (*domain.FinancialPeriod, error)
}

// PeriodReader defines read operations for period management.
type PeriodReader interface {
	// FindPeriodByID retrieves a financial period by identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error)

	// ListPeriods retrieves all financial periods for a tenant, oldest first.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.FinancialPeriod, error)

	// ListLocks retrieves all period locks for a tenant, oldest first.
	ListLocks(ctx context.Context, tenantID string) ([]domain.PeriodLock, error)

	// FindLockByID retrieves a period lock by identifier.
	FindLockByID(ctx context.Context, lockID string) (*domain.PeriodLock, error)
}

// PeriodWriter defines write operations for period management. The posting
// and reversal engines never call these; they only consult the guard reads.
type PeriodWriter interface {
	// SavePeriod persists a new financial period.
	SavePeriod(ctx context.Context, period domain.FinancialPeriod) error

	// UpdatePeriodStatus transitions a period's status.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, now time.Time) error

	// SaveLock persists a new period lock.
	SaveLock(ctx context.Context, lock domain.PeriodLock) error

	// DeleteLock removes a period lock.
	DeleteLock(ctx context.Context, lockID string) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodGuardSupport
	PeriodReader
	PeriodWriter
}
