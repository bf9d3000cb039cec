package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/jackc/pgx/v5"
)

// PeriodGuardSvc is consulted by the posting and reversal engines before any
// ledger write. The check runs inside the caller's transaction so a lock
// created concurrently either lands before the check or after the commit.
type PeriodGuardSvc interface {
	// AssertUnlocked returns ErrPrecondition when the date falls inside an
	// ad-hoc period lock or a CLOSED/LOCKED financial period.
	AssertUnlocked(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error
}

// PeriodReaderSvc defines read operations for period management
type PeriodReaderSvc interface {
	// ListPeriods retrieves all financial periods of a tenant.
	ListPeriods(ctx context.Context, tenantID string, requestingUserID string) ([]domain.FinancialPeriod, error)

	// ListLocks retrieves all period locks of a tenant.
	ListLocks(ctx context.Context, tenantID string, requestingUserID string) ([]domain.PeriodLock, error)
}

// PeriodWriterSvc defines the period management surface (admin only)
type PeriodWriterSvc interface {
	// CreatePeriod persists a new financial period.
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, requestingUserID string) (*domain.FinancialPeriod, error)

	// UpdatePeriodStatus transitions a period between OPEN, CLOSED and LOCKED.
	UpdatePeriodStatus(ctx context.Context, tenantID string, periodID string, req dto.UpdatePeriodStatusRequest, requestingUserID string) (*domain.FinancialPeriod, error)

	// CreateLock persists an ad-hoc period lock.
	CreateLock(ctx context.Context, tenantID string, req dto.CreateLockRequest, requestingUserID string) (*domain.PeriodLock, error)

	// DeleteLock removes an ad-hoc period lock.
	DeleteLock(ctx context.Context, tenantID string, lockID string, requestingUserID string) error
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodGuardSvc
	PeriodReaderSvc
	PeriodWriterSvc
}
