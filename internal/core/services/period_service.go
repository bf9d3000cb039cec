package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// periodService guards postings against locked date ranges and manages the
// periods and locks themselves.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
	tenantSvc  portssvc.TenantAuthorizerSvc
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo: periodRepo,
		tenantSvc:  tenantSvc,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// AssertUnlocked rejects the date when either lock source covers it: an
// ad-hoc period lock, or a financial period whose status blocks postings.
// Both reads go through the caller's transaction.
func (s *periodService) AssertUnlocked(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error {
	lock, err := s.periodRepo.FindLockCoveringInTx(ctx, tx, tenantID, date)
	if err != nil {
		return fmt.Errorf("failed to check period locks: %w", err)
	}
	if lock != nil {
		return fmt.Errorf("%w: date %s falls in locked period (%s)", apperrors.ErrPrecondition, date.Format(domain.DateOnly), lock.Reason)
	}

	period, err := s.periodRepo.FindPeriodCoveringInTx(ctx, tx, tenantID, date)
	if err != nil {
		return fmt.Errorf("failed to check financial periods: %w", err)
	}
	if period != nil && period.Status.Blocks() {
		return fmt.Errorf("%w: period %s is %s", apperrors.ErrPrecondition, period.Name, period.Status)
	}
	return nil
}

// ListPeriods retrieves all financial periods of a tenant.
func (s *periodService) ListPeriods(ctx context.Context, tenantID string, requestingUserID string) ([]domain.FinancialPeriod, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ListLocks retrieves all period locks of a tenant.
func (s *periodService) ListLocks(ctx context.Context, tenantID string, requestingUserID string) ([]domain.PeriodLock, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	locks, err := s.periodRepo.ListLocks(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list period locks: %w", err)
	}
	return locks, nil
}

// CreatePeriod persists a new financial period. Admin only.
func (s *periodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, requestingUserID string) (*domain.FinancialPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	startDate, err := time.Parse(domain.DateOnly, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, req.StartDate)
	}
	endDate, err := time.Parse(domain.DateOnly, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, req.EndDate)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	period := domain.FinancialPeriod{
		PeriodID:  uuid.NewString(),
		TenantID:  tenantID,
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	logger.Info("Financial period created", slog.String("period_id", period.PeriodID), slog.String("tenant_id", tenantID))
	return &period, nil
}

// UpdatePeriodStatus transitions a period between OPEN, CLOSED and LOCKED.
// Admin only; illegal transitions are rejected.
func (s *periodService) UpdatePeriodStatus(ctx context.Context, tenantID string, periodID string, req dto.UpdatePeriodStatusRequest, requestingUserID string) (*domain.FinancialPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown period status %q", apperrors.ErrValidation, req.Status)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	if !period.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: cannot transition period from %s to %s", apperrors.ErrPrecondition, period.Status, req.Status)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, req.Status, requestingUserID, now); err != nil {
		logger.Error("Failed to update period status", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to update period status: %w", err)
	}

	period.Status = req.Status
	period.LastUpdatedAt = now
	period.LastUpdatedBy = requestingUserID
	logger.Info("Period status updated", slog.String("period_id", periodID), slog.String("status", string(req.Status)))
	return period, nil
}

// CreateLock persists an ad-hoc period lock. Admin only.
func (s *periodService) CreateLock(ctx context.Context, tenantID string, req dto.CreateLockRequest, requestingUserID string) (*domain.PeriodLock, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	startDate, err := time.Parse(domain.DateOnly, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, req.StartDate)
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse(domain.DateOnly, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, *req.EndDate)
		}
		if parsed.Before(startDate) {
			return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
		}
		endDate = &parsed
	}

	now := time.Now().UTC()
	lock := domain.PeriodLock{
		LockID:    uuid.NewString(),
		TenantID:  tenantID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.periodRepo.SaveLock(ctx, lock); err != nil {
		logger.Error("Failed to save period lock", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save period lock: %w", err)
	}

	logger.Info("Period lock created", slog.String("lock_id", lock.LockID), slog.String("tenant_id", tenantID))
	return &lock, nil
}

// DeleteLock removes an ad-hoc period lock. Admin only.
func (s *periodService) DeleteLock(ctx context.Context, tenantID string, lockID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	lock, err := s.periodRepo.FindLockByID(ctx, lockID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: period lock %s", apperrors.ErrNotFound, lockID)
		}
		return fmt.Errorf("failed to find period lock %s: %w", lockID, err)
	}
	if lock.TenantID != tenantID {
		return apperrors.ErrNotFound // Obscure existence
	}

	if err := s.periodRepo.DeleteLock(ctx, lockID); err != nil {
		logger.Error("Failed to delete period lock", slog.String("error", err.Error()), slog.String("lock_id", lockID))
		return fmt.Errorf("failed to delete period lock: %w", err)
	}

	logger.Info("Period lock deleted", slog.String("lock_id", lockID), slog.String("tenant_id", tenantID))
	return nil
}
