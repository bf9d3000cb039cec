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
)

const periodColumns = `period_id, tenant_id, name, start_date, end_date, status,
	       created_at, created_by, last_updated_at, last_updated_by`

const lockColumns = `lock_id, tenant_id, start_date, end_date, reason,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for financial periods and
// ad-hoc period locks.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func toDomainPeriod(m models.FinancialPeriod) domain.FinancialPeriod {
	return domain.FinancialPeriod{
		PeriodID:  m.PeriodID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    domain.PeriodStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainLock(m models.PeriodLock) domain.PeriodLock {
	return domain.PeriodLock{
		LockID:    m.LockID,
		TenantID:  m.TenantID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Reason:    m.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanPeriod(row pgx.Row) (*domain.FinancialPeriod, error) {
	var model models.FinancialPeriod
	err := row.Scan(
		&model.PeriodID,
		&model.TenantID,
		&model.Name,
		&model.StartDate,
		&model.EndDate,
		&model.Status,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan financial period row", err)
	}
	period := toDomainPeriod(model)
	return &period, nil
}

func scanLock(row pgx.Row) (*domain.PeriodLock, error) {
	var model models.PeriodLock
	err := row.Scan(
		&model.LockID,
		&model.TenantID,
		&model.StartDate,
		&model.EndDate,
		&model.Reason,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan period lock row", err)
	}
	lock := toDomainLock(model)
	return &lock, nil
}

// FindLockCoveringInTx returns the first period lock covering date, or nil
// when none applies. An open-ended lock (NULL end_date) covers everything
// from its start date onwards.
func (r *PgxPeriodRepository) FindLockCoveringInTx(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) (*domain.PeriodLock, error) {
	query := `SELECT ` + lockColumns + `
		FROM period_locks
		WHERE tenant_id = $1 AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_date
		LIMIT 1;`
	lock, err := scanLock(tx.QueryRow(ctx, query, tenantID, date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return lock, nil
}

// FindPeriodCoveringInTx returns the financial period covering date, or nil
// when none exists.
func (r *PgxPeriodRepository) FindPeriodCoveringInTx(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM financial_periods
		WHERE tenant_id = $1 AND start_date <= $2 AND end_date >= $2
		LIMIT 1;`
	period, err := scanPeriod(tx.QueryRow(ctx, query, tenantID, date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return period, nil
}

// FindPeriodByID retrieves a financial period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE period_id = $1;`
	return scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
}

// ListPeriods retrieves all financial periods for a tenant, oldest first.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE tenant_id = $1 ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods for tenant "+tenantID, err)
	}
	defer rows.Close()

	periods := []domain.FinancialPeriod{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows for tenant "+tenantID, err)
	}
	return periods, nil
}

// ListLocks retrieves all period locks for a tenant, oldest first.
func (r *PgxPeriodRepository) ListLocks(ctx context.Context, tenantID string) ([]domain.PeriodLock, error) {
	query := `SELECT ` + lockColumns + ` FROM period_locks WHERE tenant_id = $1 ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query locks for tenant "+tenantID, err)
	}
	defer rows.Close()

	locks := []domain.PeriodLock{}
	for rows.Next() {
		lock, err := scanLock(rows)
		if err != nil {
			return nil, err
		}
		locks = append(locks, *lock)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating lock rows for tenant "+tenantID, err)
	}
	return locks, nil
}

// FindLockByID retrieves a period lock by its ID.
func (r *PgxPeriodRepository) FindLockByID(ctx context.Context, lockID string) (*domain.PeriodLock, error) {
	query := `SELECT ` + lockColumns + ` FROM period_locks WHERE lock_id = $1;`
	return scanLock(r.Pool.QueryRow(ctx, query, lockID))
}

// SavePeriod persists a new financial period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FinancialPeriod) error {
	query := `
		INSERT INTO financial_periods (period_id, tenant_id, name, start_date, end_date, status,
		                               created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.TenantID,
		period.Name,
		period.StartDate,
		period.EndDate,
		string(period.Status),
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert period "+period.PeriodID, err)
	}
	return nil
}

// UpdatePeriodStatus transitions a period's status.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE financial_periods
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE period_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, periodID, string(status), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of period "+periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + periodID + " not found for status update")
	}
	return nil
}

// SaveLock persists a new period lock.
func (r *PgxPeriodRepository) SaveLock(ctx context.Context, lock domain.PeriodLock) error {
	query := `
		INSERT INTO period_locks (lock_id, tenant_id, start_date, end_date, reason,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		lock.LockID,
		lock.TenantID,
		lock.StartDate,
		lock.EndDate,
		lock.Reason,
		lock.CreatedAt,
		lock.CreatedBy,
		lock.LastUpdatedAt,
		lock.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert period lock "+lock.LockID, err)
	}
	return nil
}

// DeleteLock removes a period lock.
func (r *PgxPeriodRepository) DeleteLock(ctx context.Context, lockID string) error {
	query := `DELETE FROM period_locks WHERE lock_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, lockID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete period lock "+lockID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period lock " + lockID + " not found for delete")
	}
	return nil
}
