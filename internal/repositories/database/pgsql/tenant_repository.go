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

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant and membership data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

// SaveTenant persists a new tenant.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	model := mapping.ToModelTenant(tenant)
	query := `
		INSERT INTO tenants (tenant_id, name, default_currency_code, opening_balances_posted, is_active,
		                     created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.TenantID,
		model.Name,
		model.DefaultCurrencyCode,
		model.OpeningBalancesPosted,
		model.IsActive,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert tenant "+model.TenantID, err)
	}
	return nil
}

// FindTenantByID retrieves a tenant by its ID.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, default_currency_code, opening_balances_posted, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1;
	`
	var model models.Tenant
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&model.TenantID,
		&model.Name,
		&model.DefaultCurrencyCode,
		&model.OpeningBalancesPosted,
		&model.IsActive,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant by ID "+tenantID, err)
	}
	tenant := mapping.ToDomainTenant(model)
	return &tenant, nil
}

// GetTenantForUpdateInTx retrieves a tenant with a row lock. The lock
// serializes concurrent opening-balance attempts on the same tenant.
func (r *PgxTenantRepository) GetTenantForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, default_currency_code, opening_balances_posted, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1
		FOR UPDATE;
	`
	var model models.Tenant
	err := tx.QueryRow(ctx, query, tenantID).Scan(
		&model.TenantID,
		&model.Name,
		&model.DefaultCurrencyCode,
		&model.OpeningBalancesPosted,
		&model.IsActive,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock tenant "+tenantID, err)
	}
	tenant := mapping.ToDomainTenant(model)
	return &tenant, nil
}

// SetOpeningBalancesPostedInTx flips the tenant's opening-balance flag.
func (r *PgxTenantRepository) SetOpeningBalancesPostedInTx(ctx context.Context, tx pgx.Tx, tenantID string, userID string, now time.Time) error {
	query := `
		UPDATE tenants
		SET opening_balances_posted = TRUE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE tenant_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set opening balances flag for tenant "+tenantID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("tenant " + tenantID + " not found for update")
	}
	return nil
}

// SaveMembership persists a tenant membership.
func (r *PgxTenantRepository) SaveMembership(ctx context.Context, membership domain.TenantMembership) error {
	model := mapping.ToModelMembership(membership)
	query := `
		INSERT INTO tenant_memberships (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query, model.UserID, model.TenantID, model.Role, model.JoinedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert membership for user "+model.UserID, err)
	}
	return nil
}

// FindMembership retrieves an actor's membership in a tenant.
func (r *PgxTenantRepository) FindMembership(ctx context.Context, userID string, tenantID string) (*domain.TenantMembership, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM tenant_memberships
		WHERE user_id = $1 AND tenant_id = $2;
	`
	var model models.TenantMembership
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(
		&model.UserID,
		&model.TenantID,
		&model.Role,
		&model.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}
	membership := mapping.ToDomainMembership(model)
	return &membership, nil
}
