package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TenantRepositoryFacade defines tenant and membership storage.
type TenantRepositoryFacade interface {
	// SaveTenant persists a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error

	// FindTenantByID retrieves a tenant.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// GetTenantForUpdateInTx retrieves a tenant with a row lock. The posting
	// engine uses this for the opening-balance single-shot check.
	GetTenantForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.Tenant, error)

	// SetOpeningBalancesPostedInTx flips the tenant's opening-balance flag.
	SetOpeningBalancesPostedInTx(ctx context.Context, tx pgx.Tx, tenantID string, userID string, now time.Time) error

	// SaveMembership persists a tenant membership.
	SaveMembership(ctx context.Context, membership domain.TenantMembership) error

	// FindMembership retrieves an actor's membership in a tenant.
	FindMembership(ctx context.Context, userID string, tenantID string) (*domain.TenantMembership, error)
}

// AuditLogRepositoryFacade persists audit records delivered by the
// at-least-once side channel.
type AuditLogRepositoryFacade interface {
	// InsertAuditLog writes one audit record.
	InsertAuditLog(ctx context.Context, log domain.AuditLog) error
}
