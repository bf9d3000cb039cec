package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// TenantReaderSvc defines read operations for tenant data
type TenantReaderSvc interface {
	// GetTenantByID retrieves a tenant by its ID.
	GetTenantByID(ctx context.Context, tenantID string, requestingUserID string) (*domain.Tenant, error)
}

// TenantWriterSvc defines write operations for tenant data
type TenantWriterSvc interface {
	// CreateTenant persists a new tenant and makes the creator its admin.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// AddMember grants a user a role in the tenant.
	AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, requestingUserID string) (*domain.TenantMembership, error)
}

// TenantAuthorizerSvc centralizes the membership and minimum-role check every
// tenant-scoped operation performs first.
type TenantAuthorizerSvc interface {
	// AuthorizeUserForTenant verifies the user belongs to the tenant with at
	// least the given role. Returns ErrForbidden otherwise.
	AuthorizeUserForTenant(ctx context.Context, userID string, tenantID string, minRole domain.TenantRole) (*domain.TenantMembership, error)
}

// TenantSvcFacade combines all tenant-related service interfaces
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
	TenantAuthorizerSvc
}
