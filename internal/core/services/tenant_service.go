package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// tenantService manages tenants and memberships, and is the authorization
// gate every other service consults first.
type tenantService struct {
	tenantRepo portsrepo.TenantRepositoryFacade
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant persists a new tenant and grants the creator the admin role.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: tenant name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:            uuid.NewString(),
		Name:                req.Name,
		DefaultCurrencyCode: strings.ToUpper(req.DefaultCurrencyCode),
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		logger.Error("Failed to save tenant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	membership := domain.TenantMembership{
		UserID:   creatorUserID,
		TenantID: tenant.TenantID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}
	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		logger.Error("Failed to save creator membership", slog.String("error", err.Error()), slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to save creator membership: %w", err)
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID), slog.String("created_by", creatorUserID))
	return &tenant, nil
}

// GetTenantByID retrieves a tenant the requesting user belongs to.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string, requestingUserID string) (*domain.Tenant, error) {
	if _, err := s.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return tenant, nil
}

// AddMember grants a user a role in the tenant. Admin only.
func (s *tenantService) AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, requestingUserID string) (*domain.TenantMembership, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !req.Role.Meets(domain.RoleReadOnly) {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	existing, err := s.tenantRepo.FindMembership(ctx, req.UserID, tenantID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %s is already a member", apperrors.ErrDuplicate, req.UserID)
	}

	membership := domain.TenantMembership{
		UserID:   req.UserID,
		TenantID: tenantID,
		Role:     req.Role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		logger.Error("Failed to save membership", slog.String("error", err.Error()), slog.String("tenant_id", tenantID), slog.String("user_id", req.UserID))
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}

	logger.Info("Member added to tenant", slog.String("tenant_id", tenantID), slog.String("user_id", req.UserID), slog.String("role", string(req.Role)))
	return &membership, nil
}

// AuthorizeUserForTenant verifies the user holds at least minRole in the
// tenant. Missing membership is reported as ErrForbidden, not ErrNotFound, so
// callers cannot probe tenant existence.
func (s *tenantService) AuthorizeUserForTenant(ctx context.Context, userID string, tenantID string, minRole domain.TenantRole) (*domain.TenantMembership, error) {
	membership, err := s.tenantRepo.FindMembership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s has no access to tenant %s", apperrors.ErrForbidden, userID, tenantID)
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !membership.Role.Meets(minRole) {
		return nil, fmt.Errorf("%w: role %s does not meet required %s", apperrors.ErrForbidden, membership.Role, minRole)
	}
	return membership, nil
}
