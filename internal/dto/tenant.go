package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateTenantRequest defines the data needed to create a tenant.
type CreateTenantRequest struct {
	Name                string `json:"name" binding:"required"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode" binding:"required,len=3"`
}

// AddMemberRequest defines the data needed to add a user to a tenant.
type AddMemberRequest struct {
	UserID string            `json:"userID" binding:"required"`
	Role   domain.TenantRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID              string    `json:"tenantID"`
	Name                  string    `json:"name"`
	DefaultCurrencyCode   string    `json:"defaultCurrencyCode"`
	OpeningBalancesPosted bool      `json:"openingBalancesPosted"`
	IsActive              bool      `json:"isActive"`
	CreatedAt             time.Time `json:"createdAt"`
	CreatedBy             string    `json:"createdBy"`
}

// MembershipResponse defines the data returned for a tenant membership.
type MembershipResponse struct {
	UserID   string            `json:"userID"`
	TenantID string            `json:"tenantID"`
	Role     domain.TenantRole `json:"role"`
	JoinedAt time.Time         `json:"joinedAt"`
}

// ToTenantResponse converts a domain.Tenant to TenantResponse DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:              t.TenantID,
		Name:                  t.Name,
		DefaultCurrencyCode:   t.DefaultCurrencyCode,
		OpeningBalancesPosted: t.OpeningBalancesPosted,
		IsActive:              t.IsActive,
		CreatedAt:             t.CreatedAt,
		CreatedBy:             t.CreatedBy,
	}
}

// ToMembershipResponse converts a domain.TenantMembership to MembershipResponse DTO.
func ToMembershipResponse(m *domain.TenantMembership) MembershipResponse {
	return MembershipResponse{
		UserID:   m.UserID,
		TenantID: m.TenantID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}
