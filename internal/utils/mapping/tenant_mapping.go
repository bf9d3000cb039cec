package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToDomainTenant converts a model Tenant to its domain form.
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:              m.TenantID,
		Name:                  m.Name,
		DefaultCurrencyCode:   m.DefaultCurrencyCode,
		OpeningBalancesPosted: m.OpeningBalancesPosted,
		IsActive:              m.IsActive,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTenant converts a domain Tenant to its model.
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:              d.TenantID,
		Name:                  d.Name,
		DefaultCurrencyCode:   d.DefaultCurrencyCode,
		OpeningBalancesPosted: d.OpeningBalancesPosted,
		IsActive:              d.IsActive,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMembership converts a model TenantMembership to its domain form.
func ToDomainMembership(m models.TenantMembership) domain.TenantMembership {
	return domain.TenantMembership{
		UserID:   m.UserID,
		TenantID: m.TenantID,
		Role:     domain.TenantRole(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

// ToModelMembership converts a domain TenantMembership to its model.
func ToModelMembership(d domain.TenantMembership) models.TenantMembership {
	return models.TenantMembership{
		UserID:   d.UserID,
		TenantID: d.TenantID,
		Role:     string(d.Role),
		JoinedAt: d.JoinedAt,
	}
}
