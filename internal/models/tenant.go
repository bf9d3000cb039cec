package models

import "time"

// Tenant is the tenants table row.
type Tenant struct {
	TenantID              string `db:"tenant_id"`
	Name                  string `db:"name"`
	DefaultCurrencyCode   string `db:"default_currency_code"`
	OpeningBalancesPosted bool   `db:"opening_balances_posted"`
	IsActive              bool   `db:"is_active"`
	AuditFields
}

// TenantMembership is the tenant_memberships table row.
type TenantMembership struct {
	UserID   string    `db:"user_id"`
	TenantID string    `db:"tenant_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

// AuditLog is the audit_logs table row. Meta is stored as JSONB.
type AuditLog struct {
	AuditID  string         `db:"audit_id"`
	TenantID string         `db:"tenant_id"`
	ActorID  string         `db:"actor_id"`
	Action   string         `db:"action"`
	Entity   string         `db:"entity"`
	EntityID string         `db:"entity_id"`
	Meta     map[string]any `db:"meta"`
	At       time.Time      `db:"at"`
}
