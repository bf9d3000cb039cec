package domain

import "time"

// Tenant is an isolated bookkeeping environment: accounts, entries, periods,
// advances and payables all hang off one tenant.
type Tenant struct {
	TenantID              string `json:"tenantID"`
	Name                  string `json:"name"`
	DefaultCurrencyCode   string `json:"defaultCurrencyCode"`
	OpeningBalancesPosted bool   `json:"openingBalancesPosted"`
	IsActive              bool   `json:"isActive"`
	AuditFields
}

// TenantRole defines the possible roles an actor can have within a tenant.
type TenantRole string

const (
	RoleAdmin    TenantRole = "ADMIN"
	RoleMember   TenantRole = "MEMBER"
	RoleReadOnly TenantRole = "READONLY"
	RoleRemoved  TenantRole = "REMOVED"
)

// roleRank orders roles by privilege for minimum-role checks.
var roleRank = map[TenantRole]int{
	RoleReadOnly: 1,
	RoleMember:   2,
	RoleAdmin:    3,
}

// Meets reports whether the role satisfies the required minimum role.
func (r TenantRole) Meets(min TenantRole) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}

// TenantMembership represents an actor's membership in a tenant. Identity is
// issued externally; the ledger only enforces tenant ownership and role.
type TenantMembership struct {
	UserID   string     `json:"userID"`
	TenantID string     `json:"tenantID"`
	Role     TenantRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}
