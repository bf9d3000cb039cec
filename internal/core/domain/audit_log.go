package domain

import "time"

// AuditLog is one best-effort audit record. These are delivered over an
// at-least-once side channel decoupled from the ledger transaction.
type AuditLog struct {
	AuditID  string         `json:"auditID"`
	TenantID string         `json:"tenantID"`
	ActorID  string         `json:"actorID"`
	Action   string         `json:"action"` // e.g. "entry.post", "entry.reverse"
	Entity   string         `json:"entity"`
	EntityID string         `json:"entityID"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}
