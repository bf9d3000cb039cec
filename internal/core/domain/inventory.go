package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection is the direction of an inventory stock movement.
type MovementDirection string

const (
	MovementIn  MovementDirection = "IN"
	MovementOut MovementDirection = "OUT"
)

// Opposite returns the inverse direction, used when reversing a movement.
func (d MovementDirection) Opposite() MovementDirection {
	if d == MovementIn {
		return MovementOut
	}
	return MovementIn
}

// InventoryMovement records one stock change tied to a journal entry. The
// reversal engine records an opposite movement rather than deleting history.
type InventoryMovement struct {
	MovementID    string            `json:"movementID"`
	TenantID      string            `json:"tenantID"`
	ItemID        string            `json:"itemID"`
	Quantity      decimal.Decimal   `json:"quantity"` // Always positive; Direction carries the sign
	Direction     MovementDirection `json:"direction"`
	UnitCost      decimal.Decimal   `json:"unitCost"`
	ReferenceType ReferenceType     `json:"referenceType"`
	ReferenceID   string            `json:"referenceID"`
	EntryID       string            `json:"entryID"`
	MovementDate  time.Time         `json:"movementDate"`
	Reversed      bool              `json:"reversed"`
	AuditFields
}
