package domain

import "github.com/shopspring/decimal"

// CounterpartyKind distinguishes customers from vendors.
type CounterpartyKind string

const (
	Customer CounterpartyKind = "CUSTOMER"
	Vendor   CounterpartyKind = "VENDOR"
)

// Valid reports whether k is a known counterparty kind.
func (k CounterpartyKind) Valid() bool {
	return k == Customer || k == Vendor
}

// Counterparty is a customer or vendor carrying running totals that the
// side-effect adapters increment at payment time and roll back on reversal.
type Counterparty struct {
	CounterpartyID string           `json:"counterpartyID"`
	TenantID       string           `json:"tenantID"`
	Kind           CounterpartyKind `json:"kind"`
	Name           string           `json:"name"`
	TotalBilled    decimal.Decimal  `json:"totalBilled"`
	TotalPaid      decimal.Decimal  `json:"totalPaid"`
	AuditFields
}
