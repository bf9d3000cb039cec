package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayableDocument is the payable_documents table row (bills and invoices).
type PayableDocument struct {
	PayableID      string          `db:"payable_id"`
	TenantID       string          `db:"tenant_id"`
	Kind           string          `db:"kind"`
	CounterpartyID string          `db:"counterparty_id"`
	DocNumber      string          `db:"doc_number"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	Status         string          `db:"status"`
	IssueDate      time.Time       `db:"issue_date"`
	AuditFields
}

// Payment is the payments table row.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	TenantID       string          `db:"tenant_id"`
	PayableID      string          `db:"payable_id"`
	Kind           string          `db:"kind"`
	Amount         decimal.Decimal `db:"amount"`
	PaymentDate    time.Time       `db:"payment_date"`
	BankAccountID  string          `db:"bank_account_id"`
	CounterpartyID string          `db:"counterparty_id"`
	EntryID        string          `db:"entry_id"`
	Reversed       bool            `db:"reversed"`
	AuditFields
}

// BankAccount is the bank_accounts table row.
type BankAccount struct {
	BankAccountID string          `db:"bank_account_id"`
	TenantID      string          `db:"tenant_id"`
	Name          string          `db:"name"`
	AccountID     string          `db:"account_id"`
	Balance       decimal.Decimal `db:"balance"`
	AuditFields
}

// Counterparty is the counterparties table row.
type Counterparty struct {
	CounterpartyID string          `db:"counterparty_id"`
	TenantID       string          `db:"tenant_id"`
	Kind           string          `db:"kind"`
	Name           string          `db:"name"`
	TotalBilled    decimal.Decimal `db:"total_billed"`
	TotalPaid      decimal.Decimal `db:"total_paid"`
	AuditFields
}

// InventoryMovement is the inventory_movements table row.
type InventoryMovement struct {
	MovementID    string          `db:"movement_id"`
	TenantID      string          `db:"tenant_id"`
	ItemID        string          `db:"item_id"`
	Quantity      decimal.Decimal `db:"quantity"`
	Direction     string          `db:"direction"`
	UnitCost      decimal.Decimal `db:"unit_cost"`
	ReferenceType string          `db:"reference_type"`
	ReferenceID   string          `db:"reference_id"`
	EntryID       string          `db:"entry_id"`
	MovementDate  time.Time       `db:"movement_date"`
	Reversed      bool            `db:"reversed"`
	AuditFields
}
