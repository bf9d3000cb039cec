package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayableKind distinguishes vendor bills (money owed) from customer invoices
// (money due). The payment and reversal mechanics are identical for both.
type PayableKind string

const (
	KindBill    PayableKind = "BILL"
	KindInvoice PayableKind = "INVOICE"
)

// Valid reports whether k is a known payable kind.
func (k PayableKind) Valid() bool {
	return k == KindBill || k == KindInvoice
}

// PaymentReferenceType returns the journal reference type for payments
// against this kind of document.
func (k PayableKind) PaymentReferenceType() ReferenceType {
	if k == KindBill {
		return RefBillPayment
	}
	return RefInvoicePayment
}

// PayableStatus is derived from the paid amount, never stored authoritatively
// by callers.
type PayableStatus string

const (
	PayableUnpaid  PayableStatus = "UNPAID"
	PayablePartial PayableStatus = "PARTIAL"
	PayablePaid    PayableStatus = "PAID"
)

// PayableDocument is a bill or invoice whose open balance is settled by
// payments posted through the ledger.
type PayableDocument struct {
	PayableID      string          `json:"payableID"`
	TenantID       string          `json:"tenantID"`
	Kind           PayableKind     `json:"kind"`
	CounterpartyID string          `json:"counterpartyID"`
	DocNumber      string          `json:"docNumber"` // Unique per tenant+kind
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Status         PayableStatus   `json:"status"`
	IssueDate      time.Time       `json:"issueDate"`
	AuditFields
}

// RecomputeStatus derives Paid/Partial/Unpaid from the paid amount.
func (p *PayableDocument) RecomputeStatus(epsilon decimal.Decimal) {
	switch {
	case p.PaidAmount.GreaterThanOrEqual(p.TotalAmount.Sub(epsilon)):
		p.Status = PayablePaid
	case p.PaidAmount.GreaterThan(epsilon):
		p.Status = PayablePartial
	default:
		p.Status = PayableUnpaid
	}
}

// Payment records one settlement against a payable document, linked to the
// journal entry it produced. Reversal flips the Reversed flag and restores
// the payable, bank and counterparty state.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	TenantID       string          `json:"tenantID"`
	PayableID      string          `json:"payableID"`
	Kind           PayableKind     `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"paymentDate"`
	BankAccountID  string          `json:"bankAccountID"`
	CounterpartyID string          `json:"counterpartyID"`
	EntryID        string          `json:"entryID"`
	Reversed       bool            `json:"reversed"`
	AuditFields
}
