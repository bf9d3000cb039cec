package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType identifies the business document a journal entry originates from.
type ReferenceType string

const (
	RefExpense        ReferenceType = "EXPENSE"
	RefBill           ReferenceType = "BILL"
	RefBillPayment    ReferenceType = "BILL_PAYMENT"
	RefInvoice        ReferenceType = "INVOICE"
	RefInvoicePayment ReferenceType = "INVOICE_PAYMENT"
	RefPayroll        ReferenceType = "PAYROLL"
	RefPayrollPayment ReferenceType = "PAYROLL_PAYMENT"
	RefManualEntry    ReferenceType = "MANUAL_ENTRY"
	RefOpeningBalance ReferenceType = "OPENING_BALANCE"
)

var referenceTypes = map[ReferenceType]struct{}{
	RefExpense:        {},
	RefBill:           {},
	RefBillPayment:    {},
	RefInvoice:        {},
	RefInvoicePayment: {},
	RefPayroll:        {},
	RefPayrollPayment: {},
	RefManualEntry:    {},
	RefOpeningBalance: {},
}

// Valid reports whether t is one of the closed set of reference types.
// Unknown types are rejected at the posting boundary, never silently accepted.
func (t ReferenceType) Valid() bool {
	_, ok := referenceTypes[t]
	return ok
}

// IsPayment reports whether entries of this type carry a payment record that
// the reversal engine must roll back.
func (t ReferenceType) IsPayment() bool {
	return t == RefBillPayment || t == RefInvoicePayment
}

// JournalEntry is the ledger transaction header. Once posted it is immutable
// except for the reversal linkage fields.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	TenantID      string          `json:"tenantID"`
	EntryDate     time.Time       `json:"entryDate"` // Date-only
	Description   string          `json:"description"`
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"` // Originating business document
	DebitTotal    decimal.Decimal `json:"debitTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	Posted        bool            `json:"posted"`
	IsReversal    bool            `json:"isReversal"`
	ReversalOf    *string         `json:"reversalOf,omitempty"` // Original entry, set on reversal entries
	IsReversed    bool            `json:"isReversed"`
	ReversalEntry *string         `json:"reversalEntryID,omitempty"` // Back-reference, set on reversed originals
	Reason        string          `json:"reason,omitempty"`          // Reversal reason, carried in metadata
	AuditFields

	// Lines are loaded separately and populated on demand.
	Lines []JournalLine `json:"lines,omitempty"`
}
