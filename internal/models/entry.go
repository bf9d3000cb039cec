package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	TenantID        string          `db:"tenant_id"`
	EntryDate       time.Time       `db:"entry_date"`
	Description     string          `db:"description"`
	ReferenceType   string          `db:"reference_type"`
	ReferenceID     string          `db:"reference_id"`
	DebitTotal      decimal.Decimal `db:"debit_total"`
	CreditTotal     decimal.Decimal `db:"credit_total"`
	Posted          bool            `db:"posted"`
	IsReversal      bool            `db:"is_reversal"`
	ReversalOf      *string         `db:"reversal_of"`
	IsReversed      bool            `db:"is_reversed"`
	ReversalEntryID *string         `db:"reversal_entry_id"`
	Reason          string          `db:"reason"`
	AuditFields
}

// JournalLine is the journal_lines table row.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	TenantID    string          `db:"tenant_id"`
	EntryID     string          `db:"entry_id"`
	LineNumber  int             `db:"line_number"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	EntryDate   time.Time       `db:"entry_date"`
	Posted      bool            `db:"posted"`
	Reversed    bool            `db:"reversed"`
	AuditFields
}
