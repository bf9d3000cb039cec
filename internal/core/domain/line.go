package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one account's debit or credit movement within an entry.
// Exactly one of Debit and Credit is strictly positive; the other is zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	TenantID    string          `json:"tenantID"`
	EntryID     string          `json:"entryID"` // Owning entry; an entry exclusively owns its lines
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	EntryDate   time.Time       `json:"entryDate"` // Denormalized from the entry for range queries
	Posted      bool            `json:"posted"`
	Reversed    bool            `json:"reversed"`
	AuditFields
}

// Mirror returns the algebraic inverse of the line: debit and credit swapped
// verbatim, never recomputed.
func (l JournalLine) Mirror() JournalLine {
	m := l
	m.Debit = l.Credit
	m.Credit = l.Debit
	return m
}
