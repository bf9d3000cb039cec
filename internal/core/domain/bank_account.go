package domain

import "github.com/shopspring/decimal"

// BankAccount holds a running balance mirroring a GL cash account. The
// balance is mutated only by the posting and reversal engines, inside the
// same transaction as the ledger write.
type BankAccount struct {
	BankAccountID string          `json:"bankAccountID"`
	TenantID      string          `json:"tenantID"`
	Name          string          `json:"name"`
	AccountID     string          `json:"accountID"` // Linked GL asset account
	Balance       decimal.Decimal `json:"balance"`
	AuditFields
}
