package models

// Account is the accounts table row.
type Account struct {
	AccountID       string  `db:"account_id"`
	TenantID        string  `db:"tenant_id"`
	Code            int64   `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	ParentAccountID *string `db:"parent_account_id"`
	Description     string  `db:"description"`
	IsActive        bool    `db:"is_active"`
	IsSystem        bool    `db:"is_system"`
	BankAccountID   *string `db:"bank_account_id"`
	AuditFields
}
