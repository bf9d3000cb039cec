package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// codeRange bounds the numeric account codes allowed for a type.
type codeRange struct {
	Min int64
	Max int64
}

var accountCodeRanges = map[AccountType]codeRange{
	Asset:     {1000, 19999},
	Liability: {20000, 29999},
	Equity:    {30000, 39999},
	Income:    {40000, 49999},
	Expense:   {50000, 59999},
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	_, ok := accountCodeRanges[t]
	return ok
}

// CodeInRange reports whether code falls inside the numeric range defined for t.
func (t AccountType) CodeInRange(code int64) bool {
	r, ok := accountCodeRanges[t]
	if !ok {
		return false
	}
	return code >= r.Min && code <= r.Max
}

// CodeRange returns the inclusive code bounds for t. Callers must check
// Valid() first; unknown types return zeroes.
func (t AccountType) CodeRange() (int64, int64) {
	r := accountCodeRanges[t]
	return r.Min, r.Max
}

// Account represents a tenant-scoped chart-of-accounts entry.
// This is the primary representation used by services.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            int64       `json:"code"` // Numeric, range-bound by AccountType
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // Self-referencing, nullable
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	IsSystem        bool        `json:"isSystem"`                // Seeded system account, protected from deactivation
	BankAccountID   *string     `json:"bankAccountID,omitempty"` // Linked bank account mirror, nullable
	AuditFields
}
