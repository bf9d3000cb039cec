package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceStatus is the repayment state of a salary advance.
type AdvanceStatus string

const (
	AdvancePending  AdvanceStatus = "PENDING"
	AdvancePartial  AdvanceStatus = "PARTIAL"
	AdvanceDeducted AdvanceStatus = "DEDUCTED"
)

// Advance is an employee's outstanding salary advance, repaid through
// recurring payroll deductions.
type Advance struct {
	AdvanceID        string          `json:"advanceID"`
	TenantID         string          `json:"tenantID"`
	EmployeeID       string          `json:"employeeID"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	MonthlyDeduction decimal.Decimal `json:"monthlyDeduction"`
	MonthsToRepay    int             `json:"monthsToRepay"`
	MonthsDeducted   int             `json:"monthsDeducted"`
	Status           AdvanceStatus   `json:"status"`
	DeductionStart   time.Time       `json:"deductionStartDate"` // FIFO ordering key (oldest first)
	AuditFields
}

// RecomputeStatus derives the status from the remaining balance and the
// months-deducted counter. The advance is fully deducted once the balance is
// exhausted (within AmountEpsilon) or the contractual term is reached.
func (a *Advance) RecomputeStatus(epsilon decimal.Decimal) {
	switch {
	case a.RemainingBalance.LessThanOrEqual(epsilon) || (a.MonthsToRepay > 0 && a.MonthsDeducted >= a.MonthsToRepay):
		a.Status = AdvanceDeducted
	case a.RemainingBalance.LessThan(a.OriginalAmount):
		a.Status = AdvancePartial
	default:
		a.Status = AdvancePending
	}
}

// AdvanceDeduction is an immutable per-allocation ledger row recording how
// much was deducted from which advance during which payroll run. It is the
// sole source of truth for reversal.
type AdvanceDeduction struct {
	DeductionID     string          `json:"deductionID"`
	TenantID        string          `json:"tenantID"`
	PayrollRunID    string          `json:"payrollRunID"`
	AdvanceID       string          `json:"advanceID"`
	EmployeeID      string          `json:"employeeID"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	MonthsIncrement int             `json:"monthsIncrement"`
	Reversed        bool            `json:"reversed"`
	AuditFields
}
