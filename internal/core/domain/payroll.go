package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRunStatus tracks whether a run's advance deductions have been applied.
type PayrollRunStatus string

const (
	PayrollDraft    PayrollRunStatus = "DRAFT"
	PayrollApplied  PayrollRunStatus = "APPLIED"
	PayrollReversed PayrollRunStatus = "REVERSED"
)

// PayrollRun groups the per-employee payroll items of one pay cycle.
type PayrollRun struct {
	PayrollRunID string           `json:"payrollRunID"`
	TenantID     string           `json:"tenantID"`
	RunDate      time.Time        `json:"runDate"`
	Description  string           `json:"description"`
	Status       PayrollRunStatus `json:"status"`
	AuditFields

	Items []PayrollItem `json:"items,omitempty"`
}

// PayrollItem is one employee's slice of a payroll run. AdvanceDeduction is
// the budget the allocation ledger consumes against the employee's
// outstanding advances.
type PayrollItem struct {
	ItemID           string          `json:"itemID"`
	PayrollRunID     string          `json:"payrollRunID"`
	TenantID         string          `json:"tenantID"`
	EmployeeID       string          `json:"employeeID"`
	GrossPay         decimal.Decimal `json:"grossPay"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
}
