package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is the advances table row.
type Advance struct {
	AdvanceID        string          `db:"advance_id"`
	TenantID         string          `db:"tenant_id"`
	EmployeeID       string          `db:"employee_id"`
	OriginalAmount   decimal.Decimal `db:"original_amount"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	MonthlyDeduction decimal.Decimal `db:"monthly_deduction"`
	MonthsToRepay    int             `db:"months_to_repay"`
	MonthsDeducted   int             `db:"months_deducted"`
	Status           string          `db:"status"`
	DeductionStart   time.Time       `db:"deduction_start_date"`
	AuditFields
}

// AdvanceDeduction is the payroll_advance_deductions table row.
type AdvanceDeduction struct {
	DeductionID     string          `db:"deduction_id"`
	TenantID        string          `db:"tenant_id"`
	PayrollRunID    string          `db:"payroll_run_id"`
	AdvanceID       string          `db:"advance_id"`
	EmployeeID      string          `db:"employee_id"`
	Amount          decimal.Decimal `db:"amount"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	MonthsIncrement int             `db:"months_increment"`
	Reversed        bool            `db:"reversed"`
	AuditFields
}

// PayrollRun is the payroll_runs table row.
type PayrollRun struct {
	PayrollRunID string    `db:"payroll_run_id"`
	TenantID     string    `db:"tenant_id"`
	RunDate      time.Time `db:"run_date"`
	Description  string    `db:"description"`
	Status       string    `db:"status"`
	AuditFields
}

// PayrollItem is the payroll_items table row.
type PayrollItem struct {
	ItemID           string          `db:"item_id"`
	PayrollRunID     string          `db:"payroll_run_id"`
	TenantID         string          `db:"tenant_id"`
	EmployeeID       string          `db:"employee_id"`
	GrossPay         decimal.Decimal `db:"gross_pay"`
	AdvanceDeduction decimal.Decimal `db:"advance_deduction"`
}
