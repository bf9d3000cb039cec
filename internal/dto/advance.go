package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAdvanceRequest defines the data needed to grant a salary advance.
// The disbursement is posted immediately from the given bank account.
type CreateAdvanceRequest struct {
	EmployeeID     string          `json:"employeeID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	MonthsToRepay  int             `json:"monthsToRepay" binding:"required,min=1"`
	AdvanceDate    string          `json:"advanceDate" binding:"required,dateonly"`    // entry date of the disbursement
	DeductionStart string          `json:"deductionStart" binding:"required,dateonly"`
	BankAccountID  string          `json:"bankAccountID" binding:"required"`
	Description    string          `json:"description"`
}

// AdvanceResponse defines the data returned for a salary advance.
type AdvanceResponse struct {
	AdvanceID        string               `json:"advanceID"`
	TenantID         string               `json:"tenantID"`
	EmployeeID       string               `json:"employeeID"`
	OriginalAmount   decimal.Decimal      `json:"originalAmount"`
	RemainingBalance decimal.Decimal      `json:"remainingBalance"`
	MonthlyDeduction decimal.Decimal      `json:"monthlyDeduction"`
	MonthsToRepay    int                  `json:"monthsToRepay"`
	MonthsDeducted   int                  `json:"monthsDeducted"`
	DeductionStart   time.Time            `json:"deductionStartDate"`
	Status           domain.AdvanceStatus `json:"status"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
}

// DeductionResponse defines the data returned for one allocation row.
type DeductionResponse struct {
	DeductionID     string          `json:"deductionID"`
	AdvanceID       string          `json:"advanceID"`
	PayrollRunID    string          `json:"payrollRunID"`
	EmployeeID      string          `json:"employeeID"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	MonthsIncrement int             `json:"monthsIncrement"`
	Reversed        bool            `json:"reversed"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToAdvanceResponse converts a domain.Advance to AdvanceResponse DTO.
func ToAdvanceResponse(a *domain.Advance) AdvanceResponse {
	return AdvanceResponse{
		AdvanceID:        a.AdvanceID,
		TenantID:         a.TenantID,
		EmployeeID:       a.EmployeeID,
		OriginalAmount:   a.OriginalAmount,
		RemainingBalance: a.RemainingBalance,
		MonthlyDeduction: a.MonthlyDeduction,
		MonthsToRepay:    a.MonthsToRepay,
		MonthsDeducted:   a.MonthsDeducted,
		DeductionStart:   a.DeductionStart,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
		CreatedBy:        a.CreatedBy,
	}
}

// ToListAdvanceResponse converts a slice of domain.Advance to DTOs.
func ToListAdvanceResponse(advances []domain.Advance) []AdvanceResponse {
	res := make([]AdvanceResponse, len(advances))
	for i, a := range advances {
		res[i] = ToAdvanceResponse(&a)
	}
	return res
}

// ToDeductionResponse converts a domain.AdvanceDeduction to DeductionResponse DTO.
func ToDeductionResponse(d *domain.AdvanceDeduction) DeductionResponse {
	return DeductionResponse{
		DeductionID:     d.DeductionID,
		AdvanceID:       d.AdvanceID,
		PayrollRunID:    d.PayrollRunID,
		EmployeeID:      d.EmployeeID,
		Amount:          d.Amount,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		MonthsIncrement: d.MonthsIncrement,
		Reversed:        d.Reversed,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDeductionResponses converts a slice of domain.AdvanceDeduction to DTOs.
func ToDeductionResponses(deductions []domain.AdvanceDeduction) []DeductionResponse {
	res := make([]DeductionResponse, len(deductions))
	for i, d := range deductions {
		res[i] = ToDeductionResponse(&d)
	}
	return res
}
