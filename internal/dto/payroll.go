package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayrollItemRequest defines one employee's pay in a payroll run.
// AdvanceDeduction is the budget to recover from the employee's open
// advances; the amount actually recovered may be lower.
type PayrollItemRequest struct {
	EmployeeID       string          `json:"employeeID" binding:"required"`
	GrossPay         decimal.Decimal `json:"grossPay" binding:"required"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
}

// CreatePayrollRunRequest defines the data needed to apply a payroll run.
type CreatePayrollRunRequest struct {
	RunDate       string               `json:"runDate" binding:"required,dateonly"`
	Description   string               `json:"description" binding:"required"`
	BankAccountID string               `json:"bankAccountID" binding:"required"`
	Items         []PayrollItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ApplyDeductionsRequest names the bank account the net pay is disbursed from.
type ApplyDeductionsRequest struct {
	BankAccountID string `json:"bankAccountID" binding:"required"`
}

// PayrollItemResponse defines one employee's pay as applied. NetPay is the
// gross pay less the advance amount actually recovered.
type PayrollItemResponse struct {
	ItemID           string          `json:"itemID"`
	EmployeeID       string          `json:"employeeID"`
	GrossPay         decimal.Decimal `json:"grossPay"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
	NetPay           decimal.Decimal `json:"netPay"`
}

// PayrollRunResponse defines the data returned for a payroll run.
type PayrollRunResponse struct {
	PayrollRunID string                  `json:"payrollRunID"`
	TenantID     string                  `json:"tenantID"`
	RunDate      time.Time               `json:"runDate"`
	Description  string                  `json:"description"`
	Status       domain.PayrollRunStatus `json:"status"`
	Items        []PayrollItemResponse   `json:"items"`
	CreatedAt    time.Time               `json:"createdAt"`
	CreatedBy    string                  `json:"createdBy"`
}

// ToPayrollItemResponse converts a domain.PayrollItem to PayrollItemResponse DTO.
func ToPayrollItemResponse(item *domain.PayrollItem) PayrollItemResponse {
	return PayrollItemResponse{
		ItemID:           item.ItemID,
		EmployeeID:       item.EmployeeID,
		GrossPay:         item.GrossPay,
		AdvanceDeduction: item.AdvanceDeduction,
		NetPay:           item.GrossPay.Sub(item.AdvanceDeduction),
	}
}

// ToPayrollRunResponse converts a run and its items to PayrollRunResponse DTO.
func ToPayrollRunResponse(run *domain.PayrollRun, items []domain.PayrollItem) PayrollRunResponse {
	itemResponses := make([]PayrollItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = ToPayrollItemResponse(&item)
	}
	return PayrollRunResponse{
		PayrollRunID: run.PayrollRunID,
		TenantID:     run.TenantID,
		RunDate:      run.RunDate,
		Description:  run.Description,
		Status:       run.Status,
		Items:        itemResponses,
		CreatedAt:    run.CreatedAt,
		CreatedBy:    run.CreatedBy,
	}
}
