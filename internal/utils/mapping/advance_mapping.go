package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelAdvance converts a domain Advance to a model Advance.
func ToModelAdvance(d domain.Advance) models.Advance {
	return models.Advance{
		AdvanceID:        d.AdvanceID,
		TenantID:         d.TenantID,
		EmployeeID:       d.EmployeeID,
		OriginalAmount:   d.OriginalAmount,
		RemainingBalance: d.RemainingBalance,
		MonthlyDeduction: d.MonthlyDeduction,
		MonthsToRepay:    d.MonthsToRepay,
		MonthsDeducted:   d.MonthsDeducted,
		Status:           string(d.Status),
		DeductionStart:   d.DeductionStart,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAdvance converts a model Advance to a domain Advance.
func ToDomainAdvance(m models.Advance) domain.Advance {
	return domain.Advance{
		AdvanceID:        m.AdvanceID,
		TenantID:         m.TenantID,
		EmployeeID:       m.EmployeeID,
		OriginalAmount:   m.OriginalAmount,
		RemainingBalance: m.RemainingBalance,
		MonthlyDeduction: m.MonthlyDeduction,
		MonthsToRepay:    m.MonthsToRepay,
		MonthsDeducted:   m.MonthsDeducted,
		Status:           domain.AdvanceStatus(m.Status),
		DeductionStart:   m.DeductionStart,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAdvanceDeduction converts a domain AdvanceDeduction to its model.
func ToModelAdvanceDeduction(d domain.AdvanceDeduction) models.AdvanceDeduction {
	return models.AdvanceDeduction{
		DeductionID:     d.DeductionID,
		TenantID:        d.TenantID,
		PayrollRunID:    d.PayrollRunID,
		AdvanceID:       d.AdvanceID,
		EmployeeID:      d.EmployeeID,
		Amount:          d.Amount,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		MonthsIncrement: d.MonthsIncrement,
		Reversed:        d.Reversed,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAdvanceDeduction converts a model AdvanceDeduction to its domain form.
func ToDomainAdvanceDeduction(m models.AdvanceDeduction) domain.AdvanceDeduction {
	return domain.AdvanceDeduction{
		DeductionID:     m.DeductionID,
		TenantID:        m.TenantID,
		PayrollRunID:    m.PayrollRunID,
		AdvanceID:       m.AdvanceID,
		EmployeeID:      m.EmployeeID,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		MonthsIncrement: m.MonthsIncrement,
		Reversed:        m.Reversed,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayrollRun converts a model PayrollRun to its domain form.
func ToDomainPayrollRun(m models.PayrollRun) domain.PayrollRun {
	return domain.PayrollRun{
		PayrollRunID: m.PayrollRunID,
		TenantID:     m.TenantID,
		RunDate:      m.RunDate,
		Description:  m.Description,
		Status:       domain.PayrollRunStatus(m.Status),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayrollItem converts a model PayrollItem to its domain form.
func ToDomainPayrollItem(m models.PayrollItem) domain.PayrollItem {
	return domain.PayrollItem{
		ItemID:           m.ItemID,
		PayrollRunID:     m.PayrollRunID,
		TenantID:         m.TenantID,
		EmployeeID:       m.EmployeeID,
		GrossPay:         m.GrossPay,
		AdvanceDeduction: m.AdvanceDeduction,
	}
}
