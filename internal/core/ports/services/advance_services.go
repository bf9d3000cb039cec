package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/jackc/pgx/v5"
)

// AdvanceReaderSvc defines read operations for salary advances
type AdvanceReaderSvc interface {
	// GetAdvanceByID retrieves a specific advance.
	GetAdvanceByID(ctx context.Context, tenantID string, advanceID string, requestingUserID string) (*domain.Advance, error)

	// ListAdvances retrieves a tenant's advances, optionally filtered by employee.
	ListAdvances(ctx context.Context, tenantID string, employeeID string, requestingUserID string) ([]domain.Advance, error)
}

// AdvanceWriterSvc defines write operations for salary advances
type AdvanceWriterSvc interface {
	// CreateAdvance grants an advance and posts its disbursement entry.
	CreateAdvance(ctx context.Context, tenantID string, req dto.CreateAdvanceRequest, creatorUserID string) (*domain.Advance, error)
}

// PayrollSvc defines payroll-run operations driving the allocation ledger
type PayrollSvc interface {
	// CreatePayrollRun persists a DRAFT run with its items.
	CreatePayrollRun(ctx context.Context, tenantID string, req dto.CreatePayrollRunRequest, creatorUserID string) (*domain.PayrollRun, error)

	// GetPayrollRun retrieves a run with its items.
	GetPayrollRun(ctx context.Context, tenantID string, payrollRunID string, requestingUserID string) (*domain.PayrollRun, error)

	// ApplyDeductions consumes each item's deduction budget against the
	// employee's open advances oldest-first and posts the payroll entry.
	ApplyDeductions(ctx context.Context, tenantID string, payrollRunID string, bankAccountID string, requestingUserID string) (*domain.PayrollRun, error)

	// ReverseDeductions restores the run's advance deductions and reverses
	// the payroll entry.
	ReverseDeductions(ctx context.Context, tenantID string, payrollRunID string, requestingUserID string) (*domain.PayrollRun, error)
}

// AdvanceInTxSvc exposes deduction reversal to the reversal engine, which
// delegates here when undoing an entry that references a payroll run.
type AdvanceInTxSvc interface {
	// ReverseDeductionsInTx restores every unreversed allocation row of the
	// run inside tx. Broken advance links are skipped and reported.
	ReverseDeductionsInTx(ctx context.Context, tx pgx.Tx, tenantID string, payrollRunID string, actorUserID string) error
}

// AdvanceSvcFacade combines all advance-related service interfaces
type AdvanceSvcFacade interface {
	AdvanceReaderSvc
	AdvanceWriterSvc
	PayrollSvc
	AdvanceInTxSvc
}
