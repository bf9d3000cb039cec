package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// Well-known accounts the payroll postings book against. Lookup is by name
// first, numeric code as fallback.
var (
	advanceAccountNames = []string{"Employee Advances", "Staff Advances"}
	salaryAccountNames  = []string{"Salaries Expense", "Payroll Expense"}
)

const (
	advanceAccountCode int64 = 11500
	salaryAccountCode  int64 = 50100
)

// advanceService is the advance allocation ledger: it grants advances,
// consumes payroll deduction budgets against them oldest-first, and restores
// them from the immutable deduction rows on reversal.
type advanceService struct {
	txManager   portsrepo.TransactionManager
	advanceRepo portsrepo.AdvanceRepositoryFacade
	payrollRepo portsrepo.PayrollRepositoryFacade
	entryRepo   portsrepo.EntryRepositoryFacade
	bankRepo    portsrepo.BankAccountRepositoryFacade
	accountSvc  portssvc.AccountResolverSvc
	postingSvc  portssvc.PostingInTxSvc
	tenantSvc   portssvc.TenantAuthorizerSvc
	auditSvc    portssvc.AuditRecorderSvc

	// reversalSvc is injected after construction to break the dependency
	// cycle: the reversal engine delegates payroll undo back to this service.
	reversalSvc portssvc.ReversalSvcFacade
}

// NewAdvanceService creates a new AdvanceService.
func NewAdvanceService(
	txManager portsrepo.TransactionManager,
	advanceRepo portsrepo.AdvanceRepositoryFacade,
	payrollRepo portsrepo.PayrollRepositoryFacade,
	entryRepo portsrepo.EntryRepositoryFacade,
	bankRepo portsrepo.BankAccountRepositoryFacade,
	accountSvc portssvc.AccountResolverSvc,
	postingSvc portssvc.PostingInTxSvc,
	tenantSvc portssvc.TenantAuthorizerSvc,
	auditSvc portssvc.AuditRecorderSvc,
) *advanceService {
	return &advanceService{
		txManager:   txManager,
		advanceRepo: advanceRepo,
		payrollRepo: payrollRepo,
		entryRepo:   entryRepo,
		bankRepo:    bankRepo,
		accountSvc:  accountSvc,
		postingSvc:  postingSvc,
		tenantSvc:   tenantSvc,
		auditSvc:    auditSvc,
	}
}

// SetReversalService wires the reversal engine in after both services exist.
func (s *advanceService) SetReversalService(reversalSvc portssvc.ReversalSvcFacade) {
	s.reversalSvc = reversalSvc
}

var _ portssvc.AdvanceSvcFacade = (*advanceService)(nil)

// CreateAdvance grants an advance and posts its disbursement entry (debit
// the employee advances account, credit the bank's GL account) in one
// transaction.
func (s *advanceService) CreateAdvance(ctx context.Context, tenantID string, req dto.CreateAdvanceRequest, creatorUserID string) (*domain.Advance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	amount := accounting.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: advance amount must be positive", apperrors.ErrValidation)
	}
	if req.MonthsToRepay < 1 {
		return nil, fmt.Errorf("%w: months to repay must be at least 1", apperrors.ErrValidation)
	}
	advanceDate, err := time.Parse(domain.DateOnly, req.AdvanceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid advance date %q", apperrors.ErrValidation, req.AdvanceDate)
	}
	deductionStart, err := time.Parse(domain.DateOnly, req.DeductionStart)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid deduction start date %q", apperrors.ErrValidation, req.DeductionStart)
	}

	now := time.Now().UTC()
	advance := domain.Advance{
		AdvanceID:        uuid.NewString(),
		TenantID:         tenantID,
		EmployeeID:       req.EmployeeID,
		OriginalAmount:   amount,
		RemainingBalance: amount,
		MonthlyDeduction: accounting.Round2(amount.Div(decimal.NewFromInt(int64(req.MonthsToRepay)))),
		MonthsToRepay:    req.MonthsToRepay,
		Status:           domain.AdvancePending,
		DeductionStart:   deductionStart,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		bank, txErr := s.bankRepo.FindBankAccountByIDInTx(ctx, tx, req.BankAccountID)
		if txErr != nil {
			return fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, req.BankAccountID)
		}
		if bank.TenantID != tenantID {
			return apperrors.ErrNotFound // Obscure existence
		}

		advAccount, txErr := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, advanceAccountNames, advanceAccountCode)
		if txErr != nil {
			return txErr
		}

		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Salary advance for employee %s", req.EmployeeID)
		}
		_, txErr = s.postingSvc.PostEntryInTx(ctx, tx, tenantID, portssvc.PostEntryInput{
			EntryDate:     advanceDate,
			Description:   description,
			ReferenceType: domain.RefExpense,
			ReferenceID:   advance.AdvanceID,
			Lines: []accounting.LineInput{
				{AccountID: advAccount.AccountID, Debit: amount},
				{AccountID: bank.AccountID, Credit: amount},
			},
		}, creatorUserID)
		if txErr != nil {
			return txErr
		}

		return s.advanceRepo.SaveAdvanceInTx(ctx, tx, advance)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Advance created", slog.String("advance_id", advance.AdvanceID), slog.String("employee_id", req.EmployeeID), slog.String("tenant_id", tenantID))
	return &advance, nil
}

// GetAdvanceByID retrieves a specific advance.
func (s *advanceService) GetAdvanceByID(ctx context.Context, tenantID string, advanceID string, requestingUserID string) (*domain.Advance, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	advance, err := s.advanceRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	if advance.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return advance, nil
}

// ListAdvances retrieves a tenant's advances, optionally filtered by employee.
func (s *advanceService) ListAdvances(ctx context.Context, tenantID string, employeeID string, requestingUserID string) ([]domain.Advance, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	advances, err := s.advanceRepo.ListAdvancesByTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	return advances, nil
}

// CreatePayrollRun persists a DRAFT run with its items.
func (s *advanceService) CreatePayrollRun(ctx context.Context, tenantID string, req dto.CreatePayrollRunRequest, creatorUserID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	runDate, err := time.Parse(domain.DateOnly, req.RunDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid run date %q", apperrors.ErrValidation, req.RunDate)
	}

	now := time.Now().UTC()
	run := domain.PayrollRun{
		PayrollRunID: uuid.NewString(),
		TenantID:     tenantID,
		RunDate:      runDate,
		Description:  req.Description,
		Status:       domain.PayrollDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	items := make([]domain.PayrollItem, len(req.Items))
	for i, item := range req.Items {
		gross := accounting.Round2(item.GrossPay)
		budget := accounting.Round2(item.AdvanceDeduction)
		if !gross.IsPositive() {
			return nil, fmt.Errorf("%w: gross pay must be positive for employee %s", apperrors.ErrValidation, item.EmployeeID)
		}
		if budget.IsNegative() {
			return nil, fmt.Errorf("%w: advance deduction cannot be negative for employee %s", apperrors.ErrValidation, item.EmployeeID)
		}
		if budget.GreaterThan(gross) {
			return nil, fmt.Errorf("%w: advance deduction exceeds gross pay for employee %s", apperrors.ErrValidation, item.EmployeeID)
		}
		items[i] = domain.PayrollItem{
			ItemID:           uuid.NewString(),
			PayrollRunID:     run.PayrollRunID,
			TenantID:         tenantID,
			EmployeeID:       item.EmployeeID,
			GrossPay:         gross,
			AdvanceDeduction: budget,
		}
	}

	if err := s.payrollRepo.SavePayrollRun(ctx, run, items); err != nil {
		logger.Error("Failed to save payroll run", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save payroll run: %w", err)
	}

	run.Items = items
	logger.Info("Payroll run created", slog.String("payroll_run_id", run.PayrollRunID), slog.Int("items", len(items)), slog.String("tenant_id", tenantID))
	return &run, nil
}

// GetPayrollRun retrieves a run with its items.
func (s *advanceService) GetPayrollRun(ctx context.Context, tenantID string, payrollRunID string, requestingUserID string) (*domain.PayrollRun, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	run, err := s.payrollRepo.FindRunByID(ctx, payrollRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payroll run %s: %w", payrollRunID, err)
	}
	if run.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return run, nil
}

// ApplyDeductions consumes each item's deduction budget against the
// employee's open advances oldest-first, writes the immutable allocation
// rows, posts the payroll entry and flips the run to APPLIED. One transaction.
func (s *advanceService) ApplyDeductions(ctx context.Context, tenantID string, payrollRunID string, bankAccountID string, requestingUserID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	var run *domain.PayrollRun
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		run, txErr = s.applyDeductionsInTx(ctx, tx, tenantID, payrollRunID, bankAccountID, requestingUserID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payroll deductions applied", slog.String("payroll_run_id", payrollRunID), slog.String("tenant_id", tenantID))
	s.recordAudit(ctx, tenantID, requestingUserID, "payroll.apply_deductions", payrollRunID)
	return run, nil
}

func (s *advanceService) applyDeductionsInTx(ctx context.Context, tx pgx.Tx, tenantID, payrollRunID, bankAccountID, userID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := s.payrollRepo.GetRunForUpdateInTx(ctx, tx, payrollRunID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: payroll run %s", apperrors.ErrNotFound, payrollRunID)
		}
		return nil, fmt.Errorf("failed to load payroll run %s: %w", payrollRunID, err)
	}
	if run.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	if run.Status != domain.PayrollDraft {
		return nil, fmt.Errorf("%w: payroll run %s is %s, expected %s", apperrors.ErrPrecondition, payrollRunID, run.Status, domain.PayrollDraft)
	}

	bank, err := s.bankRepo.FindBankAccountByIDInTx(ctx, tx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
	}
	if bank.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	items, err := s.payrollRepo.ListItemsInTx(ctx, tx, payrollRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: payroll run %s has no items", apperrors.ErrPrecondition, payrollRunID)
	}

	now := time.Now().UTC()
	grossTotal := decimal.Zero
	recoveredTotal := decimal.Zero

	for i := range items {
		item := &items[i]
		grossTotal = grossTotal.Add(item.GrossPay)
		budget := item.AdvanceDeduction
		if !budget.IsPositive() {
			continue
		}

		advances, err := s.advanceRepo.ListOpenAdvancesForUpdateInTx(ctx, tx, tenantID, item.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load open advances for employee %s: %w", item.EmployeeID, err)
		}

		// Oldest deduction date first; each advance is consumed before the
		// budget moves on to the next.
		for ai := range advances {
			if !budget.IsPositive() {
				break
			}
			advance := &advances[ai]

			deducted := decimal.Min(advance.RemainingBalance, budget)
			if !deducted.IsPositive() {
				continue
			}

			balanceBefore := advance.RemainingBalance
			advance.RemainingBalance = advance.RemainingBalance.Sub(deducted)
			monthsInc := monthsIncrement(deducted, advance.MonthlyDeduction)
			advance.MonthsDeducted += monthsInc
			advance.RecomputeStatus(accounting.AmountEpsilon)
			advance.LastUpdatedAt = now
			advance.LastUpdatedBy = userID

			if err := s.advanceRepo.UpdateAdvanceInTx(ctx, tx, *advance); err != nil {
				return nil, fmt.Errorf("failed to update advance %s: %w", advance.AdvanceID, err)
			}

			deduction := domain.AdvanceDeduction{
				DeductionID:     uuid.NewString(),
				TenantID:        tenantID,
				PayrollRunID:    payrollRunID,
				AdvanceID:       advance.AdvanceID,
				EmployeeID:      item.EmployeeID,
				Amount:          deducted,
				BalanceBefore:   balanceBefore,
				BalanceAfter:    advance.RemainingBalance,
				MonthsIncrement: monthsInc,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			}
			if err := s.advanceRepo.InsertDeductionInTx(ctx, tx, deduction); err != nil {
				return nil, fmt.Errorf("failed to insert deduction row: %w", err)
			}

			budget = budget.Sub(deducted)
			recoveredTotal = recoveredTotal.Add(deducted)
			logger.Debug("Advance deduction applied",
				slog.String("advance_id", advance.AdvanceID),
				slog.String("employee_id", item.EmployeeID),
				slog.String("amount", deducted.String()))
		}
	}

	netTotal := grossTotal.Sub(recoveredTotal)

	salaryAccount, err := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, salaryAccountNames, salaryAccountCode)
	if err != nil {
		return nil, err
	}
	lines := []accounting.LineInput{
		{AccountID: salaryAccount.AccountID, Debit: grossTotal, Description: "Gross salaries"},
	}
	if recoveredTotal.IsPositive() {
		advAccount, err := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, advanceAccountNames, advanceAccountCode)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.LineInput{AccountID: advAccount.AccountID, Credit: recoveredTotal, Description: "Advance recovery"})
	}
	lines = append(lines, accounting.LineInput{AccountID: bank.AccountID, Credit: netTotal, Description: "Net pay"})

	if _, err := s.postingSvc.PostEntryInTx(ctx, tx, tenantID, portssvc.PostEntryInput{
		EntryDate:     run.RunDate,
		Description:   fmt.Sprintf("Payroll: %s", run.Description),
		ReferenceType: domain.RefPayroll,
		ReferenceID:   payrollRunID,
		Lines:         lines,
	}, userID); err != nil {
		return nil, err
	}

	if err := s.payrollRepo.UpdateRunStatusInTx(ctx, tx, payrollRunID, domain.PayrollApplied, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update payroll run status: %w", err)
	}

	run.Status = domain.PayrollApplied
	run.Items = items
	run.LastUpdatedAt = now
	run.LastUpdatedBy = userID
	return run, nil
}

// ReverseDeductions undoes an applied run by reversing its payroll entry; the
// reversal engine delegates the allocation restore back to
// ReverseDeductionsInTx, so there is exactly one restore path.
func (s *advanceService) ReverseDeductions(ctx context.Context, tenantID string, payrollRunID string, requestingUserID string) (*domain.PayrollRun, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}
	if s.reversalSvc == nil {
		return nil, fmt.Errorf("%w: reversal service not configured", apperrors.ErrInternal)
	}

	entry, err := s.entryRepo.FindEntryByReference(ctx, tenantID, domain.RefPayroll, payrollRunID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: payroll run %s has no posted entry to reverse", apperrors.ErrPrecondition, payrollRunID)
		}
		return nil, fmt.Errorf("failed to find payroll entry: %w", err)
	}

	reversalDate := time.Now().UTC().Format(domain.DateOnly)
	if _, err := s.reversalSvc.ReverseEntry(ctx, tenantID, entry.EntryID, fmt.Sprintf("Payroll run %s reversed", payrollRunID), reversalDate, requestingUserID); err != nil {
		return nil, err
	}

	run, err := s.payrollRepo.FindRunByID(ctx, payrollRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload payroll run %s: %w", payrollRunID, err)
	}
	return run, nil
}

// ReverseDeductionsInTx restores every unreversed allocation row of the run
// and flips it to REVERSED. Restores are capped at the advance's original
// amount; broken advance links are skipped with a logged reason rather than
// failing the whole reversal.
func (s *advanceService) ReverseDeductionsInTx(ctx context.Context, tx pgx.Tx, tenantID string, payrollRunID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := s.payrollRepo.GetRunForUpdateInTx(ctx, tx, payrollRunID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: payroll run %s", apperrors.ErrNotFound, payrollRunID)
		}
		return fmt.Errorf("failed to load payroll run %s: %w", payrollRunID, err)
	}
	if run.TenantID != tenantID {
		return apperrors.ErrNotFound // Obscure existence
	}
	if run.Status != domain.PayrollApplied {
		return fmt.Errorf("%w: payroll run %s is %s, expected %s", apperrors.ErrPrecondition, payrollRunID, run.Status, domain.PayrollApplied)
	}

	deductions, err := s.advanceRepo.ListDeductionsByRunInTx(ctx, tx, tenantID, payrollRunID)
	if err != nil {
		return fmt.Errorf("failed to load deduction rows: %w", err)
	}

	now := time.Now().UTC()
	for _, d := range deductions {
		if d.Reversed {
			continue
		}

		advance, err := s.advanceRepo.GetAdvanceForUpdateInTx(ctx, tx, d.AdvanceID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to load advance %s: %w", d.AdvanceID, err)
		}
		if advance == nil {
			logger.Warn("Skipping deduction with missing advance",
				slog.String("deduction_id", d.DeductionID),
				slog.String("advance_id", d.AdvanceID),
				slog.String("payroll_run_id", payrollRunID))
			continue
		}

		restored := advance.RemainingBalance.Add(d.Amount)
		if restored.GreaterThan(advance.OriginalAmount) {
			restored = advance.OriginalAmount
		}
		advance.RemainingBalance = restored
		advance.MonthsDeducted -= d.MonthsIncrement
		if advance.MonthsDeducted < 0 {
			advance.MonthsDeducted = 0
		}
		advance.RecomputeStatus(accounting.AmountEpsilon)
		advance.LastUpdatedAt = now
		advance.LastUpdatedBy = userID

		if err := s.advanceRepo.UpdateAdvanceInTx(ctx, tx, *advance); err != nil {
			return fmt.Errorf("failed to restore advance %s: %w", advance.AdvanceID, err)
		}
		if err := s.advanceRepo.MarkDeductionReversedInTx(ctx, tx, d.DeductionID, userID, now); err != nil {
			return fmt.Errorf("failed to flag deduction reversed: %w", err)
		}
	}

	if err := s.payrollRepo.UpdateRunStatusInTx(ctx, tx, payrollRunID, domain.PayrollReversed, userID, now); err != nil {
		return fmt.Errorf("failed to update payroll run status: %w", err)
	}
	return nil
}

// recordAudit enqueues a best-effort audit record. Never fails the caller.
func (s *advanceService) recordAudit(ctx context.Context, tenantID, actorID, action, entityID string) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.Record(ctx, domain.AuditLog{
		AuditID:  uuid.NewString(),
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   action,
		Entity:   "payroll_run",
		EntityID: entityID,
		At:       time.Now().UTC(),
	})
}

// monthsIncrement converts a deducted amount into repayment months:
// round(amount / monthlyDeduction), floored at one month per allocation.
func monthsIncrement(amount, monthlyDeduction decimal.Decimal) int {
	if !monthlyDeduction.IsPositive() {
		return 1
	}
	months := int(amount.Div(monthlyDeduction).Round(0).IntPart())
	if months < 1 {
		return 1
	}
	return months
}
