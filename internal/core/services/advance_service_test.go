package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type AdvanceServiceTestSuite struct {
	suite.Suite
	mockTxManager   *MockTxManager
	mockAdvanceRepo *MockAdvanceRepository
	mockPayrollRepo *MockPayrollRepository
	mockEntryRepo   *MockEntryRepository
	mockBankRepo    *MockBankAccountRepository
	mockResolver    *MockAccountResolver
	mockPosting     *MockPostingInTx
	mockAuthorizer  *MockTenantAuthorizer
	mockAudit       *MockAuditRecorder
	mockReversal    *MockReversalService
	service         portssvc.AdvanceSvcFacade

	tenantID       string
	userID         string
	employeeID     string
	membership     *domain.TenantMembership
	bank           *domain.BankAccount
	salaryAccount  *domain.Account
	advanceAccount *domain.Account
}

func (suite *AdvanceServiceTestSuite) SetupTest() {
	suite.mockTxManager = new(MockTxManager)
	suite.mockAdvanceRepo = new(MockAdvanceRepository)
	suite.mockPayrollRepo = new(MockPayrollRepository)
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockBankRepo = new(MockBankAccountRepository)
	suite.mockResolver = new(MockAccountResolver)
	suite.mockPosting = new(MockPostingInTx)
	suite.mockAuthorizer = new(MockTenantAuthorizer)
	suite.mockAudit = new(MockAuditRecorder)
	suite.mockReversal = new(MockReversalService)

	svc := services.NewAdvanceService(
		suite.mockTxManager,
		suite.mockAdvanceRepo,
		suite.mockPayrollRepo,
		suite.mockEntryRepo,
		suite.mockBankRepo,
		suite.mockResolver,
		suite.mockPosting,
		suite.mockAuthorizer,
		suite.mockAudit,
	)
	svc.SetReversalService(suite.mockReversal)
	suite.service = svc

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.employeeID = uuid.NewString()
	suite.membership = &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleMember,
	}
	suite.bank = &domain.BankAccount{
		BankAccountID: uuid.NewString(),
		TenantID:      suite.tenantID,
		Name:          "Operating Account",
		AccountID:     uuid.NewString(),
	}
	suite.salaryAccount = &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        50100,
		Name:        "Salaries Expense",
		AccountType: domain.Expense,
		IsActive:    true,
		IsSystem:    true,
	}
	suite.advanceAccount = &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        11500,
		Name:        "Employee Advances",
		AccountType: domain.Asset,
		IsActive:    true,
		IsSystem:    true,
	}
}

func (suite *AdvanceServiceTestSuite) authorizeMember() {
	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleMember).
		Return(suite.membership, nil).Once()
}

func (suite *AdvanceServiceTestSuite) TestCreateAdvance_Success() {
	ctx := context.Background()
	req := dto.CreateAdvanceRequest{
		EmployeeID:     suite.employeeID,
		Amount:         decimal.NewFromFloat(600.00),
		MonthsToRepay:  3,
		AdvanceDate:    "2025-02-01",
		DeductionStart: "2025-03-01",
		BankAccountID:  suite.bank.BankAccountID,
	}
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), TenantID: suite.tenantID, Posted: true}

	suite.authorizeMember()
	suite.mockBankRepo.On("FindBankAccountByIDInTx", mock.Anything, mock.Anything, suite.bank.BankAccountID).Return(suite.bank, nil).Once()
	suite.mockResolver.On("FindSystemAccount", mock.Anything, mock.Anything, suite.tenantID, mock.AnythingOfType("[]string"), int64(11500)).Return(suite.advanceAccount, nil).Once()
	suite.mockPosting.On("PostEntryInTx", mock.Anything, mock.Anything, suite.tenantID, mock.MatchedBy(func(input portssvc.PostEntryInput) bool {
		return len(input.Lines) == 2 &&
			input.Lines[0].AccountID == suite.advanceAccount.AccountID &&
			input.Lines[0].Debit.Equal(decimal.NewFromFloat(600.00)) &&
			input.Lines[1].AccountID == suite.bank.AccountID &&
			input.Lines[1].Credit.Equal(decimal.NewFromFloat(600.00))
	}), suite.userID).Return(entry, nil).Once()
	suite.mockAdvanceRepo.On("SaveAdvanceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Advance")).Return(nil).Once()

	advance, err := suite.service.CreateAdvance(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(advance)
	suite.Equal(domain.AdvancePending, advance.Status)
	suite.True(advance.RemainingBalance.Equal(decimal.NewFromFloat(600.00)))
	suite.True(advance.MonthlyDeduction.Equal(decimal.NewFromFloat(200.00)))
	suite.Equal(0, advance.MonthsDeducted)
	suite.mockPosting.AssertExpectations(suite.T())
	suite.mockAdvanceRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestCreateAdvance_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateAdvanceRequest{
		EmployeeID:     suite.employeeID,
		Amount:         decimal.Zero,
		MonthsToRepay:  3,
		AdvanceDate:    "2025-02-01",
		DeductionStart: "2025-03-01",
		BankAccountID:  suite.bank.BankAccountID,
	}

	suite.authorizeMember()

	advance, err := suite.service.CreateAdvance(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(advance)
	suite.mockAdvanceRepo.AssertNotCalled(suite.T(), "SaveAdvanceInTx", mock.Anything, mock.Anything, mock.Anything)
}

// TestApplyDeductions_FIFO is the allocation-order scenario: two open advances
// (100 from January, 200 from February) and a 150 budget. The January advance
// is consumed in full before the February one is touched.
func (suite *AdvanceServiceTestSuite) TestApplyDeductions_FIFO() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{
		PayrollRunID: runID,
		TenantID:     suite.tenantID,
		RunDate:      time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Description:  "March 2025",
		Status:       domain.PayrollDraft,
	}
	items := []domain.PayrollItem{
		{
			ItemID:           uuid.NewString(),
			PayrollRunID:     runID,
			TenantID:         suite.tenantID,
			EmployeeID:       suite.employeeID,
			GrossPay:         decimal.NewFromFloat(1000.00),
			AdvanceDeduction: decimal.NewFromFloat(150.00),
		},
	}
	older := domain.Advance{
		AdvanceID:        uuid.NewString(),
		TenantID:         suite.tenantID,
		EmployeeID:       suite.employeeID,
		OriginalAmount:   decimal.NewFromFloat(100.00),
		RemainingBalance: decimal.NewFromFloat(100.00),
		MonthlyDeduction: decimal.NewFromFloat(100.00),
		MonthsToRepay:    1,
		Status:           domain.AdvancePending,
		DeductionStart:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := domain.Advance{
		AdvanceID:        uuid.NewString(),
		TenantID:         suite.tenantID,
		EmployeeID:       suite.employeeID,
		OriginalAmount:   decimal.NewFromFloat(200.00),
		RemainingBalance: decimal.NewFromFloat(200.00),
		MonthlyDeduction: decimal.NewFromFloat(50.00),
		MonthsToRepay:    4,
		Status:           domain.AdvancePending,
		DeductionStart:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.authorizeMember()
	suite.mockPayrollRepo.On("GetRunForUpdateInTx", mock.Anything, mock.Anything, runID).Return(run, nil).Once()
	suite.mockBankRepo.On("FindBankAccountByIDInTx", mock.Anything, mock.Anything, suite.bank.BankAccountID).Return(suite.bank, nil).Once()
	suite.mockPayrollRepo.On("ListItemsInTx", mock.Anything, mock.Anything, runID).Return(items, nil).Once()
	suite.mockAdvanceRepo.On("ListOpenAdvancesForUpdateInTx", mock.Anything, mock.Anything, suite.tenantID, suite.employeeID).
		Return([]domain.Advance{older, newer}, nil).Once()

	// January advance fully consumed: 100 -> 0, DEDUCTED.
	suite.mockAdvanceRepo.On("UpdateAdvanceInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.Advance) bool {
		return a.AdvanceID == older.AdvanceID && a.RemainingBalance.IsZero() && a.Status == domain.AdvanceDeducted
	})).Return(nil).Once()
	suite.mockAdvanceRepo.On("InsertDeductionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.AdvanceDeduction) bool {
		return d.AdvanceID == older.AdvanceID &&
			d.Amount.Equal(decimal.NewFromFloat(100.00)) &&
			d.BalanceBefore.Equal(decimal.NewFromFloat(100.00)) &&
			d.BalanceAfter.IsZero()
	})).Return(nil).Once()

	// February advance takes the 50 remainder: 200 -> 150, PARTIAL.
	suite.mockAdvanceRepo.On("UpdateAdvanceInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.Advance) bool {
		return a.AdvanceID == newer.AdvanceID && a.RemainingBalance.Equal(decimal.NewFromFloat(150.00)) && a.Status == domain.AdvancePartial
	})).Return(nil).Once()
	suite.mockAdvanceRepo.On("InsertDeductionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.AdvanceDeduction) bool {
		return d.AdvanceID == newer.AdvanceID &&
			d.Amount.Equal(decimal.NewFromFloat(50.00)) &&
			d.BalanceBefore.Equal(decimal.NewFromFloat(200.00)) &&
			d.BalanceAfter.Equal(decimal.NewFromFloat(150.00))
	})).Return(nil).Once()

	suite.mockResolver.On("FindSystemAccount", mock.Anything, mock.Anything, suite.tenantID, mock.AnythingOfType("[]string"), int64(50100)).Return(suite.salaryAccount, nil).Once()
	suite.mockResolver.On("FindSystemAccount", mock.Anything, mock.Anything, suite.tenantID, mock.AnythingOfType("[]string"), int64(11500)).Return(suite.advanceAccount, nil).Once()

	// Entry: debit gross 1000, credit advance recovery 150, credit net pay 850.
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), TenantID: suite.tenantID, Posted: true}
	suite.mockPosting.On("PostEntryInTx", mock.Anything, mock.Anything, suite.tenantID, mock.MatchedBy(func(input portssvc.PostEntryInput) bool {
		if input.ReferenceType != domain.RefPayroll || input.ReferenceID != runID || len(input.Lines) != 3 {
			return false
		}
		return input.Lines[0].Debit.Equal(decimal.NewFromFloat(1000.00)) &&
			input.Lines[1].Credit.Equal(decimal.NewFromFloat(150.00)) &&
			input.Lines[2].Credit.Equal(decimal.NewFromFloat(850.00))
	}), suite.userID).Return(entry, nil).Once()

	suite.mockPayrollRepo.On("UpdateRunStatusInTx", mock.Anything, mock.Anything, runID, domain.PayrollApplied, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAudit.On("Record", mock.Anything, mock.AnythingOfType("domain.AuditLog")).Return().Once()

	applied, err := suite.service.ApplyDeductions(ctx, suite.tenantID, runID, suite.bank.BankAccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(applied)
	suite.Equal(domain.PayrollApplied, applied.Status)
	suite.mockAdvanceRepo.AssertExpectations(suite.T())
	suite.mockPosting.AssertExpectations(suite.T())
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestApplyDeductions_NotDraft() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{
		PayrollRunID: runID,
		TenantID:     suite.tenantID,
		Status:       domain.PayrollApplied,
	}

	suite.authorizeMember()
	suite.mockPayrollRepo.On("GetRunForUpdateInTx", mock.Anything, mock.Anything, runID).Return(run, nil).Once()

	applied, err := suite.service.ApplyDeductions(ctx, suite.tenantID, runID, suite.bank.BankAccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Nil(applied)
	suite.mockAdvanceRepo.AssertNotCalled(suite.T(), "ListOpenAdvancesForUpdateInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AdvanceServiceTestSuite) TestReverseDeductions_GoesThroughReversalEngine() {
	ctx := context.Background()
	runID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TenantID:      suite.tenantID,
		ReferenceType: domain.RefPayroll,
		ReferenceID:   runID,
		Posted:        true,
	}
	reversedRun := &domain.PayrollRun{PayrollRunID: runID, TenantID: suite.tenantID, Status: domain.PayrollReversed}

	suite.authorizeMember()
	suite.mockEntryRepo.On("FindEntryByReference", mock.Anything, suite.tenantID, domain.RefPayroll, runID).Return(entry, nil).Once()
	suite.mockReversal.On("ReverseEntry", mock.Anything, suite.tenantID, entry.EntryID, mock.AnythingOfType("string"), mock.AnythingOfType("string"), suite.userID).
		Return(&domain.JournalEntry{EntryID: uuid.NewString(), IsReversal: true}, nil).Once()
	suite.mockPayrollRepo.On("FindRunByID", mock.Anything, runID).Return(reversedRun, nil).Once()

	run, err := suite.service.ReverseDeductions(ctx, suite.tenantID, runID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(run)
	suite.Equal(domain.PayrollReversed, run.Status)
	suite.mockReversal.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestReverseDeductions_NoPostedEntry() {
	ctx := context.Background()
	runID := uuid.NewString()

	suite.authorizeMember()
	suite.mockEntryRepo.On("FindEntryByReference", mock.Anything, suite.tenantID, domain.RefPayroll, runID).
		Return(nil, apperrors.ErrNotFound).Once()

	run, err := suite.service.ReverseDeductions(ctx, suite.tenantID, runID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Nil(run)
	suite.mockReversal.AssertNotCalled(suite.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestReverseDeductionsInTx_RestoresFromAllocationRows drives the restore path
// directly, the way the reversal engine invokes it.
func (suite *AdvanceServiceTestSuite) TestReverseDeductionsInTx_RestoresFromAllocationRows() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{
		PayrollRunID: runID,
		TenantID:     suite.tenantID,
		Status:       domain.PayrollApplied,
	}
	advance := domain.Advance{
		AdvanceID:        uuid.NewString(),
		TenantID:         suite.tenantID,
		EmployeeID:       suite.employeeID,
		OriginalAmount:   decimal.NewFromFloat(100.00),
		RemainingBalance: decimal.Zero,
		MonthlyDeduction: decimal.NewFromFloat(100.00),
		MonthsToRepay:    1,
		MonthsDeducted:   1,
		Status:           domain.AdvanceDeducted,
	}
	deduction := domain.AdvanceDeduction{
		DeductionID:     uuid.NewString(),
		TenantID:        suite.tenantID,
		PayrollRunID:    runID,
		AdvanceID:       advance.AdvanceID,
		EmployeeID:      suite.employeeID,
		Amount:          decimal.NewFromFloat(100.00),
		BalanceBefore:   decimal.NewFromFloat(100.00),
		BalanceAfter:    decimal.Zero,
		MonthsIncrement: 1,
	}

	suite.mockPayrollRepo.On("GetRunForUpdateInTx", mock.Anything, mock.Anything, runID).Return(run, nil).Once()
	suite.mockAdvanceRepo.On("ListDeductionsByRunInTx", mock.Anything, mock.Anything, suite.tenantID, runID).
		Return([]domain.AdvanceDeduction{deduction}, nil).Once()
	suite.mockAdvanceRepo.On("GetAdvanceForUpdateInTx", mock.Anything, mock.Anything, advance.AdvanceID).Return(&advance, nil).Once()
	suite.mockAdvanceRepo.On("UpdateAdvanceInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.Advance) bool {
		return a.AdvanceID == advance.AdvanceID &&
			a.RemainingBalance.Equal(decimal.NewFromFloat(100.00)) &&
			a.MonthsDeducted == 0 &&
			a.Status == domain.AdvancePending
	})).Return(nil).Once()
	suite.mockAdvanceRepo.On("MarkDeductionReversedInTx", mock.Anything, mock.Anything, deduction.DeductionID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPayrollRepo.On("UpdateRunStatusInTx", mock.Anything, mock.Anything, runID, domain.PayrollReversed, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ReverseDeductionsInTx(ctx, nil, suite.tenantID, runID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAdvanceRepo.AssertExpectations(suite.T())
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

// A deduction row pointing at a deleted advance must not fail the reversal.
func (suite *AdvanceServiceTestSuite) TestReverseDeductionsInTx_SkipsMissingAdvance() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{
		PayrollRunID: runID,
		TenantID:     suite.tenantID,
		Status:       domain.PayrollApplied,
	}
	deduction := domain.AdvanceDeduction{
		DeductionID:     uuid.NewString(),
		TenantID:        suite.tenantID,
		PayrollRunID:    runID,
		AdvanceID:       uuid.NewString(),
		EmployeeID:      suite.employeeID,
		Amount:          decimal.NewFromFloat(50.00),
		MonthsIncrement: 1,
	}

	suite.mockPayrollRepo.On("GetRunForUpdateInTx", mock.Anything, mock.Anything, runID).Return(run, nil).Once()
	suite.mockAdvanceRepo.On("ListDeductionsByRunInTx", mock.Anything, mock.Anything, suite.tenantID, runID).
		Return([]domain.AdvanceDeduction{deduction}, nil).Once()
	suite.mockAdvanceRepo.On("GetAdvanceForUpdateInTx", mock.Anything, mock.Anything, deduction.AdvanceID).Return(nil, nil).Once()
	suite.mockPayrollRepo.On("UpdateRunStatusInTx", mock.Anything, mock.Anything, runID, domain.PayrollReversed, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ReverseDeductionsInTx(ctx, nil, suite.tenantID, runID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAdvanceRepo.AssertNotCalled(suite.T(), "UpdateAdvanceInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

// The advance row is written through the disbursement transaction, so a
// commit failure surfaces to the caller and no orphaned advance survives it.
func (suite *AdvanceServiceTestSuite) TestCreateAdvance_CommitFailurePropagated() {
	ctx := context.Background()
	req := dto.CreateAdvanceRequest{
		EmployeeID:     suite.employeeID,
		Amount:         decimal.NewFromFloat(600.00),
		MonthsToRepay:  3,
		AdvanceDate:    "2025-02-01",
		DeductionStart: "2025-03-01",
		BankAccountID:  suite.bank.BankAccountID,
	}
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), TenantID: suite.tenantID, Posted: true}
	commitErr := errors.New("commit failed")
	suite.mockTxManager.commitErr = commitErr

	suite.authorizeMember()
	suite.mockBankRepo.On("FindBankAccountByIDInTx", mock.Anything, mock.Anything, suite.bank.BankAccountID).Return(suite.bank, nil).Once()
	suite.mockResolver.On("FindSystemAccount", mock.Anything, mock.Anything, suite.tenantID, mock.AnythingOfType("[]string"), int64(11500)).Return(suite.advanceAccount, nil).Once()
	suite.mockPosting.On("PostEntryInTx", mock.Anything, mock.Anything, suite.tenantID, mock.AnythingOfType("services.PostEntryInput"), suite.userID).Return(entry, nil).Once()
	suite.mockAdvanceRepo.On("SaveAdvanceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Advance")).Return(nil).Once()

	advance, err := suite.service.CreateAdvance(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, commitErr)
	suite.Nil(advance)
	suite.mockAdvanceRepo.AssertExpectations(suite.T())
}

func TestAdvanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdvanceServiceTestSuite))
}
