package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
)

// --- Mock TransactionManager ---

type MockTxManager struct {
	mock.Mock

	// commitErr, when set, is returned after the closure succeeds, standing in
	// for a commit failure.
	commitErr error
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// WithTx runs fn against a nil transaction handle. The repositories behind it
// are mocks and never dereference the handle.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	return m.commitErr
}

// --- Mock TenantRepository ---

type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepositoryFacade = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetTenantForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SetOpeningBalancesPostedInTx(ctx context.Context, tx pgx.Tx, tenantID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, tenantID, userID, now)
	return args.Error(0)
}

func (m *MockTenantRepository) SaveMembership(ctx context.Context, membership domain.TenantMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockTenantRepository) FindMembership(ctx context.Context, userID string, tenantID string) (*domain.TenantMembership, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMembership), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code int64) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasJournalHistory(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNameInTx(ctx context.Context, tx pgx.Tx, tenantID string, name string) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCodeInTx(ctx context.Context, tx pgx.Tx, tenantID string, code int64) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock EntryRepository ---

type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedToken, args.Error(2)
}

func (m *MockEntryRepository) ListLinesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := m.Called(ctx, tenantID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalLine), returnedToken, args.Error(2)
}

func (m *MockEntryRepository) FindEntryByReference(ctx context.Context, tenantID string, refType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, refType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) GetEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) MarkEntryReversedInTx(ctx context.Context, tx pgx.Tx, entryID string, reversalEntryID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, reversalEntryID, userID, now)
	return args.Error(0)
}

func (m *MockEntryRepository) CountPostedEntriesInTx(ctx context.Context, tx pgx.Tx, tenantID string) (int64, error) {
	args := m.Called(ctx, tx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindLockCoveringInTx(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) (*domain.PeriodLock, error) {
	args := m.Called(ctx, tx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodLock), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodCoveringInTx(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, tx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.FinancialPeriod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListLocks(ctx context.Context, tenantID string) ([]domain.PeriodLock, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodLock), args.Error(1)
}

func (m *MockPeriodRepository) FindLockByID(ctx context.Context, lockID string) (*domain.PeriodLock, error) {
	args := m.Called(ctx, lockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodLock), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.FinancialPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	args := m.Called(ctx, periodID, status, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) SaveLock(ctx context.Context, lock domain.PeriodLock) error {
	args := m.Called(ctx, lock)
	return args.Error(0)
}

func (m *MockPeriodRepository) DeleteLock(ctx context.Context, lockID string) error {
	args := m.Called(ctx, lockID)
	return args.Error(0)
}

// --- Mock AdvanceRepository ---

type MockAdvanceRepository struct {
	mock.Mock
}

var _ portsrepo.AdvanceRepositoryFacade = (*MockAdvanceRepository)(nil)

func (m *MockAdvanceRepository) FindAdvanceByID(ctx context.Context, advanceID string) (*domain.Advance, error) {
	args := m.Called(ctx, advanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Advance), args.Error(1)
}

func (m *MockAdvanceRepository) ListAdvancesByTenant(ctx context.Context, tenantID string, employeeID string) ([]domain.Advance, error) {
	args := m.Called(ctx, tenantID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Advance), args.Error(1)
}

func (m *MockAdvanceRepository) SaveAdvanceInTx(ctx context.Context, tx pgx.Tx, advance domain.Advance) error {
	args := m.Called(ctx, tx, advance)
	return args.Error(0)
}

func (m *MockAdvanceRepository) ListOpenAdvancesForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string, employeeID string) ([]domain.Advance, error) {
	args := m.Called(ctx, tx, tenantID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Advance), args.Error(1)
}

func (m *MockAdvanceRepository) GetAdvanceForUpdateInTx(ctx context.Context, tx pgx.Tx, advanceID string) (*domain.Advance, error) {
	args := m.Called(ctx, tx, advanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Advance), args.Error(1)
}

func (m *MockAdvanceRepository) UpdateAdvanceInTx(ctx context.Context, tx pgx.Tx, advance domain.Advance) error {
	args := m.Called(ctx, tx, advance)
	return args.Error(0)
}

func (m *MockAdvanceRepository) InsertDeductionInTx(ctx context.Context, tx pgx.Tx, deduction domain.AdvanceDeduction) error {
	args := m.Called(ctx, tx, deduction)
	return args.Error(0)
}

func (m *MockAdvanceRepository) ListDeductionsByRunInTx(ctx context.Context, tx pgx.Tx, tenantID string, payrollRunID string) ([]domain.AdvanceDeduction, error) {
	args := m.Called(ctx, tx, tenantID, payrollRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AdvanceDeduction), args.Error(1)
}

func (m *MockAdvanceRepository) MarkDeductionReversedInTx(ctx context.Context, tx pgx.Tx, deductionID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, deductionID, userID, now)
	return args.Error(0)
}

// --- Mock PayrollRepository ---

type MockPayrollRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRepositoryFacade = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) SavePayrollRun(ctx context.Context, run domain.PayrollRun, items []domain.PayrollItem) error {
	args := m.Called(ctx, run, items)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindRunByID(ctx context.Context, payrollRunID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, payrollRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) GetRunForUpdateInTx(ctx context.Context, tx pgx.Tx, payrollRunID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, tx, payrollRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) ListItemsInTx(ctx context.Context, tx pgx.Tx, payrollRunID string) ([]domain.PayrollItem, error) {
	args := m.Called(ctx, tx, payrollRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollItem), args.Error(1)
}

func (m *MockPayrollRepository) UpdateRunStatusInTx(ctx context.Context, tx pgx.Tx, payrollRunID string, status domain.PayrollRunStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, payrollRunID, status, userID, now)
	return args.Error(0)
}

// --- Mock PayableRepository ---

type MockPayableRepository struct {
	mock.Mock
}

var _ portsrepo.PayableRepositoryFacade = (*MockPayableRepository)(nil)

func (m *MockPayableRepository) FindPayableByID(ctx context.Context, payableID string) (*domain.PayableDocument, error) {
	args := m.Called(ctx, payableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayableDocument), args.Error(1)
}

func (m *MockPayableRepository) FindPayableByDocNumber(ctx context.Context, tenantID string, kind domain.PayableKind, docNumber string) (*domain.PayableDocument, error) {
	args := m.Called(ctx, tenantID, kind, docNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayableDocument), args.Error(1)
}

func (m *MockPayableRepository) ListPayablesByTenant(ctx context.Context, tenantID string, kind *domain.PayableKind) ([]domain.PayableDocument, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayableDocument), args.Error(1)
}

func (m *MockPayableRepository) SavePayableInTx(ctx context.Context, tx pgx.Tx, payable domain.PayableDocument) error {
	args := m.Called(ctx, tx, payable)
	return args.Error(0)
}

func (m *MockPayableRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPayableRepository) GetPayableForUpdateInTx(ctx context.Context, tx pgx.Tx, payableID string) (*domain.PayableDocument, error) {
	args := m.Called(ctx, tx, payableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayableDocument), args.Error(1)
}

func (m *MockPayableRepository) UpdatePayablePaymentStateInTx(ctx context.Context, tx pgx.Tx, payableID string, paidAmount decimal.Decimal, status domain.PayableStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, payableID, paidAmount, status, userID, now)
	return args.Error(0)
}

func (m *MockPayableRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPayableRepository) FindPaymentByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.Payment, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPayableRepository) MarkPaymentReversedInTx(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, paymentID, userID, now)
	return args.Error(0)
}

// --- Mock BankAccountRepository ---

type MockBankAccountRepository struct {
	mock.Mock
}

var _ portsrepo.BankAccountRepositoryFacade = (*MockBankAccountRepository)(nil)

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindBankAccountByIDInTx(ctx context.Context, tx pgx.Tx, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, tx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindBankAccountByGLAccountInTx(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, tx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, tenantID string, bankAccountID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, tenantID, bankAccountID, delta, userID, now)
	return args.Error(0)
}

// --- Mock CounterpartyRepository ---

type MockCounterpartyRepository struct {
	mock.Mock
}

var _ portsrepo.CounterpartyRepositoryFacade = (*MockCounterpartyRepository)(nil)

func (m *MockCounterpartyRepository) SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error {
	args := m.Called(ctx, counterparty)
	return args.Error(0)
}

func (m *MockCounterpartyRepository) FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error) {
	args := m.Called(ctx, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) FindCounterpartyByIDInTx(ctx context.Context, tx pgx.Tx, counterpartyID string) (*domain.Counterparty, error) {
	args := m.Called(ctx, tx, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) ApplyTotalsDeltaInTx(ctx context.Context, tx pgx.Tx, tenantID string, counterpartyID string, billedDelta, paidDelta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, tenantID, counterpartyID, billedDelta, paidDelta, userID, now)
	return args.Error(0)
}

// --- Mock InventoryRepository ---

type MockInventoryRepository struct {
	mock.Mock
}

var _ portsrepo.InventoryRepositoryFacade = (*MockInventoryRepository)(nil)

func (m *MockInventoryRepository) InsertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.InventoryMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListMovementsByEntryInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.InventoryMovement, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryMovement), args.Error(1)
}

func (m *MockInventoryRepository) MarkMovementReversedInTx(ctx context.Context, tx pgx.Tx, movementID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, movementID, userID, now)
	return args.Error(0)
}

// --- Mock TenantAuthorizer ---

type MockTenantAuthorizer struct {
	mock.Mock
}

var _ portssvc.TenantAuthorizerSvc = (*MockTenantAuthorizer)(nil)

func (m *MockTenantAuthorizer) AuthorizeUserForTenant(ctx context.Context, userID string, tenantID string, minRole domain.TenantRole) (*domain.TenantMembership, error) {
	args := m.Called(ctx, userID, tenantID, minRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMembership), args.Error(1)
}

// --- Mock AccountResolver ---

type MockAccountResolver struct {
	mock.Mock
}

var _ portssvc.AccountResolverSvc = (*MockAccountResolver)(nil)

func (m *MockAccountResolver) ResolveAccount(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountResolver) FindSystemAccount(ctx context.Context, tx pgx.Tx, tenantID string, names []string, code int64) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, names, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock PeriodGuard ---

type MockPeriodGuard struct {
	mock.Mock
}

var _ portssvc.PeriodGuardSvc = (*MockPeriodGuard)(nil)

func (m *MockPeriodGuard) AssertUnlocked(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error {
	args := m.Called(ctx, tx, tenantID, date)
	return args.Error(0)
}

// --- Mock PostingInTx ---

type MockPostingInTx struct {
	mock.Mock
}

var _ portssvc.PostingInTxSvc = (*MockPostingInTx)(nil)

func (m *MockPostingInTx) PostEntryInTx(ctx context.Context, tx pgx.Tx, tenantID string, input portssvc.PostEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, tenantID, input, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock AdvanceInTx ---

type MockAdvanceInTx struct {
	mock.Mock
}

var _ portssvc.AdvanceInTxSvc = (*MockAdvanceInTx)(nil)

func (m *MockAdvanceInTx) ReverseDeductionsInTx(ctx context.Context, tx pgx.Tx, tenantID string, payrollRunID string, actorUserID string) error {
	args := m.Called(ctx, tx, tenantID, payrollRunID, actorUserID)
	return args.Error(0)
}

// --- Mock ReversalService ---

type MockReversalService struct {
	mock.Mock
}

var _ portssvc.ReversalSvcFacade = (*MockReversalService)(nil)

func (m *MockReversalService) ReverseEntry(ctx context.Context, tenantID string, entryID string, reason string, reversalDate string, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, reason, reversalDate, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock AuditRecorder ---

type MockAuditRecorder struct {
	mock.Mock
}

var _ portssvc.AuditRecorderSvc = (*MockAuditRecorder)(nil)

func (m *MockAuditRecorder) Record(ctx context.Context, log domain.AuditLog) {
	m.Called(ctx, log)
}
