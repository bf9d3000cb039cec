package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockAuthorizer  *MockTenantAuthorizer
	service         portssvc.AccountSvcFacade

	tenantID   string
	userID     string
	membership *domain.TenantMembership
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuthorizer = new(MockTenantAuthorizer)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockAuthorizer)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.membership = &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        11010,
		Name:        "Petty Cash",
		AccountType: domain.Asset,
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleMember).
		Return(suite.membership, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, int64(11010)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.TenantID == suite.tenantID && a.Code == 11010 && a.IsActive && !a.IsSystem
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CodeOutsideTypeRange() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        50100, // expense-range code
		Name:        "Mislabelled",
		AccountType: domain.Asset,
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleMember).
		Return(suite.membership, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        11010,
		Name:        "Petty Cash",
		AccountType: domain.Asset,
	}
	existing := &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: 11010}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleMember).
		Return(suite.membership, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, int64(11010)).Return(existing, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            11020,
		Name:            "Sub Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}
	parent := &domain.Account{AccountID: parentID, TenantID: suite.tenantID, AccountType: domain.Expense}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleMember).
		Return(suite.membership, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.tenantID, int64(11020)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, parentID).Return(parent, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccount() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Name:        "Employee Advances",
		AccountType: domain.Asset,
		IsActive:    true,
		IsSystem:    true,
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleAdmin).
		Return(suite.membership, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleReadOnly).
		Return(suite.membership, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.tenantID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_WithJournalHistory() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Name:        "Old Supplies",
		AccountType: domain.Expense,
		IsActive:    true,
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleAdmin).
		Return(suite.membership, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleReadOnly).
		Return(suite.membership, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasJournalHistory", mock.Anything, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.tenantID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestResolveAccount_CrossTenant() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    uuid.NewString(), // different tenant
		AccountType: domain.Asset,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("GetAccountInTx", mock.Anything, mock.Anything, account.AccountID).Return(account, nil).Once()

	resolved, err := suite.service.ResolveAccount(ctx, nil, suite.tenantID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(resolved)
}

func (suite *AccountServiceTestSuite) TestResolveAccount_Inactive() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		AccountType: domain.Asset,
		IsActive:    false,
	}

	suite.mockAccountRepo.On("GetAccountInTx", mock.Anything, mock.Anything, account.AccountID).Return(account, nil).Once()

	resolved, err := suite.service.ResolveAccount(ctx, nil, suite.tenantID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Nil(resolved)
}

func (suite *AccountServiceTestSuite) TestFindSystemAccount_NameThenCodeFallback() {
	ctx := context.Background()
	target := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        11500,
		Name:        "Advances to Staff", // neither candidate name matches
		AccountType: domain.Asset,
		IsActive:    true,
		IsSystem:    true,
	}
	names := []string{"Employee Advances", "Staff Advances"}

	suite.mockAccountRepo.On("FindAccountByNameInTx", mock.Anything, mock.Anything, suite.tenantID, "Employee Advances").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByNameInTx", mock.Anything, mock.Anything, suite.tenantID, "Staff Advances").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, suite.tenantID, int64(11500)).Return(target, nil).Once()

	account, err := suite.service.FindSystemAccount(ctx, nil, suite.tenantID, names, 11500)

	suite.Require().NoError(err)
	suite.Equal(target.AccountID, account.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestFindSystemAccount_NotConfigured() {
	ctx := context.Background()
	names := []string{"Employee Advances"}

	suite.mockAccountRepo.On("FindAccountByNameInTx", mock.Anything, mock.Anything, suite.tenantID, "Employee Advances").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, suite.tenantID, int64(11500)).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.FindSystemAccount(ctx, nil, suite.tenantID, names, 11500)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
