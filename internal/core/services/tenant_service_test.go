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

type TenantServiceTestSuite struct {
	suite.Suite
	mockTenantRepo *MockTenantRepository
	service        portssvc.TenantSvcFacade

	userID string
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.service = services.NewTenantService(suite.mockTenantRepo)
	suite.userID = uuid.NewString()
}

func (suite *TenantServiceTestSuite) TestCreateTenant_Success() {
	ctx := context.Background()
	req := dto.CreateTenantRequest{Name: "Acme Books", DefaultCurrencyCode: "usd"}

	suite.mockTenantRepo.On("SaveTenant", mock.Anything, mock.MatchedBy(func(t domain.Tenant) bool {
		return t.Name == "Acme Books" && t.DefaultCurrencyCode == "USD" && t.IsActive && !t.OpeningBalancesPosted
	})).Return(nil).Once()
	suite.mockTenantRepo.On("SaveMembership", mock.Anything, mock.MatchedBy(func(m domain.TenantMembership) bool {
		return m.UserID == suite.userID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	tenant, err := suite.service.CreateTenant(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(tenant)
	suite.NotEmpty(tenant.TenantID)
	suite.Equal(suite.userID, tenant.CreatedBy)
	suite.mockTenantRepo.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestCreateTenant_BlankName() {
	ctx := context.Background()
	req := dto.CreateTenantRequest{Name: "   ", DefaultCurrencyCode: "USD"}

	tenant, err := suite.service.CreateTenant(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(tenant)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "SaveTenant", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserForTenant_NoMembership() {
	ctx := context.Background()
	tenantID := uuid.NewString()

	suite.mockTenantRepo.On("FindMembership", mock.Anything, suite.userID, tenantID).Return(nil, apperrors.ErrNotFound).Once()

	membership, err := suite.service.AuthorizeUserForTenant(ctx, suite.userID, tenantID, domain.RoleReadOnly)

	suite.Require().Error(err)
	// Missing membership reads as forbidden, not not-found, so callers cannot
	// probe for tenant existence.
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(membership)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserForTenant_InsufficientRole() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	membership := &domain.TenantMembership{UserID: suite.userID, TenantID: tenantID, Role: domain.RoleReadOnly}

	suite.mockTenantRepo.On("FindMembership", mock.Anything, suite.userID, tenantID).Return(membership, nil).Once()

	result, err := suite.service.AuthorizeUserForTenant(ctx, suite.userID, tenantID, domain.RoleAdmin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(result)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserForTenant_RoleMeetsMinimum() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	membership := &domain.TenantMembership{UserID: suite.userID, TenantID: tenantID, Role: domain.RoleAdmin}

	suite.mockTenantRepo.On("FindMembership", mock.Anything, suite.userID, tenantID).Return(membership, nil).Once()

	result, err := suite.service.AuthorizeUserForTenant(ctx, suite.userID, tenantID, domain.RoleMember)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, result.Role)
}

func (suite *TenantServiceTestSuite) TestAddMember_Success() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	newUserID := uuid.NewString()
	admin := &domain.TenantMembership{UserID: suite.userID, TenantID: tenantID, Role: domain.RoleAdmin}
	req := dto.AddMemberRequest{UserID: newUserID, Role: domain.RoleMember}

	suite.mockTenantRepo.On("FindMembership", mock.Anything, suite.userID, tenantID).Return(admin, nil).Once()
	suite.mockTenantRepo.On("FindMembership", mock.Anything, newUserID, tenantID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTenantRepo.On("SaveMembership", mock.Anything, mock.MatchedBy(func(m domain.TenantMembership) bool {
		return m.UserID == newUserID && m.TenantID == tenantID && m.Role == domain.RoleMember
	})).Return(nil).Once()

	membership, err := suite.service.AddMember(ctx, tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(membership)
	suite.Equal(domain.RoleMember, membership.Role)
	suite.mockTenantRepo.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestAddMember_AlreadyMember() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	newUserID := uuid.NewString()
	admin := &domain.TenantMembership{UserID: suite.userID, TenantID: tenantID, Role: domain.RoleAdmin}
	existing := &domain.TenantMembership{UserID: newUserID, TenantID: tenantID, Role: domain.RoleReadOnly}
	req := dto.AddMemberRequest{UserID: newUserID, Role: domain.RoleMember}

	suite.mockTenantRepo.On("FindMembership", mock.Anything, suite.userID, tenantID).Return(admin, nil).Once()
	suite.mockTenantRepo.On("FindMembership", mock.Anything, newUserID, tenantID).Return(existing, nil).Once()

	membership, err := suite.service.AddMember(ctx, tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(membership)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestAddMember_RequiresAdmin() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	member := &domain.TenantMembership{UserID: suite.userID, TenantID: tenantID, Role: domain.RoleMember}
	req := dto.AddMemberRequest{UserID: uuid.NewString(), Role: domain.RoleMember}

	suite.mockTenantRepo.On("FindMembership", mock.Anything, suite.userID, tenantID).Return(member, nil).Once()

	membership, err := suite.service.AddMember(ctx, tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(membership)
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
