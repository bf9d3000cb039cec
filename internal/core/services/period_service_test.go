package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	mockAuthorizer *MockTenantAuthorizer
	service        portssvc.PeriodSvcFacade

	tenantID   string
	userID     string
	membership *domain.TenantMembership
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockAuthorizer = new(MockTenantAuthorizer)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo, suite.mockAuthorizer)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.membership = &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
}

func (suite *PeriodServiceTestSuite) TestAssertUnlocked_NoLockSources() {
	ctx := context.Background()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindLockCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(nil, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(nil, nil).Once()

	err := suite.service.AssertUnlocked(ctx, nil, suite.tenantID, date)

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestAssertUnlocked_AdHocLock() {
	ctx := context.Background()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	lock := &domain.PeriodLock{
		LockID:    uuid.NewString(),
		TenantID:  suite.tenantID,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Reason:    "Q1 close in progress",
	}

	suite.mockPeriodRepo.On("FindLockCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(lock, nil).Once()

	err := suite.service.AssertUnlocked(ctx, nil, suite.tenantID, date)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	// The ad-hoc lock short-circuits; the period table is never consulted.
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "FindPeriodCoveringInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestAssertUnlocked_ClosedPeriod() {
	ctx := context.Background()
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	period := &domain.FinancialPeriod{
		PeriodID:  uuid.NewString(),
		TenantID:  suite.tenantID,
		Name:      "February 2025",
		StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodClosed,
	}

	suite.mockPeriodRepo.On("FindLockCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(nil, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(period, nil).Once()

	err := suite.service.AssertUnlocked(ctx, nil, suite.tenantID, date)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
}

func (suite *PeriodServiceTestSuite) TestAssertUnlocked_OpenPeriod() {
	ctx := context.Background()
	date := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	period := &domain.FinancialPeriod{
		PeriodID: uuid.NewString(),
		TenantID: suite.tenantID,
		Name:     "April 2025",
		Status:   domain.PeriodOpen,
	}

	suite.mockPeriodRepo.On("FindLockCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(nil, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodCoveringInTx", mock.Anything, mock.Anything, suite.tenantID, date).Return(period, nil).Once()

	err := suite.service.AssertUnlocked(ctx, nil, suite.tenantID, date)

	suite.Require().NoError(err)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_EndBeforeStart() {
	ctx := context.Background()
	req := dto.CreatePeriodRequest{
		Name:      "Backwards",
		StartDate: "2025-03-31",
		EndDate:   "2025-03-01",
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleAdmin).
		Return(suite.membership, nil).Once()

	period, err := suite.service.CreatePeriod(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(period)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUpdatePeriodStatus_IllegalTransition() {
	ctx := context.Background()
	period := &domain.FinancialPeriod{
		PeriodID: uuid.NewString(),
		TenantID: suite.tenantID,
		Name:     "January 2025",
		Status:   domain.PeriodLocked,
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleAdmin).
		Return(suite.membership, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period.PeriodID).Return(period, nil).Once()

	updated, err := suite.service.UpdatePeriodStatus(ctx, suite.tenantID, period.PeriodID, dto.UpdatePeriodStatusRequest{Status: domain.PeriodOpen}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Nil(updated)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreateLock_OpenEnded() {
	ctx := context.Background()
	req := dto.CreateLockRequest{
		StartDate: "2025-01-01",
		Reason:    "Migration freeze",
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleAdmin).
		Return(suite.membership, nil).Once()
	suite.mockPeriodRepo.On("SaveLock", mock.Anything, mock.MatchedBy(func(l domain.PeriodLock) bool {
		return l.TenantID == suite.tenantID && l.EndDate == nil && l.Reason == "Migration freeze"
	})).Return(nil).Once()

	lock, err := suite.service.CreateLock(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(lock)
	suite.Nil(lock.EndDate)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestDeleteLock_CrossTenant() {
	ctx := context.Background()
	lock := &domain.PeriodLock{
		LockID:   uuid.NewString(),
		TenantID: uuid.NewString(), // different tenant
	}

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleAdmin).
		Return(suite.membership, nil).Once()
	suite.mockPeriodRepo.On("FindLockByID", mock.Anything, lock.LockID).Return(lock, nil).Once()

	err := suite.service.DeleteLock(ctx, suite.tenantID, lock.LockID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "DeleteLock", mock.Anything, mock.Anything)
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
