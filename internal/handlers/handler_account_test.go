package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/handlers"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID string, accountID string, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, requestingUserID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, tenantID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, requestingUserID string) error {
	args := m.Called(ctx, tenantID, accountID, requestingUserID)
	return args.Error(0)
}
func (m *MockAccountService) ResolveAccount(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) FindSystemAccount(ctx context.Context, tx pgx.Tx, tenantID string, names []string, code int64) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, names, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finbooks-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAccountService = new(MockAccountService)

	v1 := suite.router.Group("/api/v1/tenants/:tenantID")
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService)
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	tenantID := uuid.NewString()
	creatorUserID := uuid.NewString()

	reqBody := dto.CreateAccountRequest{
		Code:        11000,
		Name:        "Accounts Receivable",
		AccountType: domain.Asset,
	}
	expected := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		Code:        reqBody.Code,
		Name:        reqBody.Name,
		AccountType: reqBody.AccountType,
		IsActive:    true,
	}

	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		tenantID,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Code == reqBody.Code && r.Name == reqBody.Name
		}),
		creatorUserID,
	).Return(expected, nil).Once()

	body, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorUserID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.AccountID, resp.AccountID)
	suite.Equal(int64(11000), resp.Code)

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	tenantID := uuid.NewString()
	creatorUserID := uuid.NewString()

	suite.mockAccountService.On("CreateAccount", mock.Anything, tenantID, mock.Anything, creatorUserID).
		Return(nil, fmt.Errorf("code taken: %w", apperrors.ErrDuplicate)).Once()

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Code:        11000,
		Name:        "Accounts Receivable",
		AccountType: domain.Asset,
	})
	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorUserID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	tenantID := uuid.NewString()
	accountID := uuid.NewString()
	requestingUserID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID", mock.Anything, tenantID, accountID, requestingUserID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts/%s", tenantID, accountID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	tenantID := uuid.NewString()
	requestingUserID := uuid.NewString()

	expected := &dto.ListAccountsResponse{
		Accounts: []dto.AccountResponse{
			{AccountID: uuid.NewString(), TenantID: tenantID, Code: 10100, Name: "Cash", AccountType: domain.Asset},
			{AccountID: uuid.NewString(), TenantID: tenantID, Code: 20100, Name: "Accounts Payable", AccountType: domain.Liability},
		},
	}

	suite.mockAccountService.On("ListAccounts",
		mock.Anything,
		tenantID,
		requestingUserID,
		mock.MatchedBy(func(p dto.ListAccountsParams) bool {
			return p.Limit == 10 && p.Offset == 0
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts?limit=10", tenantID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListAccountsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	suite.Equal(int64(10100), resp.Accounts[0].Code)

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_SystemAccountRefused() {
	tenantID := uuid.NewString()
	accountID := uuid.NewString()
	requestingUserID := uuid.NewString()

	suite.mockAccountService.On("DeactivateAccount", mock.Anything, tenantID, accountID, requestingUserID).
		Return(fmt.Errorf("system account: %w", apperrors.ErrPrecondition)).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts/%s", tenantID, accountID)
	req, _ := http.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestMissingToken_Unauthorized() {
	url := fmt.Sprintf("/api/v1/tenants/%s/accounts", uuid.NewString())
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts")
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
