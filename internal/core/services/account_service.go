package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// accountService is the account directory: CRUD-lite management plus the
// in-transaction resolution used by the posting and reversal engines.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	tenantSvc   portssvc.TenantAuthorizerSvc
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		tenantSvc:   tenantSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account after validating its type and code range.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if !req.AccountType.CodeInRange(req.Code) {
		min, max := req.AccountType.CodeRange()
		return nil, fmt.Errorf("%w: code %d outside range %d-%d for type %s", apperrors.ErrValidation, req.Code, min, max, req.AccountType)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for duplicate account code", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %d already in use", apperrors.ErrDuplicate, req.Code)
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, *req.ParentAccountID)
		}
		if parent.TenantID != tenantID {
			return nil, apperrors.ErrNotFound // Obscure existence
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		BankAccountID:   req.BankAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.Int64("code", account.Code), slog.String("tenant_id", tenantID))
	return &account, nil
}

// GetAccountByID retrieves a specific account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts in a tenant.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, requestingUserID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return &dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)}, nil
}

// UpdateAccount updates account details. Admin only.
func (s *accountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, tenantID, accountID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive. Refused for system accounts
// and accounts that already appear on journal lines.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	account, err := s.GetAccountByID(ctx, tenantID, accountID, requestingUserID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: system account %s cannot be deactivated", apperrors.ErrPrecondition, accountID)
	}

	hasHistory, err := s.accountRepo.HasJournalHistory(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check journal history: %w", err)
	}
	if hasHistory {
		return fmt.Errorf("%w: account %s has journal history", apperrors.ErrPrecondition, accountID)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID), slog.String("tenant_id", tenantID))
	return nil
}

// ResolveAccount re-reads the account inside the caller's transaction and
// checks ownership and active status. Never cached.
func (s *accountService) ResolveAccount(ctx context.Context, tx pgx.Tx, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountInTx(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to resolve account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return nil, fmt.Errorf("%w: account %s belongs to another tenant", apperrors.ErrForbidden, accountID)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrPrecondition, accountID)
	}
	return account, nil
}

// FindSystemAccount locates a well-known account by trying each name
// candidate in order, then falling back to the numeric code.
func (s *accountService) FindSystemAccount(ctx context.Context, tx pgx.Tx, tenantID string, names []string, code int64) (*domain.Account, error) {
	for _, name := range names {
		account, err := s.accountRepo.FindAccountByNameInTx(ctx, tx, tenantID, name)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to look up account %q: %w", name, err)
		}
		return account, nil
	}

	account, err := s.accountRepo.FindAccountByCodeInTx(ctx, tx, tenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account named %v or coded %d", apperrors.ErrNotFound, names, code)
		}
		return nil, fmt.Errorf("failed to look up account code %d: %w", code, err)
	}
	return account, nil
}
