package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// bankAccountService manages the bank accounts mirroring GL cash accounts.
type bankAccountService struct {
	bankRepo    portsrepo.BankAccountRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	tenantSvc   portssvc.TenantAuthorizerSvc
}

// NewBankAccountService creates a new BankAccountService.
func NewBankAccountService(bankRepo portsrepo.BankAccountRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.BankAccountSvcFacade {
	return &bankAccountService{
		bankRepo:    bankRepo,
		accountRepo: accountRepo,
		tenantSvc:   tenantSvc,
	}
}

var _ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)

// CreateBankAccount registers a bank account against a GL asset account.
func (s *bankAccountService) CreateBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.AccountID)
	}
	if account.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	if account.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: bank mirror must be an asset account, got %s", apperrors.ErrValidation, account.AccountType)
	}

	now := time.Now().UTC()
	bank := domain.BankAccount{
		BankAccountID: uuid.NewString(),
		TenantID:      tenantID,
		Name:          req.Name,
		AccountID:     req.AccountID,
		Balance:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bankRepo.SaveBankAccount(ctx, bank); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	// Link the GL account back to its bank mirror so the posting engine can
	// apply balance deltas.
	account.BankAccountID = &bank.BankAccountID
	account.LastUpdatedAt = now
	account.LastUpdatedBy = creatorUserID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to link GL account to bank account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to link GL account: %w", err)
	}

	logger.Info("Bank account created", slog.String("bank_account_id", bank.BankAccountID), slog.String("tenant_id", tenantID))
	return &bank, nil
}

// GetBankAccountByID retrieves a bank account.
func (s *bankAccountService) GetBankAccountByID(ctx context.Context, tenantID string, bankAccountID string, requestingUserID string) (*domain.BankAccount, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	bank, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	if bank.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return bank, nil
}

// counterpartyService manages customers and vendors.
type counterpartyService struct {
	counterRepo portsrepo.CounterpartyRepositoryFacade
	tenantSvc   portssvc.TenantAuthorizerSvc
}

// NewCounterpartyService creates a new CounterpartyService.
func NewCounterpartyService(counterRepo portsrepo.CounterpartyRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.CounterpartySvcFacade {
	return &counterpartyService{
		counterRepo: counterRepo,
		tenantSvc:   tenantSvc,
	}
}

var _ portssvc.CounterpartySvcFacade = (*counterpartyService)(nil)

// CreateCounterparty registers a customer or vendor.
func (s *counterpartyService) CreateCounterparty(ctx context.Context, tenantID string, req dto.CreateCounterpartyRequest, creatorUserID string) (*domain.Counterparty, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown counterparty kind %q", apperrors.ErrValidation, req.Kind)
	}

	now := time.Now().UTC()
	counterparty := domain.Counterparty{
		CounterpartyID: uuid.NewString(),
		TenantID:       tenantID,
		Kind:           req.Kind,
		Name:           req.Name,
		TotalBilled:    decimal.Zero,
		TotalPaid:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.counterRepo.SaveCounterparty(ctx, counterparty); err != nil {
		logger.Error("Failed to save counterparty", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save counterparty: %w", err)
	}

	logger.Info("Counterparty created", slog.String("counterparty_id", counterparty.CounterpartyID), slog.String("kind", string(req.Kind)), slog.String("tenant_id", tenantID))
	return &counterparty, nil
}

// GetCounterpartyByID retrieves a counterparty.
func (s *counterpartyService) GetCounterpartyByID(ctx context.Context, tenantID string, counterpartyID string, requestingUserID string) (*domain.Counterparty, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	counterparty, err := s.counterRepo.FindCounterpartyByID(ctx, counterpartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find counterparty %s: %w", counterpartyID, err)
	}
	if counterparty.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return counterparty, nil
}
