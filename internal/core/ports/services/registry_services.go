package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// BankAccountSvcFacade manages the bank accounts whose balances mirror GL
// cash accounts.
type BankAccountSvcFacade interface {
	// CreateBankAccount registers a bank account against a GL asset account.
	CreateBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)

	// GetBankAccountByID retrieves a bank account.
	GetBankAccountByID(ctx context.Context, tenantID string, bankAccountID string, requestingUserID string) (*domain.BankAccount, error)
}

// CounterpartySvcFacade manages customers and vendors.
type CounterpartySvcFacade interface {
	// CreateCounterparty registers a customer or vendor.
	CreateCounterparty(ctx context.Context, tenantID string, req dto.CreateCounterpartyRequest, creatorUserID string) (*domain.Counterparty, error)

	// GetCounterpartyByID retrieves a counterparty.
	GetCounterpartyByID(ctx context.Context, tenantID string, counterpartyID string, requestingUserID string) (*domain.Counterparty, error)
}
