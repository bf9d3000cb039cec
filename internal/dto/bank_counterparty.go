package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
// AccountID is the GL asset account the bank balance mirrors.
type CreateBankAccountRequest struct {
	Name      string `json:"name" binding:"required"`
	AccountID string `json:"accountID" binding:"required"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID string          `json:"bankAccountID"`
	TenantID      string          `json:"tenantID"`
	Name          string          `json:"name"`
	AccountID     string          `json:"accountID"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// CreateCounterpartyRequest defines the data needed to register a customer or vendor.
type CreateCounterpartyRequest struct {
	Name string                  `json:"name" binding:"required"`
	Kind domain.CounterpartyKind `json:"kind" binding:"required,oneof=CUSTOMER VENDOR"`
}

// CounterpartyResponse defines the data returned for a counterparty.
type CounterpartyResponse struct {
	CounterpartyID string                  `json:"counterpartyID"`
	TenantID       string                  `json:"tenantID"`
	Name           string                  `json:"name"`
	Kind           domain.CounterpartyKind `json:"kind"`
	TotalBilled    decimal.Decimal         `json:"totalBilled"`
	TotalPaid      decimal.Decimal         `json:"totalPaid"`
	CreatedAt      time.Time               `json:"createdAt"`
	CreatedBy      string                  `json:"createdBy"`
}

// ToBankAccountResponse converts a domain.BankAccount to BankAccountResponse DTO.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID: b.BankAccountID,
		TenantID:      b.TenantID,
		Name:          b.Name,
		AccountID:     b.AccountID,
		Balance:       b.Balance,
		CreatedAt:     b.CreatedAt,
		CreatedBy:     b.CreatedBy,
	}
}

// ToCounterpartyResponse converts a domain.Counterparty to CounterpartyResponse DTO.
func ToCounterpartyResponse(c *domain.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		CounterpartyID: c.CounterpartyID,
		TenantID:       c.TenantID,
		Name:           c.Name,
		Kind:           c.Kind,
		TotalBilled:    c.TotalBilled,
		TotalPaid:      c.TotalPaid,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
	}
}
