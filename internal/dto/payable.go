package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePayableRequest defines the data needed to record a bill or invoice.
// OffsetAccountID is the expense (bill) or income (invoice) account the
// accrual entry books against.
type CreatePayableRequest struct {
	Kind            domain.PayableKind   `json:"kind" binding:"required,oneof=BILL INVOICE"`
	CounterpartyID  string               `json:"counterpartyID" binding:"required"`
	DocNumber       string               `json:"docNumber" binding:"required"`
	IssueDate       string               `json:"issueDate" binding:"required,dateonly"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	OffsetAccountID string               `json:"offsetAccountID" binding:"required"`
	Description     string               `json:"description"`
	Items           []PayableItemRequest `json:"items" binding:"omitempty,dive"`
}

// PayableItemRequest lists one stock item carried by a bill or invoice. Bills
// record incoming stock, invoices record outgoing stock, in the same
// transaction as the accrual entry.
type PayableItemRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unitCost"`
}

// RecordPaymentRequest defines a payment against a payable document.
type RecordPaymentRequest struct {
	PayableID     string          `json:"payableID" binding:"required"`
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate   string          `json:"paymentDate" binding:"required,dateonly"`
	Description   string          `json:"description"`
}

// PayableResponse defines the data returned for a payable document.
type PayableResponse struct {
	PayableID      string               `json:"payableID"`
	TenantID       string               `json:"tenantID"`
	Kind           domain.PayableKind   `json:"kind"`
	CounterpartyID string               `json:"counterpartyID"`
	DocNumber      string               `json:"docNumber"`
	IssueDate      time.Time            `json:"issueDate"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	PaidAmount     decimal.Decimal      `json:"paidAmount"`
	Status         domain.PayableStatus `json:"status"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID      string             `json:"paymentID"`
	TenantID       string             `json:"tenantID"`
	PayableID      string             `json:"payableID"`
	Kind           domain.PayableKind `json:"kind"`
	CounterpartyID string             `json:"counterpartyID"`
	BankAccountID  string             `json:"bankAccountID"`
	Amount         decimal.Decimal    `json:"amount"`
	PaymentDate    time.Time          `json:"paymentDate"`
	EntryID        string             `json:"entryID"`
	Reversed       bool               `json:"reversed"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
}

// ToPayableResponse converts a domain.PayableDocument to PayableResponse DTO.
func ToPayableResponse(p *domain.PayableDocument) PayableResponse {
	return PayableResponse{
		PayableID:      p.PayableID,
		TenantID:       p.TenantID,
		Kind:           p.Kind,
		CounterpartyID: p.CounterpartyID,
		DocNumber:      p.DocNumber,
		IssueDate:      p.IssueDate,
		TotalAmount:    p.TotalAmount,
		PaidAmount:     p.PaidAmount,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
	}
}

// ToListPayableResponse converts a slice of domain.PayableDocument to DTOs.
func ToListPayableResponse(payables []domain.PayableDocument) []PayableResponse {
	res := make([]PayableResponse, len(payables))
	for i, p := range payables {
		res[i] = ToPayableResponse(&p)
	}
	return res
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		TenantID:       p.TenantID,
		PayableID:      p.PayableID,
		Kind:           p.Kind,
		CounterpartyID: p.CounterpartyID,
		BankAccountID:  p.BankAccountID,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		EntryID:        p.EntryID,
		Reversed:       p.Reversed,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
	}
}
