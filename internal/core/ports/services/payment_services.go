package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// PayableReaderSvc defines read operations for bills and invoices
type PayableReaderSvc interface {
	// GetPayableByID retrieves a payable document.
	GetPayableByID(ctx context.Context, tenantID string, payableID string, requestingUserID string) (*domain.PayableDocument, error)

	// ListPayables retrieves a tenant's payables, optionally filtered by kind.
	ListPayables(ctx context.Context, tenantID string, kind *domain.PayableKind, requestingUserID string) ([]domain.PayableDocument, error)
}

// PayableWriterSvc defines write operations for bills and invoices
type PayableWriterSvc interface {
	// CreatePayable records a bill or invoice and posts its accrual entry.
	CreatePayable(ctx context.Context, tenantID string, req dto.CreatePayableRequest, creatorUserID string) (*domain.PayableDocument, error)
}

// PaymentWriterSvc defines payment operations against payables
type PaymentWriterSvc interface {
	// RecordPayment settles part or all of a payable in one transaction:
	// payment row, payable paid-amount bump, bank and counterparty deltas, and
	// the balanced GL entry.
	RecordPayment(ctx context.Context, tenantID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Payment, error)

	// ReversePayment undoes a payment by reversing its journal entry, dated
	// reversalDate (a date-only string).
	ReversePayment(ctx context.Context, tenantID string, paymentID string, reason string, reversalDate string, requestingUserID string) (*domain.Payment, error)
}

// PaymentSvcFacade combines payable and payment service interfaces
type PaymentSvcFacade interface {
	PayableReaderSvc
	PayableWriterSvc
	PaymentWriterSvc
}
