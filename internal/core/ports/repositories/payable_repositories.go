package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PayableReader defines read operations for bills and invoices.
type PayableReader interface {
	// FindPayableByID retrieves a payable document.
	FindPayableByID(ctx context.Context, payableID string) (*domain.PayableDocument, error)

	// FindPayableByDocNumber retrieves a tenant's payable by kind and number.
	FindPayableByDocNumber(ctx context.Context, tenantID string, kind domain.PayableKind, docNumber string) (*domain.PayableDocument, error)

	// ListPayablesByTenant retrieves payables for a tenant, newest first.
	ListPayablesByTenant(ctx context.Context, tenantID string, kind *domain.PayableKind) ([]domain.PayableDocument, error)
}

// PayableWriter defines write operations for bills and invoices. A payable is
// created in the same transaction as its booking entry, so the insert takes
// the transaction handle.
type PayableWriter interface {
	// SavePayableInTx persists a new payable document inside the caller's
	// transaction.
	SavePayableInTx(ctx context.Context, tx pgx.Tx, payable domain.PayableDocument) error
}

// PaymentTransactionSupport defines the payment bookkeeping that runs inside
// the posting or reversal transaction.
type PaymentTransactionSupport interface {
	// GetPayableForUpdateInTx retrieves a payable with a row lock.
	GetPayableForUpdateInTx(ctx context.Context, tx pgx.Tx, payableID string) (*domain.PayableDocument, error)

	// UpdatePayablePaymentStateInTx writes back the paid amount and status.
	UpdatePayablePaymentStateInTx(ctx context.Context, tx pgx.Tx, payableID string, paidAmount decimal.Decimal, status domain.PayableStatus, userID string, now time.Time) error

	// InsertPaymentInTx writes a payment record.
	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// FindPaymentByEntryIDInTx locates the payment record created alongside a
	// journal entry, with a row lock.
	FindPaymentByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.Payment, error)

	// MarkPaymentReversedInTx flags a payment record as reversed.
	MarkPaymentReversedInTx(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error
}

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment record.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
}

// PayableRepositoryFacade combines payable and payment repository interfaces.
type PayableRepositoryFacade interface {
	PayableReader
	PayableWriter
	PaymentReader
	PaymentTransactionSupport
}
