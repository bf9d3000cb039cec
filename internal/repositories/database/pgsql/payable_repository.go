package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

const payableColumns = `payable_id, tenant_id, kind, counterparty_id, doc_number,
	       total_amount, paid_amount, status, issue_date,
	       created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, tenant_id, payable_id, kind, amount, payment_date,
	       bank_account_id, counterparty_id, entry_id, reversed,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxPayableRepository struct {
	BaseRepository
}

// newPgxPayableRepository creates a new repository for bills, invoices and
// their payments.
func newPgxPayableRepository(pool *pgxpool.Pool) portsrepo.PayableRepositoryFacade {
	return &PgxPayableRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayableRepositoryFacade = (*PgxPayableRepository)(nil)

func scanPayable(row pgx.Row) (*domain.PayableDocument, error) {
	var model models.PayableDocument
	err := row.Scan(
		&model.PayableID,
		&model.TenantID,
		&model.Kind,
		&model.CounterpartyID,
		&model.DocNumber,
		&model.TotalAmount,
		&model.PaidAmount,
		&model.Status,
		&model.IssueDate,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan payable row", err)
	}
	payable := mapping.ToDomainPayable(model)
	return &payable, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var model models.Payment
	err := row.Scan(
		&model.PaymentID,
		&model.TenantID,
		&model.PayableID,
		&model.Kind,
		&model.Amount,
		&model.PaymentDate,
		&model.BankAccountID,
		&model.CounterpartyID,
		&model.EntryID,
		&model.Reversed,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
	}
	payment := mapping.ToDomainPayment(model)
	return &payment, nil
}

// FindPayableByID retrieves a payable document by its ID.
func (r *PgxPayableRepository) FindPayableByID(ctx context.Context, payableID string) (*domain.PayableDocument, error) {
	query := `SELECT ` + payableColumns + ` FROM payable_documents WHERE payable_id = $1;`
	return scanPayable(r.Pool.QueryRow(ctx, query, payableID))
}

// FindPayableByDocNumber retrieves a tenant's payable by kind and number.
func (r *PgxPayableRepository) FindPayableByDocNumber(ctx context.Context, tenantID string, kind domain.PayableKind, docNumber string) (*domain.PayableDocument, error) {
	query := `SELECT ` + payableColumns + ` FROM payable_documents WHERE tenant_id = $1 AND kind = $2 AND doc_number = $3;`
	return scanPayable(r.Pool.QueryRow(ctx, query, tenantID, string(kind), docNumber))
}

// ListPayablesByTenant retrieves payables for a tenant, newest first.
func (r *PgxPayableRepository) ListPayablesByTenant(ctx context.Context, tenantID string, kind *domain.PayableKind) ([]domain.PayableDocument, error) {
	query := `SELECT ` + payableColumns + `
		FROM payable_documents
		WHERE tenant_id = $1 AND ($2::text IS NULL OR kind = $2)
		ORDER BY issue_date DESC, created_at DESC;`
	var kindArg *string
	if kind != nil {
		k := string(*kind)
		kindArg = &k
	}
	rows, err := r.Pool.Query(ctx, query, tenantID, kindArg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payables for tenant "+tenantID, err)
	}
	defer rows.Close()

	payables := []domain.PayableDocument{}
	for rows.Next() {
		payable, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		payables = append(payables, *payable)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payable rows for tenant "+tenantID, err)
	}
	return payables, nil
}

// SavePayableInTx persists a new payable document inside the caller's
// transaction, so the document commits or rolls back with its booking entry.
func (r *PgxPayableRepository) SavePayableInTx(ctx context.Context, tx pgx.Tx, payable domain.PayableDocument) error {
	model := mapping.ToModelPayable(payable)
	query := `
		INSERT INTO payable_documents (payable_id, tenant_id, kind, counterparty_id, doc_number,
		                               total_amount, paid_amount, status, issue_date,
		                               created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		model.PayableID,
		model.TenantID,
		model.Kind,
		model.CounterpartyID,
		model.DocNumber,
		model.TotalAmount,
		model.PaidAmount,
		model.Status,
		model.IssueDate,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payable "+model.PayableID, err)
	}
	return nil
}

// FindPaymentByID retrieves a payment record by its ID.
func (r *PgxPayableRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	return scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
}

// GetPayableForUpdateInTx retrieves a payable with a row lock.
func (r *PgxPayableRepository) GetPayableForUpdateInTx(ctx context.Context, tx pgx.Tx, payableID string) (*domain.PayableDocument, error) {
	query := `SELECT ` + payableColumns + ` FROM payable_documents WHERE payable_id = $1 FOR UPDATE;`
	return scanPayable(tx.QueryRow(ctx, query, payableID))
}

// UpdatePayablePaymentStateInTx writes back the paid amount and status.
func (r *PgxPayableRepository) UpdatePayablePaymentStateInTx(ctx context.Context, tx pgx.Tx, payableID string, paidAmount decimal.Decimal, status domain.PayableStatus, userID string, now time.Time) error {
	query := `
		UPDATE payable_documents
		SET paid_amount = $2,
		    status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE payable_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, payableID, paidAmount, string(status), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment state of payable "+payableID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payable " + payableID + " not found for payment state update")
	}
	return nil
}

// InsertPaymentInTx writes a payment record.
func (r *PgxPayableRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	model := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, tenant_id, payable_id, kind, amount, payment_date,
		                      bank_account_id, counterparty_id, entry_id, reversed,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		model.PaymentID,
		model.TenantID,
		model.PayableID,
		model.Kind,
		model.Amount,
		model.PaymentDate,
		model.BankAccountID,
		model.CounterpartyID,
		model.EntryID,
		model.Reversed,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+model.PaymentID, err)
	}
	return nil
}

// FindPaymentByEntryIDInTx locates the payment record created alongside a
// journal entry, with a row lock.
func (r *PgxPayableRepository) FindPaymentByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE entry_id = $1 FOR UPDATE;`
	return scanPayment(tx.QueryRow(ctx, query, entryID))
}

// MarkPaymentReversedInTx flags a payment record as reversed.
func (r *PgxPayableRepository) MarkPaymentReversedInTx(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error {
	query := `
		UPDATE payments
		SET reversed = TRUE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE payment_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, paymentID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payment "+paymentID+" reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment " + paymentID + " not found for reversal update")
	}
	return nil
}
