package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// Well-known control accounts for payable accruals and settlements.
var (
	payableAccountNames    = []string{"Accounts Payable", "Trade Payables"}
	receivableAccountNames = []string{"Accounts Receivable", "Trade Receivables"}
)

const (
	payableAccountCode    int64 = 20100
	receivableAccountCode int64 = 11000
)

// paymentService manages bills and invoices and settles them through the
// posting engine. A payment is one transaction: the payment row, the payable
// state, the counterparty totals and the GL entry commit together.
type paymentService struct {
	txManager   portsrepo.TransactionManager
	payableRepo portsrepo.PayableRepositoryFacade
	counterRepo portsrepo.CounterpartyRepositoryFacade
	bankRepo    portsrepo.BankAccountRepositoryFacade
	accountSvc  portssvc.AccountResolverSvc
	postingSvc  portssvc.PostingInTxSvc
	reversalSvc portssvc.ReversalSvcFacade
	tenantSvc   portssvc.TenantAuthorizerSvc
	auditSvc    portssvc.AuditRecorderSvc
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	txManager portsrepo.TransactionManager,
	payableRepo portsrepo.PayableRepositoryFacade,
	counterRepo portsrepo.CounterpartyRepositoryFacade,
	bankRepo portsrepo.BankAccountRepositoryFacade,
	accountSvc portssvc.AccountResolverSvc,
	postingSvc portssvc.PostingInTxSvc,
	reversalSvc portssvc.ReversalSvcFacade,
	tenantSvc portssvc.TenantAuthorizerSvc,
	auditSvc portssvc.AuditRecorderSvc,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		txManager:   txManager,
		payableRepo: payableRepo,
		counterRepo: counterRepo,
		bankRepo:    bankRepo,
		accountSvc:  accountSvc,
		postingSvc:  postingSvc,
		reversalSvc: reversalSvc,
		tenantSvc:   tenantSvc,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayable records a bill or invoice and posts its accrual entry:
// bills debit the offset expense account and credit accounts payable,
// invoices debit accounts receivable and credit the offset income account.
func (s *paymentService) CreatePayable(ctx context.Context, tenantID string, req dto.CreatePayableRequest, creatorUserID string) (*domain.PayableDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown payable kind %q", apperrors.ErrValidation, req.Kind)
	}
	amount := accounting.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payable amount must be positive", apperrors.ErrValidation)
	}
	issueDate, err := time.Parse(domain.DateOnly, req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid issue date %q", apperrors.ErrValidation, req.IssueDate)
	}

	existing, err := s.payableRepo.FindPayableByDocNumber(ctx, tenantID, req.Kind, req.DocNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check document number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s %s already exists", apperrors.ErrDuplicate, req.Kind, req.DocNumber)
	}

	now := time.Now().UTC()
	payable := domain.PayableDocument{
		PayableID:      uuid.NewString(),
		TenantID:       tenantID,
		Kind:           req.Kind,
		CounterpartyID: req.CounterpartyID,
		DocNumber:      req.DocNumber,
		TotalAmount:    amount,
		PaidAmount:     decimal.Zero,
		Status:         domain.PayableUnpaid,
		IssueDate:      issueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		counterparty, txErr := s.counterRepo.FindCounterpartyByIDInTx(ctx, tx, req.CounterpartyID)
		if txErr != nil {
			return fmt.Errorf("%w: counterparty %s", apperrors.ErrNotFound, req.CounterpartyID)
		}
		if counterparty.TenantID != tenantID {
			return apperrors.ErrNotFound // Obscure existence
		}
		if req.Kind == domain.KindBill && counterparty.Kind != domain.Vendor {
			return fmt.Errorf("%w: bills require a vendor counterparty", apperrors.ErrValidation)
		}
		if req.Kind == domain.KindInvoice && counterparty.Kind != domain.Customer {
			return fmt.Errorf("%w: invoices require a customer counterparty", apperrors.ErrValidation)
		}

		offset, txErr := s.accountSvc.ResolveAccount(ctx, tx, tenantID, req.OffsetAccountID)
		if txErr != nil {
			return txErr
		}

		var lines []accounting.LineInput
		var refType domain.ReferenceType
		switch req.Kind {
		case domain.KindBill:
			if offset.AccountType != domain.Expense {
				return fmt.Errorf("%w: bill offset account must be an expense account, got %s", apperrors.ErrValidation, offset.AccountType)
			}
			apAccount, txErr := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, payableAccountNames, payableAccountCode)
			if txErr != nil {
				return txErr
			}
			refType = domain.RefBill
			lines = []accounting.LineInput{
				{AccountID: offset.AccountID, Debit: amount},
				{AccountID: apAccount.AccountID, Credit: amount},
			}
		case domain.KindInvoice:
			if offset.AccountType != domain.Income {
				return fmt.Errorf("%w: invoice offset account must be an income account, got %s", apperrors.ErrValidation, offset.AccountType)
			}
			arAccount, txErr := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, receivableAccountNames, receivableAccountCode)
			if txErr != nil {
				return txErr
			}
			refType = domain.RefInvoice
			lines = []accounting.LineInput{
				{AccountID: arAccount.AccountID, Debit: amount},
				{AccountID: offset.AccountID, Credit: amount},
			}
		}

		description := req.Description
		if description == "" {
			description = fmt.Sprintf("%s %s from %s", req.Kind, req.DocNumber, counterparty.Name)
		}

		// A bill brings stock in, an invoice ships stock out. The movements
		// ride the same posting so they commit with the accrual entry.
		direction := domain.MovementIn
		if req.Kind == domain.KindInvoice {
			direction = domain.MovementOut
		}
		movements := make([]portssvc.MovementInput, len(req.Items))
		for i, item := range req.Items {
			movements[i] = portssvc.MovementInput{
				ItemID:    item.ItemID,
				Quantity:  item.Quantity,
				Direction: direction,
				UnitCost:  item.UnitCost,
			}
		}

		if _, txErr := s.postingSvc.PostEntryInTx(ctx, tx, tenantID, portssvc.PostEntryInput{
			EntryDate:     issueDate,
			Description:   description,
			ReferenceType: refType,
			ReferenceID:   payable.PayableID,
			Lines:         lines,
			Movements:     movements,
		}, creatorUserID); txErr != nil {
			return txErr
		}

		if txErr := s.counterRepo.ApplyTotalsDeltaInTx(ctx, tx, tenantID, counterparty.CounterpartyID, amount, decimal.Zero, creatorUserID, now); txErr != nil {
			return fmt.Errorf("failed to update counterparty totals: %w", txErr)
		}

		return s.payableRepo.SavePayableInTx(ctx, tx, payable)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payable created", slog.String("payable_id", payable.PayableID), slog.String("kind", string(payable.Kind)), slog.String("tenant_id", tenantID))
	return &payable, nil
}

// GetPayableByID retrieves a payable document.
func (s *paymentService) GetPayableByID(ctx context.Context, tenantID string, payableID string, requestingUserID string) (*domain.PayableDocument, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	payable, err := s.payableRepo.FindPayableByID(ctx, payableID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payable %s: %w", payableID, err)
	}
	if payable.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return payable, nil
}

// ListPayables retrieves a tenant's payables, optionally filtered by kind.
func (s *paymentService) ListPayables(ctx context.Context, tenantID string, kind *domain.PayableKind, requestingUserID string) ([]domain.PayableDocument, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	payables, err := s.payableRepo.ListPayablesByTenant(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list payables: %w", err)
	}
	return payables, nil
}

// RecordPayment settles part or all of a payable. Overpayment beyond the
// open balance is rejected.
func (s *paymentService) RecordPayment(ctx context.Context, tenantID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	amount := accounting.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	paymentDate, err := time.Parse(domain.DateOnly, req.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payment date %q", apperrors.ErrValidation, req.PaymentDate)
	}

	var payment *domain.Payment
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		payable, txErr := s.payableRepo.GetPayableForUpdateInTx(ctx, tx, req.PayableID)
		if txErr != nil {
			if errors.Is(txErr, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: payable %s", apperrors.ErrNotFound, req.PayableID)
			}
			return fmt.Errorf("failed to load payable %s: %w", req.PayableID, txErr)
		}
		if payable.TenantID != tenantID {
			return apperrors.ErrNotFound // Obscure existence
		}

		open := payable.TotalAmount.Sub(payable.PaidAmount)
		if amount.GreaterThan(open.Add(accounting.AmountEpsilon)) {
			return fmt.Errorf("%w: payment %s exceeds open balance %s", apperrors.ErrPrecondition, amount, open)
		}

		bank, txErr := s.bankRepo.FindBankAccountByIDInTx(ctx, tx, req.BankAccountID)
		if txErr != nil {
			return fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, req.BankAccountID)
		}
		if bank.TenantID != tenantID {
			return apperrors.ErrNotFound // Obscure existence
		}

		var lines []accounting.LineInput
		switch payable.Kind {
		case domain.KindBill:
			apAccount, txErr := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, payableAccountNames, payableAccountCode)
			if txErr != nil {
				return txErr
			}
			lines = []accounting.LineInput{
				{AccountID: apAccount.AccountID, Debit: amount},
				{AccountID: bank.AccountID, Credit: amount},
			}
		case domain.KindInvoice:
			arAccount, txErr := s.accountSvc.FindSystemAccount(ctx, tx, tenantID, receivableAccountNames, receivableAccountCode)
			if txErr != nil {
				return txErr
			}
			lines = []accounting.LineInput{
				{AccountID: bank.AccountID, Debit: amount},
				{AccountID: arAccount.AccountID, Credit: amount},
			}
		}

		paymentID := uuid.NewString()
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Payment against %s %s", payable.Kind, payable.DocNumber)
		}
		entry, txErr := s.postingSvc.PostEntryInTx(ctx, tx, tenantID, portssvc.PostEntryInput{
			EntryDate:     paymentDate,
			Description:   description,
			ReferenceType: payable.Kind.PaymentReferenceType(),
			ReferenceID:   paymentID,
			Lines:         lines,
		}, creatorUserID)
		if txErr != nil {
			return txErr
		}

		now := time.Now().UTC()
		payment = &domain.Payment{
			PaymentID:      paymentID,
			TenantID:       tenantID,
			PayableID:      payable.PayableID,
			Kind:           payable.Kind,
			Amount:         amount,
			PaymentDate:    paymentDate,
			BankAccountID:  bank.BankAccountID,
			CounterpartyID: payable.CounterpartyID,
			EntryID:        entry.EntryID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		if txErr := s.payableRepo.InsertPaymentInTx(ctx, tx, *payment); txErr != nil {
			return fmt.Errorf("failed to insert payment: %w", txErr)
		}

		payable.PaidAmount = payable.PaidAmount.Add(amount)
		payable.RecomputeStatus(accounting.AmountEpsilon)
		if txErr := s.payableRepo.UpdatePayablePaymentStateInTx(ctx, tx, payable.PayableID, payable.PaidAmount, payable.Status, creatorUserID, now); txErr != nil {
			return fmt.Errorf("failed to update payable state: %w", txErr)
		}

		return s.counterRepo.ApplyTotalsDeltaInTx(ctx, tx, tenantID, payable.CounterpartyID, decimal.Zero, amount, creatorUserID, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("payable_id", payment.PayableID),
		slog.String("amount", payment.Amount.String()),
		slog.String("tenant_id", tenantID))
	s.recordAudit(ctx, tenantID, creatorUserID, "payment.record", payment.PaymentID)
	return payment, nil
}

// ReversePayment undoes a payment by reversing its journal entry dated
// reversalDate; the reversal engine restores the payable, counterparty and
// bank state.
func (s *paymentService) ReversePayment(ctx context.Context, tenantID string, paymentID string, reason string, reversalDate string, requestingUserID string) (*domain.Payment, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	payment, err := s.payableRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	if payment.Reversed {
		return nil, fmt.Errorf("%w: payment %s is already reversed", apperrors.ErrPrecondition, paymentID)
	}

	if _, err := s.reversalSvc.ReverseEntry(ctx, tenantID, payment.EntryID, reason, reversalDate, requestingUserID); err != nil {
		return nil, err
	}

	payment.Reversed = true
	s.recordAudit(ctx, tenantID, requestingUserID, "payment.reverse", paymentID)
	return payment, nil
}

// recordAudit enqueues a best-effort audit record. Never fails the caller.
func (s *paymentService) recordAudit(ctx context.Context, tenantID, actorID, action, entityID string) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.Record(ctx, domain.AuditLog{
		AuditID:  uuid.NewString(),
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   action,
		Entity:   "payment",
		EntityID: entityID,
		At:       time.Now().UTC(),
	})
}
