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
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// reversalService creates compensating entries. A reversal never edits the
// original: it posts an exact debit/credit mirror, rolls back the original's
// side effects by type, and annotates the original with the linkage.
type reversalService struct {
	txManager     portsrepo.TransactionManager
	entryRepo     portsrepo.EntryRepositoryFacade
	payableRepo   portsrepo.PayableRepositoryFacade
	counterRepo   portsrepo.CounterpartyRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryFacade
	postingSvc    portssvc.PostingInTxSvc
	advanceSvc    portssvc.AdvanceInTxSvc
	tenantSvc     portssvc.TenantAuthorizerSvc
	auditSvc      portssvc.AuditRecorderSvc
}

// NewReversalService creates a new ReversalService.
func NewReversalService(
	txManager portsrepo.TransactionManager,
	entryRepo portsrepo.EntryRepositoryFacade,
	payableRepo portsrepo.PayableRepositoryFacade,
	counterRepo portsrepo.CounterpartyRepositoryFacade,
	inventoryRepo portsrepo.InventoryRepositoryFacade,
	postingSvc portssvc.PostingInTxSvc,
	advanceSvc portssvc.AdvanceInTxSvc,
	tenantSvc portssvc.TenantAuthorizerSvc,
	auditSvc portssvc.AuditRecorderSvc,
) portssvc.ReversalSvcFacade {
	return &reversalService{
		txManager:     txManager,
		entryRepo:     entryRepo,
		payableRepo:   payableRepo,
		counterRepo:   counterRepo,
		inventoryRepo: inventoryRepo,
		postingSvc:    postingSvc,
		advanceSvc:    advanceSvc,
		tenantSvc:     tenantSvc,
		auditSvc:      auditSvc,
	}
}

var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// ReverseEntry posts the mirror of a posted entry dated reversalDate and
// undoes its side effects. The period guard runs against reversalDate, so
// reversing into a locked period is rejected. The whole reversal is one
// transaction; re-reversing the same entry is rejected through the reversal
// linkage on the original.
func (s *reversalService) ReverseEntry(ctx context.Context, tenantID string, entryID string, reason string, reversalDate string, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}
	entryDate, err := time.Parse(domain.DateOnly, reversalDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reversal date %q", apperrors.ErrValidation, reversalDate)
	}

	var reversal *domain.JournalEntry
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		original, err := s.entryRepo.GetEntryForUpdateInTx(ctx, tx, entryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
			}
			return fmt.Errorf("failed to load entry %s: %w", entryID, err)
		}
		if original.TenantID != tenantID {
			return apperrors.ErrNotFound // Obscure existence
		}
		if !original.Posted {
			return fmt.Errorf("%w: entry %s is not posted", apperrors.ErrPrecondition, entryID)
		}
		if original.IsReversal {
			return fmt.Errorf("%w: entry %s is itself a reversal", apperrors.ErrPrecondition, entryID)
		}
		if original.IsReversed || original.ReversalEntry != nil {
			return fmt.Errorf("%w: entry %s is already reversed by %s", apperrors.ErrPrecondition, entryID, deref(original.ReversalEntry))
		}

		lines, err := s.entryRepo.FindLinesByEntryIDInTx(ctx, tx, entryID)
		if err != nil {
			return fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
		}
		if len(lines) < 2 {
			return fmt.Errorf("%w: entry %s has %d lines, cannot reverse", apperrors.ErrInternal, entryID, len(lines))
		}

		// Mirror debit and credit verbatim. Amounts are never recomputed, so
		// the reversal balances exactly like the original did.
		mirrored := make([]accounting.LineInput, len(lines))
		for i, line := range lines {
			m := line.Mirror()
			mirrored[i] = accounting.LineInput{
				AccountID:   m.AccountID,
				Debit:       m.Debit,
				Credit:      m.Credit,
				Description: m.Description,
			}
		}

		now := time.Now().UTC()
		reversal, err = s.postingSvc.PostEntryInTx(ctx, tx, tenantID, portssvc.PostEntryInput{
			EntryDate:     entryDate,
			Description:   fmt.Sprintf("Reversal of %s: %s", entryID, original.Description),
			ReferenceType: domain.RefManualEntry,
			ReferenceID:   entryID,
			Reason:        reason,
			IsReversal:    true,
			ReversalOf:    &entryID,
			Lines:         mirrored,
		}, requestingUserID)
		if err != nil {
			return err
		}

		if err := s.undoSideEffects(ctx, tx, tenantID, original, requestingUserID, entryDate, now); err != nil {
			return err
		}

		if err := s.entryRepo.MarkEntryReversedInTx(ctx, tx, entryID, reversal.EntryID, requestingUserID, now); err != nil {
			return fmt.Errorf("failed to annotate original entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID), slog.String("tenant_id", tenantID))
	s.recordAudit(ctx, tenantID, requestingUserID, entryID, reversal.EntryID, reason)
	return reversal, nil
}

// undoSideEffects rolls back what the original entry did outside the ledger.
// Bank balances are restored by the mirrored lines themselves; everything
// else is handled here by reference type.
func (s *reversalService) undoSideEffects(ctx context.Context, tx pgx.Tx, tenantID string, original *domain.JournalEntry, userID string, movementDate time.Time, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch {
	case original.ReferenceType.IsPayment():
		if err := s.undoPayment(ctx, tx, tenantID, original, userID, now); err != nil {
			return err
		}
	case original.ReferenceType == domain.RefPayroll:
		if err := s.advanceSvc.ReverseDeductionsInTx(ctx, tx, tenantID, original.ReferenceID, userID); err != nil {
			return fmt.Errorf("failed to reverse payroll deductions for run %s: %w", original.ReferenceID, err)
		}
	}

	// Inventory history is append-only: reversing records opposite movements.
	movements, err := s.inventoryRepo.ListMovementsByEntryInTx(ctx, tx, original.EntryID)
	if err != nil {
		return fmt.Errorf("failed to load inventory movements: %w", err)
	}
	for _, mv := range movements {
		if mv.Reversed {
			continue
		}
		opposite := domain.InventoryMovement{
			MovementID:    uuid.NewString(),
			TenantID:      tenantID,
			ItemID:        mv.ItemID,
			Quantity:      mv.Quantity,
			Direction:     mv.Direction.Opposite(),
			UnitCost:      mv.UnitCost,
			ReferenceType: domain.RefManualEntry,
			ReferenceID:   original.EntryID,
			EntryID:       original.EntryID,
			MovementDate:  movementDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.inventoryRepo.InsertMovementInTx(ctx, tx, opposite); err != nil {
			return fmt.Errorf("failed to record opposite inventory movement: %w", err)
		}
		if err := s.inventoryRepo.MarkMovementReversedInTx(ctx, tx, mv.MovementID, userID, now); err != nil {
			return fmt.Errorf("failed to flag inventory movement reversed: %w", err)
		}
		logger.Debug("Inventory movement reversed", slog.String("movement_id", mv.MovementID), slog.String("entry_id", original.EntryID))
	}
	return nil
}

// undoPayment restores the payable, counterparty and payment row of a
// BILL_PAYMENT or INVOICE_PAYMENT entry.
func (s *reversalService) undoPayment(ctx context.Context, tx pgx.Tx, tenantID string, original *domain.JournalEntry, userID string, now time.Time) error {
	payment, err := s.payableRepo.FindPaymentByEntryIDInTx(ctx, tx, original.EntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no payment recorded for entry %s", apperrors.ErrInternal, original.EntryID)
		}
		return fmt.Errorf("failed to load payment for entry %s: %w", original.EntryID, err)
	}
	if payment.Reversed {
		return fmt.Errorf("%w: payment %s is already reversed", apperrors.ErrPrecondition, payment.PaymentID)
	}

	payable, err := s.payableRepo.GetPayableForUpdateInTx(ctx, tx, payment.PayableID)
	if err != nil {
		return fmt.Errorf("failed to load payable %s: %w", payment.PayableID, err)
	}

	restored := payable.PaidAmount.Sub(payment.Amount)
	if restored.IsNegative() {
		restored = decimal.Zero
	}
	payable.PaidAmount = restored
	payable.RecomputeStatus(accounting.AmountEpsilon)
	if err := s.payableRepo.UpdatePayablePaymentStateInTx(ctx, tx, payable.PayableID, payable.PaidAmount, payable.Status, userID, now); err != nil {
		return fmt.Errorf("failed to restore payable %s: %w", payable.PayableID, err)
	}

	if err := s.counterRepo.ApplyTotalsDeltaInTx(ctx, tx, tenantID, payment.CounterpartyID, decimal.Zero, payment.Amount.Neg(), userID, now); err != nil {
		return fmt.Errorf("failed to roll back counterparty totals: %w", err)
	}

	if err := s.payableRepo.MarkPaymentReversedInTx(ctx, tx, payment.PaymentID, userID, now); err != nil {
		return fmt.Errorf("failed to flag payment reversed: %w", err)
	}
	return nil
}

// recordAudit enqueues a best-effort audit record. Never fails the caller.
func (s *reversalService) recordAudit(ctx context.Context, tenantID, actorID, entryID, reversalEntryID, reason string) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.Record(ctx, domain.AuditLog{
		AuditID:  uuid.NewString(),
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   "entry.reverse",
		Entity:   "journal_entry",
		EntityID: entryID,
		Meta: map[string]any{
			"reversalEntryID": reversalEntryID,
			"reason":          reason,
		},
		At: time.Now().UTC(),
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
