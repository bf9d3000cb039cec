package services

import (
	"context"
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
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// postingService is the posting engine. Every posting runs inside exactly one
// transaction: period guard, line normalization, account resolution, the
// entry write and the bank-balance mirroring either all commit or all roll
// back together.
type postingService struct {
	txManager     portsrepo.TransactionManager
	entryRepo     portsrepo.EntryRepositoryFacade
	tenantRepo    portsrepo.TenantRepositoryFacade
	bankRepo      portsrepo.BankAccountRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryFacade
	accountSvc    portssvc.AccountResolverSvc
	periodSvc     portssvc.PeriodGuardSvc
	tenantSvc     portssvc.TenantAuthorizerSvc
	auditSvc      portssvc.AuditRecorderSvc
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	txManager portsrepo.TransactionManager,
	entryRepo portsrepo.EntryRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	bankRepo portsrepo.BankAccountRepositoryFacade,
	inventoryRepo portsrepo.InventoryRepositoryFacade,
	accountSvc portssvc.AccountResolverSvc,
	periodSvc portssvc.PeriodGuardSvc,
	tenantSvc portssvc.TenantAuthorizerSvc,
	auditSvc portssvc.AuditRecorderSvc,
) portssvc.PostingSvcFacade {
	return &postingService{
		txManager:     txManager,
		entryRepo:     entryRepo,
		tenantRepo:    tenantRepo,
		bankRepo:      bankRepo,
		inventoryRepo: inventoryRepo,
		accountSvc:    accountSvc,
		periodSvc:     periodSvc,
		tenantSvc:     tenantSvc,
		auditSvc:      auditSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostEntry validates and posts a balanced journal entry in one transaction.
func (s *postingService) PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	entryDate, err := time.Parse(domain.DateOnly, req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid entry date %q, want YYYY-MM-DD", apperrors.ErrValidation, req.EntryDate)
	}
	if req.ReferenceType == domain.RefOpeningBalance {
		return nil, fmt.Errorf("%w: opening balances are posted through the dedicated operation", apperrors.ErrValidation)
	}

	input := portssvc.PostEntryInput{
		EntryDate:     entryDate,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Lines:         toLineInputs(req.Lines),
	}

	var entry *domain.JournalEntry
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		entry, txErr = s.PostEntryInTx(ctx, tx, tenantID, input, creatorUserID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID), slog.String("tenant_id", tenantID), slog.String("reference_type", string(entry.ReferenceType)))
	s.recordAudit(ctx, tenantID, creatorUserID, "entry.post", entry)
	return entry, nil
}

// PostOpeningBalances posts the tenant's one-time opening balance entry. It
// is rejected once the tenant flag is set or any posted entry exists; the
// flag and the count are both checked under the row lock so concurrent
// attempts serialize.
func (s *postingService) PostOpeningBalances(ctx context.Context, tenantID string, req dto.PostOpeningBalancesRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, creatorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	asOfDate, err := time.Parse(domain.DateOnly, req.AsOfDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid as-of date %q, want YYYY-MM-DD", apperrors.ErrValidation, req.AsOfDate)
	}

	lines := make([]accounting.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = accounting.LineInput{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}

	var entry *domain.JournalEntry
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		tenant, txErr := s.tenantRepo.GetTenantForUpdateInTx(ctx, tx, tenantID)
		if txErr != nil {
			return fmt.Errorf("failed to load tenant %s: %w", tenantID, txErr)
		}
		if tenant.OpeningBalancesPosted {
			return fmt.Errorf("%w: opening balances already posted for tenant %s", apperrors.ErrPrecondition, tenantID)
		}
		count, txErr := s.entryRepo.CountPostedEntriesInTx(ctx, tx, tenantID)
		if txErr != nil {
			return fmt.Errorf("failed to count posted entries: %w", txErr)
		}
		if count > 0 {
			return fmt.Errorf("%w: tenant %s already has %d posted entries", apperrors.ErrPrecondition, tenantID, count)
		}

		entry, txErr = s.PostEntryInTx(ctx, tx, tenantID, portssvc.PostEntryInput{
			EntryDate:     asOfDate,
			Description:   "Opening balances",
			ReferenceType: domain.RefOpeningBalance,
			ReferenceID:   tenantID,
			Lines:         lines,
		}, creatorUserID)
		if txErr != nil {
			return txErr
		}

		return s.tenantRepo.SetOpeningBalancesPostedInTx(ctx, tx, tenantID, creatorUserID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Opening balances posted", slog.String("entry_id", entry.EntryID), slog.String("tenant_id", tenantID))
	s.recordAudit(ctx, tenantID, creatorUserID, "entry.opening_balances", entry)
	return entry, nil
}

// PostEntryInTx runs the posting pipeline inside the caller's transaction:
// period guard, reference-type validation, line normalization, per-line
// account resolution, the entry write, then bank-balance mirroring for lines
// touching bank-linked accounts.
func (s *postingService) PostEntryInTx(ctx context.Context, tx pgx.Tx, tenantID string, input portssvc.PostEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.periodSvc.AssertUnlocked(ctx, tx, tenantID, input.EntryDate); err != nil {
		return nil, err
	}
	if !input.ReferenceType.Valid() {
		return nil, fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, input.ReferenceType)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	}

	normalized, err := accounting.NormalizeLines(input.Lines)
	if err != nil {
		return nil, err
	}

	// Resolve accounts in line order so the first bad reference fails the
	// whole posting.
	accounts := make(map[string]*domain.Account, len(normalized.Lines))
	for _, line := range normalized.Lines {
		if _, ok := accounts[line.AccountID]; ok {
			continue
		}
		account, err := s.accountSvc.ResolveAccount(ctx, tx, tenantID, line.AccountID)
		if err != nil {
			return nil, err
		}
		accounts[line.AccountID] = account
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TenantID:      tenantID,
		EntryDate:     input.EntryDate,
		Description:   input.Description,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		DebitTotal:    normalized.DebitTotal,
		CreditTotal:   normalized.CreditTotal,
		Posted:        true,
		IsReversal:    input.IsReversal,
		ReversalOf:    input.ReversalOf,
		Reason:        input.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	domainLines := make([]domain.JournalLine, len(normalized.Lines))
	for i, line := range normalized.Lines {
		domainLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			TenantID:    tenantID,
			EntryID:     entry.EntryID,
			LineNumber:  i + 1,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			EntryDate:   input.EntryDate,
			Posted:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}

	if err := s.entryRepo.InsertEntryInTx(ctx, tx, entry, domainLines); err != nil {
		logger.Error("Failed to insert entry", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	// Bank mirroring: lines on bank-linked asset accounts move the bank's
	// running balance by debit-credit. Reversal entries carry mirrored lines,
	// so the same rule restores the balance.
	for _, line := range domainLines {
		account := accounts[line.AccountID]
		if account.BankAccountID == nil {
			continue
		}
		delta := line.Debit.Sub(line.Credit)
		if err := s.bankRepo.ApplyBalanceDeltaInTx(ctx, tx, tenantID, *account.BankAccountID, delta, creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to apply bank balance delta: %w", err)
		}
	}

	// Stock movements requested with the entry commit alongside it.
	for _, mv := range input.Movements {
		if mv.ItemID == "" {
			return nil, fmt.Errorf("%w: movement item ID is required", apperrors.ErrValidation)
		}
		if !mv.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: movement quantity must be positive for item %s", apperrors.ErrValidation, mv.ItemID)
		}
		if mv.Direction != domain.MovementIn && mv.Direction != domain.MovementOut {
			return nil, fmt.Errorf("%w: unknown movement direction %q", apperrors.ErrValidation, mv.Direction)
		}
		if mv.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: movement unit cost cannot be negative for item %s", apperrors.ErrValidation, mv.ItemID)
		}
		movement := domain.InventoryMovement{
			MovementID:    uuid.NewString(),
			TenantID:      tenantID,
			ItemID:        mv.ItemID,
			Quantity:      mv.Quantity,
			Direction:     mv.Direction,
			UnitCost:      mv.UnitCost,
			ReferenceType: input.ReferenceType,
			ReferenceID:   input.ReferenceID,
			EntryID:       entry.EntryID,
			MovementDate:  input.EntryDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		if err := s.inventoryRepo.InsertMovementInTx(ctx, tx, movement); err != nil {
			return nil, fmt.Errorf("failed to record inventory movement for item %s: %w", mv.ItemID, err)
		}
	}

	entry.Lines = domainLines
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *postingService) GetEntryByID(ctx context.Context, tenantID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries using token pagination.
func (s *postingService) ListEntries(ctx context.Context, tenantID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntriesByTenant(ctx, tenantID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ListLinesByAccount retrieves the posted lines of one account, newest first.
func (s *postingService) ListLinesByAccount(ctx context.Context, tenantID string, accountID string, requestingUserID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if _, err := s.tenantSvc.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	lines, nextToken, err := s.entryRepo.ListLinesByAccountID(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for account %s: %w", accountID, err)
	}
	return &dto.ListLinesResponse{
		Lines:     dto.ToLineResponses(lines),
		NextToken: nextToken,
	}, nil
}

// recordAudit enqueues a best-effort audit record. Never fails the caller.
func (s *postingService) recordAudit(ctx context.Context, tenantID, actorID, action string, entry *domain.JournalEntry) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.Record(ctx, domain.AuditLog{
		AuditID:  uuid.NewString(),
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   action,
		Entity:   "journal_entry",
		EntityID: entry.EntryID,
		Meta: map[string]any{
			"referenceType": string(entry.ReferenceType),
			"referenceID":   entry.ReferenceID,
			"debitTotal":    entry.DebitTotal.String(),
		},
		At: time.Now().UTC(),
	})
}

// toLineInputs converts request lines into builder inputs.
func toLineInputs(lines []dto.EntryLineRequest) []accounting.LineInput {
	out := make([]accounting.LineInput, len(lines))
	for i, l := range lines {
		out[i] = accounting.LineInput{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return out
}
