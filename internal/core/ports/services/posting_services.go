package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PostEntryInput is the programmatic posting request used when another
// service posts inside its own transaction.
type PostEntryInput struct {
	EntryDate     time.Time
	Description   string
	ReferenceType domain.ReferenceType
	ReferenceID   string
	Reason        string
	IsReversal    bool
	ReversalOf    *string
	Lines         []accounting.LineInput
	Movements     []MovementInput
}

// MovementInput describes one stock movement recorded atomically with the
// entry it belongs to.
type MovementInput struct {
	ItemID    string
	Quantity  decimal.Decimal
	Direction domain.MovementDirection
	UnitCost  decimal.Decimal
}

// PostingReaderSvc defines read operations for posted entries
type PostingReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, tenantID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries in a tenant.
	ListEntries(ctx context.Context, tenantID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves posted lines of one account, newest first.
	ListLinesByAccount(ctx context.Context, tenantID string, accountID string, requestingUserID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// PostingWriterSvc defines the public posting operations
type PostingWriterSvc interface {
	// PostEntry validates and posts a balanced journal entry in one transaction.
	PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostOpeningBalances posts the tenant's one-time opening balance entry.
	// Rejected once the tenant has any posted entry.
	PostOpeningBalances(ctx context.Context, tenantID string, req dto.PostOpeningBalancesRequest, creatorUserID string) (*domain.JournalEntry, error)
}

// PostingInTxSvc exposes the posting pipeline to services that must post
// within a transaction they already own (payments, payroll, reversals).
type PostingInTxSvc interface {
	// PostEntryInTx runs the full posting pipeline (period guard, builder,
	// account resolution, bank-balance mirroring) inside tx.
	PostEntryInTx(ctx context.Context, tx pgx.Tx, tenantID string, input PostEntryInput, creatorUserID string) (*domain.JournalEntry, error)
}

// PostingSvcFacade combines all posting-related service interfaces
// This is a facade for clients that need access to all operations
type PostingSvcFacade interface {
	PostingReaderSvc
	PostingWriterSvc
	PostingInTxSvc
}
