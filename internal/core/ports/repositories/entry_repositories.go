package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// EntryReader defines read operations for journal entries and lines.
type EntryReader interface {
	// FindEntryByID retrieves a journal entry header by its identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByTenant retrieves a paginated list of entries for a tenant
	// using token-based pagination. Reversal entries and reversed originals
	// are excluded unless includeReversals is set.
	ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)

	// ListLinesByAccountID retrieves a paginated list of posted lines for one
	// account, newest first. This is the read surface the reporting layer
	// consumes.
	ListLinesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)

	// FindEntryByReference locates the posted, unreversed, non-reversal entry
	// created for a business document.
	FindEntryByReference(ctx context.Context, tenantID string, refType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error)
}

// EntryTransactionSupport defines the entry operations that run inside the
// posting or reversal transaction.
type EntryTransactionSupport interface {
	// InsertEntryInTx writes the entry header and all its lines.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	// GetEntryForUpdateInTx retrieves an entry header with a row lock.
	GetEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryIDInTx retrieves an entry's lines through the transaction.
	FindLinesByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error)

	// MarkEntryReversedInTx annotates the original entry with its reversal
	// linkage and flags all its lines reversed.
	MarkEntryReversedInTx(ctx context.Context, tx pgx.Tx, entryID string, reversalEntryID string, userID string, now time.Time) error

	// CountPostedEntriesInTx counts the tenant's posted entries. Used by the
	// opening-balance single-shot check.
	CountPostedEntriesInTx(ctx context.Context, tx pgx.Tx, tenantID string) (int64, error)
}

// EntryRepositoryFacade combines all journal-entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryTransactionSupport
}
