package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// ReversalSvcFacade creates compensating entries for posted entries.
type ReversalSvcFacade interface {
	// ReverseEntry posts an exact debit/credit mirror of the entry dated
	// reversalDate (a date-only string), rolls back its type-specific side
	// effects and annotates the original. The period guard runs against
	// reversalDate. Already reversed entries and reversal entries are rejected.
	ReverseEntry(ctx context.Context, tenantID string, entryID string, reason string, reversalDate string, requestingUserID string) (*domain.JournalEntry, error)
}
