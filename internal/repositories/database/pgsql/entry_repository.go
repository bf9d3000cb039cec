package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
)

const entryColumns = `entry_id, tenant_id, entry_date, description, reference_type, reference_id,
	       debit_total, credit_total, posted, is_reversal, reversal_of, is_reversed, reversal_entry_id, reason,
	       created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, tenant_id, entry_id, line_number, account_id, debit, credit, description,
	       entry_date, posted, reversed,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entries and lines.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var model models.JournalEntry
	err := row.Scan(
		&model.EntryID,
		&model.TenantID,
		&model.EntryDate,
		&model.Description,
		&model.ReferenceType,
		&model.ReferenceID,
		&model.DebitTotal,
		&model.CreditTotal,
		&model.Posted,
		&model.IsReversal,
		&model.ReversalOf,
		&model.IsReversed,
		&model.ReversalEntryID,
		&model.Reason,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
	}
	entry := mapping.ToDomainEntry(model)
	return &entry, nil
}

func scanLines(rows pgx.Rows) ([]domain.JournalLine, error) {
	lines := []models.JournalLine{}
	for rows.Next() {
		var model models.JournalLine
		err := rows.Scan(
			&model.LineID,
			&model.TenantID,
			&model.EntryID,
			&model.LineNumber,
			&model.AccountID,
			&model.Debit,
			&model.Credit,
			&model.Description,
			&model.EntryDate,
			&model.Posted,
			&model.Reversed,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		lines = append(lines, model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}
	return mapping.ToDomainLineSlice(lines), nil
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	return scanEntry(r.Pool.QueryRow(ctx, query, entryID))
}

// FindLinesByEntryID retrieves all lines of an entry ordered by line number.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()
	return scanLines(rows)
}

// ListEntriesByTenant retrieves a paginated list of entries for a tenant
// using token-based pagination. Reversal entries and reversed originals are
// excluded unless includeReversals is set.
func (r *PgxEntryRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	filterClause := `WHERE tenant_id = $1 AND posted = TRUE`
	if !includeReversals {
		filterClause += ` AND is_reversal = FALSE AND is_reversed = FALSE`
	}
	// Ordering must be stable: entry_date DESC with created_at as tie-breaker.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalEntry
		scanErr := rows.Scan(
			&m.EntryID,
			&m.TenantID,
			&m.EntryDate,
			&m.Description,
			&m.ReferenceType,
			&m.ReferenceID,
			&m.DebitTotal,
			&m.CreditTotal,
			&m.Posted,
			&m.IsReversal,
			&m.ReversalOf,
			&m.IsReversed,
			&m.ReversalEntryID,
			&m.Reason,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for tenant "+tenantID, scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		lastEntry := modelEntries[limit-1]
		newToken := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &newToken
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainEntry(m)
	}
	return entries, nextTokenVal, nil
}

// ListLinesByAccountID retrieves a paginated list of posted lines for one
// account, newest first, using token-based pagination.
func (r *PgxEntryRepository) ListLinesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE tenant_id = $1 AND account_id = $2 AND posted = TRUE`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID, accountID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (entry_date, created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	lines, err := scanLines(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := lines
	if len(lines) > limit {
		lastLine := lines[limit-1]
		newToken := pagination.EncodeToken(lastLine.EntryDate, lastLine.CreatedAt)
		nextTokenVal = &newToken
		results = lines[:limit]
	}
	return results, nextTokenVal, nil
}

// FindEntryByReference locates the posted, unreversed, non-reversal entry
// created for a business document.
func (r *PgxEntryRepository) FindEntryByReference(ctx context.Context, tenantID string, refType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND reference_type = $2 AND reference_id = $3
		  AND posted = TRUE AND is_reversal = FALSE AND is_reversed = FALSE;`
	return scanEntry(r.Pool.QueryRow(ctx, query, tenantID, string(refType), referenceID))
}

// InsertEntryInTx writes the entry header and all its lines within the
// caller's transaction. Lines go through a batch.
func (r *PgxEntryRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	modelEntry := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (entry_id, tenant_id, entry_date, description, reference_type, reference_id,
		                             debit_total, credit_total, posted, is_reversal, reversal_of, is_reversed,
		                             reversal_entry_id, reason,
		                             created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.ReferenceType,
		modelEntry.ReferenceID,
		modelEntry.DebitTotal,
		modelEntry.CreditTotal,
		modelEntry.Posted,
		modelEntry.IsReversal,
		modelEntry.ReversalOf,
		modelEntry.IsReversed,
		modelEntry.ReversalEntryID,
		modelEntry.Reason,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, tenant_id, entry_id, line_number, account_id, debit, credit, description,
		                           entry_date, posted, reversed,
		                           created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.TenantID,
			modelLine.EntryID,
			modelLine.LineNumber,
			modelLine.AccountID,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.Description,
			modelLine.EntryDate,
			modelLine.Posted,
			modelLine.Reversed,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}
	return nil
}

// GetEntryForUpdateInTx retrieves an entry header with a row lock.
func (r *PgxEntryRepository) GetEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`
	return scanEntry(tx.QueryRow(ctx, query, entryID))
}

// FindLinesByEntryIDInTx retrieves an entry's lines through the transaction.
func (r *PgxEntryRepository) FindLinesByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number;`
	rows, err := tx.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()
	return scanLines(rows)
}

// MarkEntryReversedInTx annotates the original entry with its reversal
// linkage and flags all its lines reversed.
func (r *PgxEntryRepository) MarkEntryReversedInTx(ctx context.Context, tx pgx.Tx, entryID string, reversalEntryID string, userID string, now time.Time) error {
	entryQuery := `
		UPDATE journal_entries
		SET is_reversed = TRUE,
		    reversal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, entryQuery, entryID, reversalEntryID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry "+entryID+" reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found for reversal update")
	}

	lineQuery := `
		UPDATE journal_lines
		SET reversed = TRUE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, lineQuery, entryID, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to mark lines of entry "+entryID+" reversed", err)
	}
	return nil
}

// CountPostedEntriesInTx counts the tenant's posted entries.
func (r *PgxEntryRepository) CountPostedEntriesInTx(ctx context.Context, tx pgx.Tx, tenantID string) (int64, error) {
	query := `SELECT COUNT(*) FROM journal_entries WHERE tenant_id = $1 AND posted = TRUE;`
	var count int64
	if err := tx.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count posted entries for tenant "+tenantID, err)
	}
	return count, nil
}
