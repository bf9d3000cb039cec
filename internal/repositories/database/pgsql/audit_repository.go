package pgsql

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

// newPgxAuditLogRepository creates a new repository for audit records.
func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

// InsertAuditLog writes one audit record. Inserts are idempotent on the audit
// ID so at-least-once delivery never duplicates rows.
func (r *PgxAuditLogRepository) InsertAuditLog(ctx context.Context, log domain.AuditLog) error {
	meta, err := json.Marshal(log.Meta)
	if err != nil {
		return apperrors.NewAppError(500, "failed to marshal audit meta for "+log.AuditID, err)
	}
	query := `
		INSERT INTO audit_logs (audit_id, tenant_id, actor_id, action, entity, entity_id, meta, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (audit_id) DO NOTHING;
	`
	_, err = r.Pool.Exec(ctx, query,
		log.AuditID,
		log.TenantID,
		log.ActorID,
		log.Action,
		log.Entity,
		log.EntityID,
		meta,
		log.At,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit log "+log.AuditID, err)
	}
	return nil
}
