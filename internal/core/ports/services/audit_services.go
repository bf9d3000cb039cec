package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// AuditRecorderSvc is the best-effort audit side channel. Record is called
// after the business transaction commits; delivery failures are logged and
// never propagated to the caller.
type AuditRecorderSvc interface {
	Record(ctx context.Context, log domain.AuditLog)
}
