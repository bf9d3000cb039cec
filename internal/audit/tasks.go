package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

const (
	// QueueAudit is the dedicated queue for audit records, kept separate so a
	// backlog of audit writes never starves other background work.
	QueueAudit = "audit"
	// TaskTypeRecord is the task type for persisting one audit record.
	TaskTypeRecord = "audit:record"
)

// NewRecordTask constructs an asynq task carrying one audit record.
func NewRecordTask(log domain.AuditLog) (*asynq.Task, error) {
	data, err := json.Marshal(log)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecord, data, asynq.Queue(QueueAudit), asynq.MaxRetry(10)), nil
}

// Recorder enqueues audit records after the business transaction has
// committed. It is intentionally fire-and-forget: an unreachable broker costs
// an audit row, never a ledger operation.
type Recorder struct {
	client *asynq.Client
}

// NewRecorder constructs the enqueue side of the audit channel.
func NewRecorder(redisOpts asynq.RedisClientOpt) *Recorder {
	return &Recorder{client: asynq.NewClient(redisOpts)}
}

var _ portssvc.AuditRecorderSvc = (*Recorder)(nil)

// Record enqueues one audit record. Failures are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, log domain.AuditLog) {
	logger := middleware.GetLoggerFromCtx(ctx)
	task, err := NewRecordTask(log)
	if err != nil {
		logger.Error("Failed to build audit task", slog.String("audit_id", log.AuditID), slog.String("error", err.Error()))
		return
	}
	if _, err := r.client.EnqueueContext(ctx, task); err != nil {
		logger.Error("Failed to enqueue audit record", slog.String("audit_id", log.AuditID), slog.String("action", log.Action), slog.String("error", err.Error()))
	}
}

// Close releases the underlying client.
func (r *Recorder) Close() error {
	return r.client.Close()
}
