package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
)

// Handler persists audit records delivered over the queue.
type Handler struct {
	repo   portsrepo.AuditLogRepositoryFacade
	logger *slog.Logger
}

// NewHandler constructs the persist side of the audit channel.
func NewHandler(repo portsrepo.AuditLogRepositoryFacade, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// HandleRecordTask processes one audit:record task. A malformed payload is
// dropped; a repository failure is returned so asynq retries the delivery.
// The insert is idempotent on the audit ID, so retries after a partial
// failure never duplicate rows.
func (h *Handler) HandleRecordTask(ctx context.Context, t *asynq.Task) error {
	var log domain.AuditLog
	if err := json.Unmarshal(t.Payload(), &log); err != nil {
		h.logger.Error("Dropping malformed audit payload", slog.String("error", err.Error()))
		return asynq.SkipRetry
	}
	if err := h.repo.InsertAuditLog(ctx, log); err != nil {
		h.logger.Warn("Audit insert failed, will retry",
			slog.String("audit_id", log.AuditID),
			slog.String("action", log.Action),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Worker wraps the asynq server that drains the audit queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker constructs a worker bound to the audit queue.
func NewWorker(redisOpts asynq.RedisClientOpt, handler *Handler) *Worker {
	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			QueueAudit: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeRecord, handler.HandleRecordTask)
	return &Worker{server: srv, mux: mux}
}

// Run processes audit tasks until the context is cancelled. Cancellation is
// the normal shutdown path and returns nil; only a server failure is an error.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return nil
	case err := <-errCh:
		return err
	}
}
