package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/finbooks_backend/internal/audit"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

type mockAuditLogRepo struct {
	mock.Mock
}

func (m *mockAuditLogRepo) InsertAuditLog(ctx context.Context, log domain.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func auditLogFixture() domain.AuditLog {
	return domain.AuditLog{
		AuditID:  "audit-1",
		TenantID: "tenant-1",
		ActorID:  "user-1",
		Action:   "entry.post",
		Entity:   "journal_entry",
		EntityID: "entry-1",
		Meta:     map[string]any{"lines": float64(2)},
		At:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecorder_EnqueuesAuditTask(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}

	recorder := audit.NewRecorder(opts)
	defer recorder.Close()

	recorder.Record(context.Background(), auditLogFixture())

	inspector := asynq.NewInspector(opts)
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks(audit.QueueAudit)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, audit.TaskTypeRecord, tasks[0].Type)

	var got domain.AuditLog
	require.NoError(t, json.Unmarshal(tasks[0].Payload, &got))
	require.Equal(t, "audit-1", got.AuditID)
	require.Equal(t, "entry.post", got.Action)
	require.Equal(t, "tenant-1", got.TenantID)
}

func TestHandleRecordTask_PersistsRecord(t *testing.T) {
	repo := new(mockAuditLogRepo)
	handler := audit.NewHandler(repo, slog.Default())

	log := auditLogFixture()
	task, err := audit.NewRecordTask(log)
	require.NoError(t, err)

	repo.On("InsertAuditLog", mock.Anything, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.AuditID == log.AuditID && l.Action == log.Action
	})).Return(nil).Once()

	require.NoError(t, handler.HandleRecordTask(context.Background(), task))
	repo.AssertExpectations(t)
}

func TestHandleRecordTask_MalformedPayloadDropped(t *testing.T) {
	repo := new(mockAuditLogRepo)
	handler := audit.NewHandler(repo, slog.Default())

	task := asynq.NewTask(audit.TaskTypeRecord, []byte("{not-json"))

	err := handler.HandleRecordTask(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	repo.AssertNotCalled(t, "InsertAuditLog", mock.Anything, mock.Anything)
}

func TestWorkerRun_NilOnContextCancel(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}

	repo := new(mockAuditLogRepo)
	worker := audit.NewWorker(opts, audit.NewHandler(repo, slog.Default()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestHandleRecordTask_RepoFailureRetries(t *testing.T) {
	repo := new(mockAuditLogRepo)
	handler := audit.NewHandler(repo, slog.Default())

	task, err := audit.NewRecordTask(auditLogFixture())
	require.NoError(t, err)

	repoErr := errors.New("connection refused")
	repo.On("InsertAuditLog", mock.Anything, mock.Anything).Return(repoErr).Once()

	err = handler.HandleRecordTask(context.Background(), task)
	require.ErrorIs(t, err, repoErr)
	repo.AssertExpectations(t)
}
