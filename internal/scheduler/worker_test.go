package scheduler

import (
	"context"
	"errors"
	"testing"

	schedulingservice "studio_backend/internal/scheduling/service"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type stubSyncer struct {
	err     error
	calls   int
	trigger string
	lastJob uuid.UUID
}

func (s *stubSyncer) SyncFromOrder(ctx context.Context, studioID, jobID uuid.UUID, trigger string) (schedulingservice.SyncOutcome, error) {
	s.calls++
	s.trigger = trigger
	s.lastJob = jobID
	return schedulingservice.SyncOutcome{}, s.err
}

func TestHandleScheduleSync(t *testing.T) {
	jobID := uuid.New()
	task, err := NewScheduleSyncTask(ScheduleSyncPayload{StudioID: uuid.NewString(), JobID: jobID.String()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name      string
		syncErr   error
		wantErr   bool
		wantRetry bool
	}{
		{name: "success"},
		{name: "superseded", syncErr: apperr.Conflict("superseded")},
		{name: "job gone", syncErr: apperr.NotFound("job not found"), wantErr: true},
		{name: "transient", syncErr: errors.New("connection reset"), wantErr: true, wantRetry: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &stubSyncer{err: tt.syncErr}
			w := &Worker{syncer: syncer, log: logger.New("development")}

			err := w.handleScheduleSync(context.Background(), task)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && errors.Is(err, asynq.SkipRetry) == tt.wantRetry {
				t.Fatalf("expected retry=%v, got %v", tt.wantRetry, err)
			}
			if syncer.calls != 1 || syncer.lastJob != jobID || syncer.trigger != schedulingservice.TriggerWorker {
				t.Fatalf("unexpected sync call %+v", syncer)
			}
		})
	}
}

func TestHandleScheduleSyncRejectsBadPayload(t *testing.T) {
	syncer := &stubSyncer{}
	w := &Worker{syncer: syncer, log: logger.New("development")}

	err := w.handleScheduleSync(context.Background(), asynq.NewTask(TaskScheduleSync, []byte(`{"jobId":"nope"}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry, got %v", err)
	}
	if syncer.calls != 0 {
		t.Fatalf("expected no sync, got %d", syncer.calls)
	}
}

type stubSweeper struct {
	limit int
}

func (s *stubSweeper) SweepUnsynced(ctx context.Context, limit int) (int, error) {
	s.limit = limit
	return 3, nil
}

func TestSyncSweepUsesBatchSize(t *testing.T) {
	sweeper := &stubSweeper{}
	NewSyncSweep(sweeper, logger.New("development"), 0).sweep(context.Background())
	if sweeper.limit != syncSweepBatchSize {
		t.Fatalf("expected limit %d, got %d", syncSweepBatchSize, sweeper.limit)
	}
}
