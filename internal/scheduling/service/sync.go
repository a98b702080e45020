package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/repository"
	"studio_backend/platform/apperr"
)

// Sync triggers recorded with every run.
const (
	TriggerManual = "manual"
	TriggerWorker = "worker"
	TriggerSweep  = "sweep"
)

const syncSupersededMessage = "sync superseded by a newer run"

var errSyncSuperseded = errors.New(syncSupersededMessage)

// syncChain keeps at most one live order sync per job. Starting a run cancels
// the previous one and waits for it to unwind first.
type syncChain struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*syncRun
}

type syncRun struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
}

func newSyncChain() *syncChain {
	return &syncChain{runs: make(map[uuid.UUID]*syncRun)}
}

// start registers a run for the job and blocks until the previous run is gone.
// finish must always be called.
func (c *syncChain) start(ctx context.Context, jobID uuid.UUID) (context.Context, func()) {
	runCtx, cancel := context.WithCancelCause(ctx)
	run := &syncRun{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	prev := c.runs[jobID]
	c.runs[jobID] = run
	c.mu.Unlock()

	if prev != nil {
		prev.cancel(errSyncSuperseded)
		select {
		case <-prev.done:
		case <-runCtx.Done():
		}
	}

	finish := func() {
		cancel(nil)
		if prev != nil {
			<-prev.done
		}
		c.mu.Lock()
		if c.runs[jobID] == run {
			delete(c.runs, jobID)
		}
		c.mu.Unlock()
		close(run.done)
	}
	return runCtx, finish
}

// SyncOutcome is the result of an order sync plus the job's invalidation token.
type SyncOutcome struct {
	Result domain.SyncResult
	Token  uint64
}

// SyncFromOrder creates or refreshes the schedule entries of every approved
// order item of the job. Running it twice in a row changes nothing the
// second time. A run overtaken by a newer run for the same job is rolled back
// and reported as a conflict.
func (s *Service) SyncFromOrder(ctx context.Context, studioID, jobID uuid.UUID, trigger string) (SyncOutcome, error) {
	runCtx, finish := s.syncs.start(ctx, jobID)
	defer finish()

	if errors.Is(context.Cause(runCtx), errSyncSuperseded) {
		return SyncOutcome{}, apperr.Conflict(syncSupersededMessage)
	}
	if err := runCtx.Err(); err != nil {
		return SyncOutcome{}, err
	}

	result, err := s.repo.SyncTasksFromOrder(runCtx, studioID, jobID, trigger)
	if err != nil {
		if errors.Is(context.Cause(runCtx), errSyncSuperseded) {
			err = apperr.Conflict(syncSupersededMessage)
		}
		s.log.SyncEvent(studioID.String(), jobID.String(), trigger, 0, 0, 0, err)
		return SyncOutcome{}, err
	}
	s.log.SyncEvent(studioID.String(), jobID.String(), trigger, result.Created, result.Updated, result.Skipped, nil)

	var gen uint64
	if result.Created > 0 || result.Updated > 0 {
		gen = s.invalidateJob(ctx, studioID, jobID, "sync."+trigger)
	} else {
		gen = token(s.generations.snapshot(studioID, jobID))
	}
	s.publish(ctx, events.ScheduleSynced{
		BaseEvent: events.NewBaseEvent(),
		StudioID:  studioID,
		JobID:     jobID,
		Trigger:   trigger,
		Created:   result.Created,
		Updated:   result.Updated,
		Skipped:   result.Skipped,
	})
	return SyncOutcome{Result: result, Token: gen}, nil
}

// EnqueueSync schedules an order sync on the background worker.
func (s *Service) EnqueueSync(ctx context.Context, studioID, jobID uuid.UUID) error {
	if s.enqueuer == nil {
		return apperr.Unavailable("background sync is not configured")
	}
	return s.enqueuer.EnqueueScheduleSync(ctx, studioID, jobID)
}

// SweepUnsynced enqueues a sync for every job with approved order items that
// are missing from, or stale in, the schedule. It returns the number of jobs
// enqueued.
func (s *Service) SweepUnsynced(ctx context.Context, limit int) (int, error) {
	refs, err := s.repo.ListJobsNeedingSync(ctx, limit)
	if err != nil {
		return 0, err
	}
	enqueued := 0
	for _, ref := range refs {
		if err := s.EnqueueSync(ctx, ref.StudioID, ref.JobID); err != nil {
			s.log.Error("failed to enqueue schedule sync", "studioId", ref.StudioID, "jobId", ref.JobID, "error", err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}

// ListSyncRuns returns the recent sync history of a job.
func (s *Service) ListSyncRuns(ctx context.Context, studioID, jobID uuid.UUID, limit int) ([]repository.SyncRun, error) {
	return s.repo.ListSyncRuns(ctx, studioID, jobID, limit)
}

// CleanupSyncRuns deletes sync history older than retention.
func (s *Service) CleanupSyncRuns(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteSyncRunsBefore(ctx, s.now().Add(-retention))
}
