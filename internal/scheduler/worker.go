package scheduler

import (
	"context"
	"fmt"

	schedulingservice "studio_backend/internal/scheduling/service"
	"studio_backend/platform/apperr"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ScheduleSyncer runs an order sync for one job.
type ScheduleSyncer interface {
	SyncFromOrder(ctx context.Context, studioID, jobID uuid.UUID, trigger string) (schedulingservice.SyncOutcome, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	syncer ScheduleSyncer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, syncer ScheduleSyncer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		syncer: syncer,
		log:    log,
	}

	mux.HandleFunc(TaskScheduleSync, w.handleScheduleSync)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleScheduleSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseScheduleSyncPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	studioID, err := uuid.Parse(payload.StudioID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	_, err = w.syncer.SyncFromOrder(ctx, studioID, jobID, schedulingservice.TriggerWorker)
	switch {
	case err == nil:
		return nil
	case apperr.Is(err, apperr.KindConflict):
		// A newer sync of the same job already covers this one.
		return nil
	case apperr.Is(err, apperr.KindNotFound):
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		return err
	}
}
