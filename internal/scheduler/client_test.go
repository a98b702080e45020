package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string                     { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool               { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string               { return "" }
func (c testSchedulerConfig) GetAsynqConcurrency() int                { return 1 }
func (c testSchedulerConfig) GetSyncSweepInterval() time.Duration     { return time.Minute }
func (c testSchedulerConfig) GetSyncRunRetention() time.Duration      { return time.Hour }
func (c testSchedulerConfig) GetSyncRunCleanupInterval() time.Duration { return time.Hour }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected an error without a redis url")
	}
}

func TestEnqueueScheduleSyncDedupesPerJob(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	studioID, jobID := uuid.New(), uuid.New()
	for i := 0; i < 2; i++ {
		if err := client.EnqueueScheduleSync(ctx, studioID, jobID); err != nil {
			t.Fatalf("expected enqueue %d to succeed, got %v", i, err)
		}
	}
	if err := client.EnqueueScheduleSync(ctx, studioID, uuid.New()); err != nil {
		t.Fatalf("expected enqueue for another job to succeed, got %v", err)
	}

	pending, err := mr.List("asynq:{default}:pending")
	if err != nil {
		t.Fatalf("expected pending list, got %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending tasks, got %d", len(pending))
	}
}

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("rediss://:secret@cache.internal:6380/2", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}
}
