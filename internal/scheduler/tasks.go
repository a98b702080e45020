package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskScheduleSync = "scheduling.sync_from_order"

type ScheduleSyncPayload struct {
	StudioID string `json:"studioId"`
	JobID    string `json:"jobId"`
}

func NewScheduleSyncTask(payload ScheduleSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScheduleSync, data), nil
}

func ParseScheduleSyncPayload(task *asynq.Task) (ScheduleSyncPayload, error) {
	var payload ScheduleSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScheduleSyncPayload{}, err
	}
	return payload, nil
}

// scheduleSyncTaskID dedupes queued syncs per job: while one is pending, a
// second enqueue for the same job is a no-op.
func scheduleSyncTaskID(jobID string) string {
	return "schedule-sync:" + jobID
}
