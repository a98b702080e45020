package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/scheduling/domain"
)

// ApprovedOrderStatuses is the approval status set whose order items become
// schedulable work.
var ApprovedOrderStatuses = []string{"APPROVED", "IN_PRODUCTION", "DELIVERED"}

// JobDetail is everything the structure engine needs about one job.
type JobDetail struct {
	JobID       uuid.UUID
	Name        string
	EventDate   domain.Date
	OrderItems  []domain.OrderItem
	ManualTasks []domain.ManualTask
	StageKeys   []domain.StageKey
}

// JobRef identifies a job together with its studio.
type JobRef struct {
	StudioID uuid.UUID
	JobID    uuid.UUID
}

// SyncRun is one committed order sync.
type SyncRun struct {
	ID         uuid.UUID
	JobID      uuid.UUID
	Trigger    string
	Result     domain.SyncResult
	FinishedAt time.Time
}

// ReclassifyParams is the target classification of a task.
// SectionID is the catalog section owning CatalogCategoryID.
type ReclassifyParams struct {
	StudioID          uuid.UUID
	JobID             uuid.UUID
	TaskID            uuid.UUID
	Stage             domain.Stage
	CatalogCategoryID uuid.UUID
	SectionID         uuid.UUID
}

// ReclassifiedTask is the stored classification after a reclassify.
type ReclassifiedTask struct {
	TaskID            uuid.UUID
	Source            domain.TaskSource
	Category          domain.TaskCategory
	CatalogCategoryID uuid.UUID
}

// ManualTaskParams contains the full editable state of a manual task.
type ManualTaskParams struct {
	StudioID          uuid.UUID
	JobID             uuid.UUID
	Name              string
	DurationDays      int
	Category          domain.TaskCategory
	SectionID         *uuid.UUID
	CatalogCategoryID *uuid.UUID
	CustomCategoryID  *uuid.UUID
	Status            string
	ProgressPercent   *float64
	StartDate         domain.Date
	EndDate           domain.Date
	AssignedTo        *uuid.UUID
}

// CreateCustomCategoryParams contains data for a new custom category.
type CreateCustomCategoryParams struct {
	StudioID  uuid.UUID
	SectionID uuid.UUID
	Stage     domain.Stage
	Name      string
}

// Repository defines scheduling storage operations.
type Repository interface {
	GetJobDetail(ctx context.Context, studioID, jobID uuid.UUID) (JobDetail, error)
	ListFleetSchedules(ctx context.Context, studioID uuid.UUID) ([]domain.JobSchedule, error)

	SyncTasksFromOrder(ctx context.Context, studioID, jobID uuid.UUID, trigger string) (domain.SyncResult, error)
	ListJobsNeedingSync(ctx context.Context, limit int) ([]JobRef, error)
	ListSyncRuns(ctx context.Context, studioID, jobID uuid.UUID, limit int) ([]SyncRun, error)
	DeleteSyncRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	ReclassifyTask(ctx context.Context, params ReclassifyParams) (ReclassifiedTask, error)

	CreateManualTask(ctx context.Context, params ManualTaskParams) (domain.ManualTask, error)
	UpdateManualTask(ctx context.Context, id uuid.UUID, params ManualTaskParams) (domain.ManualTask, error)
	DeleteManualTask(ctx context.Context, studioID, jobID, id uuid.UUID) error

	AddStageKey(ctx context.Context, studioID, jobID uuid.UUID, key domain.StageKey) error

	ListCustomCategories(ctx context.Context, studioID uuid.UUID) ([]domain.CustomCategory, error)
	CreateCustomCategory(ctx context.Context, params CreateCustomCategoryParams) (domain.CustomCategory, error)
	RenameCustomCategory(ctx context.Context, studioID, id uuid.UUID, name string) (domain.CustomCategory, error)
}
