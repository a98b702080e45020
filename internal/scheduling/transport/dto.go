package transport

import (
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/scheduling/domain"
)

// Structure

type StructureResponse struct {
	JobID         uuid.UUID      `json:"jobId"`
	Name          string         `json:"name"`
	EventDate     domain.Date    `json:"eventDate"`
	CatalogLoaded bool           `json:"catalogLoaded"`
	Today         domain.Date    `json:"today"`
	Token         uint64         `json:"token"`
	Rows          []RowResponse  `json:"rows"`
	Stats         StatsResponse  `json:"stats"`
	Unclassified  []TaskResponse `json:"unclassified"`
}

// RowResponse is one row of the flat tree. Kind tells which of the optional
// fields are set.
type RowResponse struct {
	Kind       domain.RowKind  `json:"kind"`
	Key        string          `json:"key"`
	SectionKey string          `json:"sectionKey"`
	Name       string          `json:"name,omitempty"`
	Stage      domain.Stage    `json:"stage,omitempty"`
	SlotKind   domain.SlotKind `json:"slotKind,omitempty"`
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	TaskCount  *int            `json:"taskCount,omitempty"`
	NeedsAlert bool            `json:"needsAlert,omitempty"`
	Task       *TaskResponse   `json:"task,omitempty"`
}

type TaskResponse struct {
	ID                uuid.UUID             `json:"id"`
	Source            domain.TaskSource     `json:"source"`
	ScheduleID        *uuid.UUID            `json:"scheduleId,omitempty"`
	Name              string                `json:"name"`
	Category          domain.TaskCategory   `json:"category"`
	Stage             domain.Stage          `json:"stage,omitempty"`
	CatalogCategoryID *uuid.UUID            `json:"catalogCategoryId,omitempty"`
	CustomCategoryID  *uuid.UUID            `json:"customCategoryId,omitempty"`
	Status            string                `json:"status,omitempty"`
	ProgressPercent   *float64              `json:"progressPercent,omitempty"`
	StartDate         domain.Date           `json:"startDate"`
	EndDate           domain.Date           `json:"endDate"`
	AssignedTo        *uuid.UUID            `json:"assignedTo,omitempty"`
	DurationDays      int                   `json:"durationDays"`
	ScheduleStatus    domain.ScheduleStatus `json:"scheduleStatus"`
	NeedsAlert        bool                  `json:"needsAlert"`
}

// Blocks

type BlocksResponse struct {
	JobID         uuid.UUID              `json:"jobId"`
	CatalogLoaded bool                   `json:"catalogLoaded"`
	Token         uint64                 `json:"token"`
	Sections      []SectionBlockResponse `json:"sections"`
}

type SectionBlockResponse struct {
	Header    *RowResponse         `json:"header,omitempty"`
	Leading   []RowResponse        `json:"leading,omitempty"`
	Stages    []StageBlockResponse `json:"stages"`
	TaskCount int                  `json:"taskCount"`
}

type StageBlockResponse struct {
	Header    RowResponse       `json:"header"`
	Segments  []SegmentResponse `json:"segments"`
	TaskCount int               `json:"taskCount"`
}

type SegmentResponse struct {
	Category      *RowResponse  `json:"category,omitempty"`
	Uncategorized bool          `json:"uncategorized"`
	Rows          []RowResponse `json:"rows"`
	TaskCount     int           `json:"taskCount"`
}

// Stats

type StatsResponse struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Pending     int `json:"pending"`
	InProgress  int `json:"inProgress"`
	Delayed     int `json:"delayed"`
	Unassigned  int `json:"unassigned"`
	WithoutCrew int `json:"withoutCrew"`
	Percentage  int `json:"percentage"`
}

type JobStatsResponse struct {
	JobID uuid.UUID     `json:"jobId"`
	Token uint64        `json:"token"`
	Today domain.Date   `json:"today"`
	Stats StatsResponse `json:"stats"`
}

type FleetJobResponse struct {
	JobID     uuid.UUID     `json:"jobId"`
	Name      string        `json:"name"`
	EventDate domain.Date   `json:"eventDate"`
	Stats     StatsResponse `json:"stats"`
}

type FleetStatsResponse struct {
	Today  domain.Date        `json:"today"`
	Jobs   []FleetJobResponse `json:"jobs"`
	Totals StatsResponse      `json:"totals"`
}

type UnclassifiedResponse struct {
	JobID uuid.UUID      `json:"jobId"`
	Token uint64         `json:"token"`
	Count int            `json:"count"`
	Tasks []TaskResponse `json:"tasks"`
}

// Sync

type SyncResponse struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Token   uint64 `json:"token"`
}

type SyncQueuedResponse struct {
	JobID  uuid.UUID `json:"jobId"`
	Status string    `json:"status"`
}

type SyncRunResponse struct {
	ID         uuid.UUID `json:"id"`
	Trigger    string    `json:"trigger"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	FinishedAt time.Time `json:"finishedAt"`
}

type SyncRunListResponse struct {
	Items []SyncRunResponse `json:"items"`
}

// Classification

type ReclassifyRequest struct {
	Stage             string    `json:"stage" validate:"required,stage"`
	CatalogCategoryID uuid.UUID `json:"catalogCategoryId" validate:"required"`
}

type ReclassifyResponse struct {
	TaskID            uuid.UUID           `json:"taskId"`
	Source            domain.TaskSource   `json:"source"`
	Category          domain.TaskCategory `json:"category"`
	CatalogCategoryID uuid.UUID           `json:"catalogCategoryId"`
	Token             uint64              `json:"token"`
}

// Manual tasks

// ManualTaskRequest carries the full editable state of a manual task; it is
// used for both create and replace.
type ManualTaskRequest struct {
	Name              string      `json:"name" validate:"required,min=1,max=200"`
	DurationDays      int         `json:"durationDays" validate:"omitempty,min=1,max=365"`
	Category          string      `json:"category" validate:"omitempty,oneof=PLANNING PRODUCTION POST_PRODUCTION REVIEW DELIVERY WARRANTY UNASSIGNED"`
	SectionID         *uuid.UUID  `json:"sectionId,omitempty"`
	CatalogCategoryID *uuid.UUID  `json:"catalogCategoryId,omitempty"`
	CustomCategoryID  *uuid.UUID  `json:"customCategoryId,omitempty"`
	Status            string      `json:"status" validate:"omitempty,max=40"`
	ProgressPercent   *float64    `json:"progressPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	StartDate         domain.Date `json:"startDate"`
	EndDate           domain.Date `json:"endDate"`
	AssignedTo        *uuid.UUID  `json:"assignedTo,omitempty"`
}

type ManualTaskResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	DurationDays       int                 `json:"durationDays"`
	Category           domain.TaskCategory `json:"category"`
	SectionID          *uuid.UUID          `json:"sectionId,omitempty"`
	CatalogCategoryID  *uuid.UUID          `json:"catalogCategoryId,omitempty"`
	CustomCategoryID   *uuid.UUID          `json:"customCategoryId,omitempty"`
	CustomCategoryName string              `json:"customCategoryName,omitempty"`
	Status             string              `json:"status"`
	ProgressPercent    *float64            `json:"progressPercent,omitempty"`
	StartDate          domain.Date         `json:"startDate"`
	EndDate            domain.Date         `json:"endDate"`
	AssignedTo         *uuid.UUID          `json:"assignedTo,omitempty"`
	Token              uint64              `json:"token"`
}

// Stage keys

type AddStageKeyRequest struct {
	SectionID uuid.UUID `json:"sectionId" validate:"required"`
	Stage     string    `json:"stage" validate:"required,stage"`
}

type StageKeyResponse struct {
	SectionID uuid.UUID    `json:"sectionId"`
	Stage     domain.Stage `json:"stage"`
	Token     uint64       `json:"token"`
}

// Custom categories

type CreateCustomCategoryRequest struct {
	SectionID uuid.UUID `json:"sectionId" validate:"required"`
	Stage     string    `json:"stage" validate:"required,stage"`
	Name      string    `json:"name" validate:"required,min=1,max=120"`
}

type RenameCustomCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type CustomCategoryResponse struct {
	ID        uuid.UUID    `json:"id"`
	SectionID uuid.UUID    `json:"sectionId"`
	Stage     domain.Stage `json:"stage"`
	Name      string       `json:"name"`
}

type CustomCategoryListResponse struct {
	Items []CustomCategoryResponse `json:"items"`
}
