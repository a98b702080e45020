// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"studio_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogChanged is published whenever a section, category or item of a
// studio catalog is created or edited.
type CatalogChanged struct {
	BaseEvent
	StudioID uuid.UUID `json:"studioId"`
	Reason   string    `json:"reason"`
}

func (e CatalogChanged) EventName() string { return "catalog.changed" }

// =============================================================================
// Scheduling Domain Events
// =============================================================================

// ScheduleStructureChanged is published after any mutation that changes the
// row structure of a job. Token is the job's new generation.
type ScheduleStructureChanged struct {
	BaseEvent
	StudioID uuid.UUID `json:"studioId"`
	JobID    uuid.UUID `json:"jobId"`
	Token    uint64    `json:"token"`
	Reason   string    `json:"reason"`
}

func (e ScheduleStructureChanged) EventName() string { return "scheduling.structure.changed" }

// ScheduleSynced is published after an order sync committed.
type ScheduleSynced struct {
	BaseEvent
	StudioID uuid.UUID `json:"studioId"`
	JobID    uuid.UUID `json:"jobId"`
	Trigger  string    `json:"trigger"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
}

func (e ScheduleSynced) EventName() string { return "scheduling.sync.completed" }

// TaskReclassified is published after a task was moved to a new stage and
// catalog category.
type TaskReclassified struct {
	BaseEvent
	StudioID          uuid.UUID `json:"studioId"`
	JobID             uuid.UUID `json:"jobId"`
	TaskID            uuid.UUID `json:"taskId"`
	Stage             string    `json:"stage"`
	CatalogCategoryID uuid.UUID `json:"catalogCategoryId"`
}

func (e TaskReclassified) EventName() string { return "scheduling.task.reclassified" }

// CustomCategoryChanged is published when a studio creates or renames a
// custom category. It affects every job of the studio.
type CustomCategoryChanged struct {
	BaseEvent
	StudioID         uuid.UUID `json:"studioId"`
	CustomCategoryID uuid.UUID `json:"customCategoryId"`
}

func (e CustomCategoryChanged) EventName() string { return "scheduling.custom_category.changed" }
