package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RowKind discriminates the members of the Row union.
type RowKind string

const (
	RowSection            RowKind = "section"
	RowStage              RowKind = "stage"
	RowCategory           RowKind = "category"
	RowTask               RowKind = "task"
	RowManualTask         RowKind = "manual_task"
	RowAddTaskPhantom     RowKind = "add_task_phantom"
	RowAddCategoryPhantom RowKind = "add_category_phantom"
)

// Row is one entry of the flat scheduler tree. The set of implementations is
// closed; switch on the concrete type or on Kind.
type Row interface {
	Kind() RowKind
	// Key is stable across rebuilds of the same input.
	Key() string
	SectionKey() SectionKey
	isRow()
}

// SectionRow heads a catalog section or the sentinel.
type SectionRow struct {
	Section    SectionKey
	Name       string
	TaskCount  int
	NeedsAlert bool
}

// StageRow heads one production stage within a section.
type StageRow struct {
	Section    SectionKey
	Stage      Stage
	TaskCount  int
	NeedsAlert bool
}

// CategoryRow heads a category segment. CategoryID is uuid.Nil for the
// uncategorized bucket.
type CategoryRow struct {
	Section    SectionKey
	Stage      Stage
	SlotKind   SlotKind
	CategoryID uuid.UUID
	Name       string
	TaskCount  int
	NeedsAlert bool
}

// TaskRow wraps an order item and its normalized task.
type TaskRow struct {
	Item OrderItem
	Task Task
}

// ManualTaskRow wraps a manual task and its normalized task.
type ManualTaskRow struct {
	Manual ManualTask
	Task   Task
}

// AddTaskPhantomRow anchors a "new task" affordance at the end of a category.
type AddTaskPhantomRow struct {
	Section    SectionKey
	Stage      Stage
	SlotKind   SlotKind
	CategoryID uuid.UUID
}

// AddCategoryPhantomRow anchors a "new category" affordance at the end of a stage.
type AddCategoryPhantomRow struct {
	Section SectionKey
	Stage   Stage
}

func (SectionRow) Kind() RowKind            { return RowSection }
func (StageRow) Kind() RowKind              { return RowStage }
func (CategoryRow) Kind() RowKind           { return RowCategory }
func (TaskRow) Kind() RowKind               { return RowTask }
func (ManualTaskRow) Kind() RowKind         { return RowManualTask }
func (AddTaskPhantomRow) Kind() RowKind     { return RowAddTaskPhantom }
func (AddCategoryPhantomRow) Kind() RowKind { return RowAddCategoryPhantom }

func (SectionRow) isRow()            {}
func (StageRow) isRow()              {}
func (CategoryRow) isRow()           {}
func (TaskRow) isRow()               {}
func (ManualTaskRow) isRow()         {}
func (AddTaskPhantomRow) isRow()     {}
func (AddCategoryPhantomRow) isRow() {}

func (r SectionRow) SectionKey() SectionKey            { return r.Section }
func (r StageRow) SectionKey() SectionKey              { return r.Section }
func (r CategoryRow) SectionKey() SectionKey           { return r.Section }
func (r TaskRow) SectionKey() SectionKey               { return r.Task.Section }
func (r ManualTaskRow) SectionKey() SectionKey         { return r.Task.Section }
func (r AddTaskPhantomRow) SectionKey() SectionKey     { return r.Section }
func (r AddCategoryPhantomRow) SectionKey() SectionKey { return r.Section }

func (r SectionRow) Key() string { return "section:" + string(r.Section) }

func (r StageRow) Key() string { return fmt.Sprintf("stage:%s:%s", r.Section, r.Stage) }

func (r CategoryRow) Key() string {
	return fmt.Sprintf("category:%s:%s:%s", r.Section, r.Stage, slotKey(r.SlotKind, r.CategoryID))
}

func (r TaskRow) Key() string { return "task:" + r.Item.ID.String() }

func (r ManualTaskRow) Key() string { return "manual:" + r.Manual.ID.String() }

func (r AddTaskPhantomRow) Key() string {
	return fmt.Sprintf("add-task:%s:%s:%s", r.Section, r.Stage, slotKey(r.SlotKind, r.CategoryID))
}

func (r AddCategoryPhantomRow) Key() string {
	return fmt.Sprintf("add-category:%s:%s", r.Section, r.Stage)
}

func slotKey(kind SlotKind, id uuid.UUID) string {
	if kind == SlotUncategorized {
		return string(SlotUncategorized)
	}
	return string(kind) + ":" + id.String()
}

// IsTaskRow reports whether r is a TaskRow.
func IsTaskRow(r Row) bool {
	_, ok := r.(TaskRow)
	return ok
}

// IsManualTaskRow reports whether r is a ManualTaskRow.
func IsManualTaskRow(r Row) bool {
	_, ok := r.(ManualTaskRow)
	return ok
}

// IsLeaf reports whether r represents a task of either source.
func IsLeaf(r Row) bool {
	switch r.(type) {
	case TaskRow, ManualTaskRow:
		return true
	}
	return false
}

// IsPhantom reports whether r is an affordance anchor with no task data.
func IsPhantom(r Row) bool {
	switch r.(type) {
	case AddTaskPhantomRow, AddCategoryPhantomRow:
		return true
	}
	return false
}

// IsHeader reports whether r is a section, stage or category header.
func IsHeader(r Row) bool {
	switch r.(type) {
	case SectionRow, StageRow, CategoryRow:
		return true
	}
	return false
}

// LeafTask returns the normalized task of a leaf row.
func LeafTask(r Row) (Task, bool) {
	switch v := r.(type) {
	case TaskRow:
		return v.Task, true
	case ManualTaskRow:
		return v.Task, true
	}
	return Task{}, false
}

// CountLeaves counts task rows of either source.
func CountLeaves(rows []Row) int {
	n := 0
	for _, r := range rows {
		if IsLeaf(r) {
			n++
		}
	}
	return n
}
