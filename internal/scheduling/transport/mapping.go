package transport

import (
	"github.com/google/uuid"

	"studio_backend/internal/scheduling/domain"
)

// ToRowResponses maps rows in order. Leaf rows carry their task with its
// schedule status against today.
func ToRowResponses(rows []domain.Row, today domain.Date) []RowResponse {
	out := make([]RowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToRowResponse(r, today))
	}
	return out
}

// ToRowResponse maps one row.
func ToRowResponse(row domain.Row, today domain.Date) RowResponse {
	resp := RowResponse{
		Kind:       row.Kind(),
		Key:        row.Key(),
		SectionKey: string(row.SectionKey()),
	}
	switch r := row.(type) {
	case domain.SectionRow:
		resp.Name = r.Name
		resp.TaskCount = intPtr(r.TaskCount)
		resp.NeedsAlert = r.NeedsAlert
	case domain.StageRow:
		resp.Stage = r.Stage
		resp.TaskCount = intPtr(r.TaskCount)
		resp.NeedsAlert = r.NeedsAlert
	case domain.CategoryRow:
		resp.Stage = r.Stage
		resp.SlotKind = r.SlotKind
		resp.CategoryID = optionalID(r.CategoryID)
		resp.Name = r.Name
		resp.TaskCount = intPtr(r.TaskCount)
		resp.NeedsAlert = r.NeedsAlert
	case domain.TaskRow:
		task := ToTaskResponse(r.Task, today)
		resp.Name = r.Task.Name
		resp.Stage = r.Task.StageSlot
		resp.Task = &task
	case domain.ManualTaskRow:
		task := ToTaskResponse(r.Task, today)
		resp.Name = r.Task.Name
		resp.Stage = r.Task.StageSlot
		resp.Task = &task
	case domain.AddTaskPhantomRow:
		resp.Stage = r.Stage
		resp.SlotKind = r.SlotKind
		resp.CategoryID = optionalID(r.CategoryID)
	case domain.AddCategoryPhantomRow:
		resp.Stage = r.Stage
	}
	return resp
}

// ToTaskResponse maps a normalized task.
func ToTaskResponse(t domain.Task, today domain.Date) TaskResponse {
	resp := TaskResponse{
		ID:                t.ID,
		Source:            t.Source,
		ScheduleID:        optionalID(t.ScheduleID),
		Name:              t.Name,
		Category:          t.Category,
		CatalogCategoryID: optionalID(t.CatalogCategoryID),
		CustomCategoryID:  optionalID(t.CustomCategoryID),
		Status:            t.Status,
		ProgressPercent:   t.Progress,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
		AssignedTo:        copyID(t.AssignedTo),
		DurationDays:      t.DurationDays,
		ScheduleStatus:    domain.StatusOf(t, today),
		NeedsAlert:        domain.NeedsAlert(t),
	}
	if t.HasStage {
		resp.Stage = t.Stage
	}
	return resp
}

// ToTaskResponses maps tasks in order.
func ToTaskResponses(tasks []domain.Task, today domain.Date) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t, today))
	}
	return out
}

// ToBlockResponses nests rows into sections, stages and category segments.
func ToBlockResponses(blocks []domain.SectionBlock, today domain.Date) []SectionBlockResponse {
	out := make([]SectionBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		section := SectionBlockResponse{
			Stages:    make([]StageBlockResponse, 0, len(b.Stages)),
			TaskCount: b.TaskCount,
		}
		if b.Header != nil {
			header := ToRowResponse(*b.Header, today)
			section.Header = &header
		}
		if len(b.Leading) > 0 {
			section.Leading = ToRowResponses(b.Leading, today)
		}
		for _, stage := range b.Stages {
			sb := StageBlockResponse{
				Header:    ToRowResponse(stage.Header, today),
				Segments:  make([]SegmentResponse, 0),
				TaskCount: stage.TaskCount,
			}
			for _, seg := range domain.GetStageSegments(stage) {
				sr := SegmentResponse{
					Uncategorized: seg.Uncategorized(),
					Rows:          ToRowResponses(seg.Rows, today),
					TaskCount:     seg.TaskCount,
				}
				if seg.Category != nil {
					header := ToRowResponse(*seg.Category, today)
					sr.Category = &header
				}
				sb.Segments = append(sb.Segments, sr)
			}
			section.Stages = append(section.Stages, sb)
		}
		out = append(out, section)
	}
	return out
}

// ToStatsResponse rounds the exact progress for display.
func ToStatsResponse(s domain.JobStats) StatsResponse {
	return StatsResponse{
		Total:       s.Total,
		Completed:   s.Completed,
		Pending:     s.Pending,
		InProgress:  s.InProgress,
		Delayed:     s.Delayed,
		Unassigned:  s.Unassigned,
		WithoutCrew: s.WithoutCrew,
		Percentage:  domain.RoundPercent(s.Percentage()),
	}
}

// ToFleetStatsResponse maps fleet stats. Totals are rounded from the exact
// sums, never from the rounded per-job values.
func ToFleetStatsResponse(f domain.FleetStats) FleetStatsResponse {
	jobs := make([]FleetJobResponse, 0, len(f.Jobs))
	for _, j := range f.Jobs {
		jobs = append(jobs, FleetJobResponse{
			JobID:     j.JobID,
			Name:      j.Name,
			EventDate: j.EventDate,
			Stats:     ToStatsResponse(j.Stats),
		})
	}
	return FleetStatsResponse{Today: f.Today, Jobs: jobs, Totals: ToStatsResponse(f.Totals)}
}

func ToManualTaskResponse(m domain.ManualTask, token uint64) ManualTaskResponse {
	return ManualTaskResponse{
		ID:                 m.ID,
		Name:               m.Name,
		DurationDays:       m.DurationDays,
		Category:           m.Category,
		SectionID:          m.SectionID,
		CatalogCategoryID:  m.CatalogCategoryID,
		CustomCategoryID:   m.CustomCategoryID,
		CustomCategoryName: m.CustomCategoryName,
		Status:             m.Status,
		ProgressPercent:    m.ProgressPercent,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		AssignedTo:         m.AssignedTo,
		Token:              token,
	}
}

func ToCustomCategoryResponse(c domain.CustomCategory) CustomCategoryResponse {
	return CustomCategoryResponse{ID: c.ID, SectionID: c.SectionID, Stage: c.Stage, Name: c.Name}
}

func intPtr(v int) *int {
	return &v
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
