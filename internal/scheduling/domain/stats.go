package domain

import (
	"math"

	"github.com/google/uuid"
)

// ScheduleStatus is the bucket a work unit falls into for statistics.
type ScheduleStatus string

const (
	StatusUnassigned ScheduleStatus = "UNASSIGNED"
	StatusDone       ScheduleStatus = "COMPLETED"
	StatusPending    ScheduleStatus = "PENDING"
	StatusInProgress ScheduleStatus = "IN_PROGRESS"
	StatusDelayed    ScheduleStatus = "DELAYED"
)

// StatusOf classifies one task against today. Unscheduled items and tasks
// without both dates are unassigned; completion wins over dates.
func StatusOf(t Task, today Date) ScheduleStatus {
	if !t.Scheduled {
		return StatusUnassigned
	}
	if t.Completed() {
		return StatusDone
	}
	if !t.StartDate.IsSet() || !t.EndDate.IsSet() {
		return StatusUnassigned
	}
	switch {
	case today.Before(t.StartDate):
		return StatusPending
	case today.After(t.EndDate):
		return StatusDelayed
	default:
		return StatusInProgress
	}
}

// JobStats are the counters for one job or a sum of jobs. ProgressSum keeps
// the exact sum of per-unit progress; rounding belongs to presentation.
type JobStats struct {
	Total       int     `json:"total" yaml:"total"`
	Completed   int     `json:"completed" yaml:"completed"`
	Pending     int     `json:"pending" yaml:"pending"`
	InProgress  int     `json:"inProgress" yaml:"inProgress"`
	Delayed     int     `json:"delayed" yaml:"delayed"`
	Unassigned  int     `json:"unassigned" yaml:"unassigned"`
	WithoutCrew int     `json:"withoutCrew" yaml:"withoutCrew"`
	ProgressSum float64 `json:"progressSum" yaml:"progressSum"`
}

// Percentage is the mean progress over all work units, unscheduled ones
// counting as zero.
func (s JobStats) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return s.ProgressSum / float64(s.Total)
}

// Add sums two sets of counters.
func (s JobStats) Add(o JobStats) JobStats {
	return JobStats{
		Total:       s.Total + o.Total,
		Completed:   s.Completed + o.Completed,
		Pending:     s.Pending + o.Pending,
		InProgress:  s.InProgress + o.InProgress,
		Delayed:     s.Delayed + o.Delayed,
		Unassigned:  s.Unassigned + o.Unassigned,
		WithoutCrew: s.WithoutCrew + o.WithoutCrew,
		ProgressSum: s.ProgressSum + o.ProgressSum,
	}
}

// AccumulateTask adds one normalized task to the counters.
func (s *JobStats) AccumulateTask(t Task, today Date) {
	s.Total++
	switch StatusOf(t, today) {
	case StatusUnassigned:
		s.Unassigned++
	case StatusDone:
		s.Completed++
	case StatusPending:
		s.Pending++
	case StatusInProgress:
		s.InProgress++
	case StatusDelayed:
		s.Delayed++
	}
	if t.Scheduled && !t.Completed() && t.AssignedTo == nil {
		s.WithoutCrew++
	}
	s.ProgressSum += progressOf(t)
}

func progressOf(t Task) float64 {
	if !t.Scheduled {
		return 0
	}
	if t.Completed() && (t.Progress == nil || *t.Progress < 100) {
		return 100
	}
	if t.Progress == nil {
		return 0
	}
	return math.Max(0, math.Min(100, *t.Progress))
}

// ComputeJobStats computes the counters for one job's order items and manual
// tasks. Classification does not matter here; every unit counts.
func ComputeJobStats(items []OrderItem, manual []ManualTask, today Date) JobStats {
	var stats JobStats
	for i, item := range items {
		stats.AccumulateTask(NormalizeOrderItem(nil, item, i), today)
	}
	for i, m := range manual {
		stats.AccumulateTask(NormalizeManualTask(nil, nil, m, i), today)
	}
	return stats
}

// JobSchedule is one job's schedule as handed to the fleet overview.
type JobSchedule struct {
	JobID       uuid.UUID    `json:"jobId" yaml:"jobId"`
	Name        string       `json:"name" yaml:"name"`
	EventDate   Date         `json:"eventDate" yaml:"eventDate"`
	OrderItems  []OrderItem  `json:"orderItems" yaml:"orderItems"`
	ManualTasks []ManualTask `json:"manualTasks" yaml:"manualTasks"`
}

// JobStatsEntry pairs a job with its counters.
type JobStatsEntry struct {
	JobID     uuid.UUID
	Name      string
	EventDate Date
	Stats     JobStats
}

// FleetStats is the per-job breakdown plus summed totals.
// FleetStats holds per-job stats and their totals. Today is the date every
// job was measured against.
type FleetStats struct {
	Today  Date
	Jobs   []JobStatsEntry
	Totals JobStats
}

// ComputeFleetStats runs ComputeJobStats per job and sums the exact values.
func ComputeFleetStats(schedules []JobSchedule, today Date) FleetStats {
	fleet := FleetStats{Today: today, Jobs: make([]JobStatsEntry, 0, len(schedules))}
	for _, js := range schedules {
		stats := ComputeJobStats(js.OrderItems, js.ManualTasks, today)
		fleet.Jobs = append(fleet.Jobs, JobStatsEntry{
			JobID:     js.JobID,
			Name:      js.Name,
			EventDate: js.EventDate,
			Stats:     stats,
		})
		fleet.Totals = fleet.Totals.Add(stats)
	}
	return fleet
}

// RoundPercent rounds a percentage for display.
func RoundPercent(p float64) int {
	return int(math.Round(p))
}
