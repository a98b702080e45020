package domain

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestStatusOf(t *testing.T) {
	today := NewDate(2026, time.June, 15)
	task := func(start, end Date, status string, progress *float64) Task {
		return Task{Scheduled: true, StartDate: start, EndDate: end, Status: status, Progress: progress}
	}

	cases := []struct {
		name string
		task Task
		want ScheduleStatus
	}{
		{"unscheduled", Task{}, StatusUnassigned},
		{"missing dates", task(NoDate, NoDate, "", nil), StatusUnassigned},
		{"missing end", task(today, NoDate, "", nil), StatusUnassigned},
		{"completed by status", task(today.AddDays(-9), today.AddDays(-5), "completed", nil), StatusDone},
		{"completed by progress", task(NoDate, NoDate, "", floatPtr(100)), StatusDone},
		{"starts tomorrow", task(today.AddDays(1), today.AddDays(3), "", nil), StatusPending},
		{"starts today", task(today, today.AddDays(3), "", nil), StatusInProgress},
		{"ends today", task(today.AddDays(-3), today, "", floatPtr(99)), StatusInProgress},
		{"ended yesterday", task(today.AddDays(-3), today.AddDays(-1), "", floatPtr(50)), StatusDelayed},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.task, today); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestDateOfStripsTimeInUTC(t *testing.T) {
	amsterdam := time.FixedZone("CEST", 2*60*60)
	lateEvening := time.Date(2026, time.June, 15, 23, 30, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, time.June, 16, 1, 0, 0, 0, amsterdam)

	if DateOf(lateEvening) != DateOf(earlyMorning) {
		t.Fatalf("expected both instants to fall on the same UTC date")
	}
	if got := DateOf(earlyMorning).String(); got != "2026-06-15" {
		t.Fatalf("expected 2026-06-15, got %s", got)
	}
	if DateOf(time.Time{}).IsSet() {
		t.Fatalf("expected the zero time to be unset")
	}
}

func TestComputeJobStatsCounters(t *testing.T) {
	today := NewDate(2026, time.June, 15)
	crew := idPtr(testID(500))

	items := []OrderItem{
		{ID: testID(1)},
		{ID: testID(2), Task: &ScheduledTask{ID: testID(12), Status: StatusCompleted}},
		{ID: testID(3), Task: &ScheduledTask{ID: testID(13), StartDate: today.AddDays(2), EndDate: today.AddDays(4), AssignedTo: crew}},
		{ID: testID(4), Task: &ScheduledTask{ID: testID(14), StartDate: today.AddDays(-2), EndDate: today.AddDays(2), ProgressPercent: floatPtr(33.3)}},
	}
	manual := []ManualTask{
		{ID: testID(20), StartDate: today.AddDays(-5), EndDate: today.AddDays(-1), ProgressPercent: floatPtr(66.6), AssignedTo: crew},
		{ID: testID(21)},
	}

	stats := ComputeJobStats(items, manual, today)
	want := JobStats{Total: 6, Completed: 1, Pending: 1, InProgress: 1, Delayed: 1, Unassigned: 2, WithoutCrew: 2}
	got := stats
	got.ProgressSum = 0
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if math.Abs(stats.ProgressSum-199.9) > 1e-9 {
		t.Fatalf("expected exact progress sum 199.9, got %v", stats.ProgressSum)
	}
	if RoundPercent(stats.Percentage()) != 33 {
		t.Fatalf("expected 33%%, got %v", stats.Percentage())
	}
}

func TestComputeJobStatsPartition(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	base := NewDate(2026, time.January, 1)
	randomDate := func() Date {
		if r.Intn(6) == 0 {
			return NoDate
		}
		return base.AddDays(r.Intn(40))
	}
	statuses := []string{"", "PENDING", "COMPLETED", "completed", "IN_PROGRESS"}

	for round := 0; round < 100; round++ {
		var items []OrderItem
		for i, n := 0, r.Intn(10); i < n; i++ {
			item := OrderItem{ID: testID(i)}
			if r.Intn(3) > 0 {
				item.Task = &ScheduledTask{ID: testID(100 + i), Status: statuses[r.Intn(len(statuses))], StartDate: randomDate(), EndDate: randomDate()}
				if r.Intn(2) == 0 {
					item.Task.ProgressPercent = floatPtr(float64(r.Intn(101)))
				}
			}
			items = append(items, item)
		}
		var manual []ManualTask
		for i, n := 0, r.Intn(5); i < n; i++ {
			manual = append(manual, ManualTask{ID: testID(200 + i), Status: statuses[r.Intn(len(statuses))], StartDate: randomDate(), EndDate: randomDate()})
		}

		for day := 0; day < 45; day += 3 {
			s := ComputeJobStats(items, manual, base.AddDays(day))
			if s.Total != len(items)+len(manual) {
				t.Fatalf("expected total %d, got %d", len(items)+len(manual), s.Total)
			}
			if s.Completed+s.Pending+s.InProgress+s.Delayed != s.Total-s.Unassigned {
				t.Fatalf("partition broken: %+v", s)
			}
			if p := s.Percentage(); p < 0 || p > 100 {
				t.Fatalf("percentage out of range: %v", p)
			}
		}
	}
}

func TestComputeFleetStats(t *testing.T) {
	today := NewDate(2026, time.June, 15)
	schedules := []JobSchedule{
		{
			JobID:      testID(1),
			Name:       "Wedding",
			OrderItems: []OrderItem{{ID: testID(10)}, {ID: testID(11)}, {ID: testID(12)}},
		},
		{
			JobID: testID(2),
			Name:  "Corporate",
			OrderItems: []OrderItem{
				{ID: testID(20), Task: &ScheduledTask{ID: testID(21), ProgressPercent: floatPtr(100)}},
				{ID: testID(22), Task: &ScheduledTask{ID: testID(23), ProgressPercent: floatPtr(12.5), StartDate: today, EndDate: today}},
			},
		},
	}

	fleet := ComputeFleetStats(schedules, today)
	if fleet.Today != today {
		t.Fatalf("expected fleet measured against %s, got %s", today, fleet.Today)
	}
	if len(fleet.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(fleet.Jobs))
	}
	unscheduled := fleet.Jobs[0].Stats
	if unscheduled.Unassigned != 3 || unscheduled.Percentage() != 0 {
		t.Fatalf("expected a job without schedule entries to be fully unassigned, got %+v", unscheduled)
	}
	if fleet.Totals.Total != 5 || fleet.Totals.Completed != 1 || fleet.Totals.InProgress != 1 || fleet.Totals.Unassigned != 3 {
		t.Fatalf("unexpected totals %+v", fleet.Totals)
	}
	if fleet.Totals.ProgressSum != 112.5 {
		t.Fatalf("expected exact progress sum 112.5, got %v", fleet.Totals.ProgressSum)
	}
}
