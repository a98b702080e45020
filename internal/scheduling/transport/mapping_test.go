package transport

import (
	"testing"

	"github.com/google/uuid"

	"studio_backend/internal/scheduling/domain"
)

func TestFleetTotalsRoundFromExactSums(t *testing.T) {
	fleet := domain.FleetStats{
		Today: domain.NewDate(2026, 3, 1),
		Jobs: []domain.JobStatsEntry{
			{JobID: uuid.New(), Stats: domain.JobStats{Total: 3, ProgressSum: 100}},
			{JobID: uuid.New(), Stats: domain.JobStats{Total: 1, ProgressSum: 0}},
		},
		Totals: domain.JobStats{Total: 4, ProgressSum: 100},
	}

	resp := ToFleetStatsResponse(fleet)
	if resp.Today != fleet.Today {
		t.Fatalf("expected today %s, got %s", fleet.Today, resp.Today)
	}
	if resp.Jobs[0].Stats.Percentage != 33 {
		t.Fatalf("expected per-job 33, got %d", resp.Jobs[0].Stats.Percentage)
	}
	if resp.Totals.Percentage != 25 {
		t.Fatalf("expected totals 25, got %d", resp.Totals.Percentage)
	}
	if resp.Totals.Total != 4 {
		t.Fatalf("expected total 4, got %d", resp.Totals.Total)
	}
}

func TestRowResponsesCarryKindAndTask(t *testing.T) {
	sectionID := uuid.New()
	categoryID := uuid.New()
	item := domain.OrderItem{ID: uuid.New(), Name: "Album"}
	task := domain.Task{
		Source:            domain.SourceOrderItem,
		ID:                item.ID,
		Name:              item.Name,
		Category:          domain.CategoryDelivery,
		Stage:             domain.StageDelivery,
		HasStage:          true,
		CatalogCategoryID: categoryID,
		Section:           domain.SectionKeyOf(sectionID),
		StageSlot:         domain.StageDelivery,
		Slot:              domain.Slot{Kind: domain.SlotCatalog, ID: categoryID},
	}
	rows := []domain.Row{
		domain.SectionRow{Section: domain.SectionKeyOf(sectionID), Name: "Print", TaskCount: 1},
		domain.TaskRow{Item: item, Task: task},
	}

	resp := ToRowResponses(rows, domain.NewDate(2026, 3, 1))
	if len(resp) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp))
	}
	if resp[0].Kind != domain.RowSection || resp[0].TaskCount == nil || *resp[0].TaskCount != 1 {
		t.Fatalf("unexpected section row %+v", resp[0])
	}
	if resp[1].Kind != domain.RowTask || resp[1].Task == nil {
		t.Fatalf("expected a task row with task payload, got %+v", resp[1])
	}
	if resp[1].Task.ScheduleStatus != domain.StatusUnassigned {
		t.Fatalf("expected an unsynced item to be unassigned, got %s", resp[1].Task.ScheduleStatus)
	}
	if resp[1].Task.NeedsAlert {
		t.Fatalf("expected a classified task not to need an alert")
	}
}
