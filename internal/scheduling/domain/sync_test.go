package domain

import "testing"

func TestPlanOrderSyncIsIdempotent(t *testing.T) {
	candidates := []SyncCandidate{
		{OrderItemID: testID(1), Name: "Retouch", CatalogCategoryID: idPtr(categoryEditing)},
		{OrderItemID: testID(2), Name: "Album", Existing: &SyncedEntry{TaskID: testID(12), SourceName: "Album"}},
		{OrderItemID: testID(3), Name: "Highlights v2", Existing: &SyncedEntry{TaskID: testID(13), SourceName: "Highlights"}},
		{OrderItemID: testID(4), Name: "Grade", CatalogCategoryID: idPtr(categoryColor), Existing: &SyncedEntry{TaskID: testID(14), SourceName: "Grade"}},
		{OrderItemID: testID(1), Name: "Retouch", CatalogCategoryID: idPtr(categoryEditing)},
	}

	first := PlanOrderSync(candidates)
	if got := first.Result(); got != (SyncResult{Created: 1, Updated: 2, Skipped: 1}) {
		t.Fatalf("unexpected first plan %+v", got)
	}

	// Apply the plan the way the repository does and plan again.
	applied := make([]SyncCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.Existing = &SyncedEntry{TaskID: c.OrderItemID, SourceName: c.Name, SourceCatalogCategoryID: c.CatalogCategoryID}
		applied = append(applied, c)
	}
	second := PlanOrderSync(applied)
	if got := second.Result(); got != (SyncResult{Skipped: 4}) {
		t.Fatalf("expected only skips on the second run, got %+v", got)
	}
}
