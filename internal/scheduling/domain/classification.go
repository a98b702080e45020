package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidStage        = errors.New("stage must be one of PLANNING, PRODUCTION, POST_PRODUCTION, DELIVERY")
	ErrUnknownCategory     = errors.New("catalog category does not exist in the studio catalog")
	ErrCatalogNotAvailable = errors.New("catalog is not available")
)

// NeedsAlert reports whether a task still needs operator classification: it
// has no stage, or it resolves to neither a catalog nor a custom category.
func NeedsAlert(t Task) bool {
	return !t.Classified()
}

// SectionNeedsAlert reports whether a section should render with an alert.
// The sentinel always does.
func SectionNeedsAlert(key SectionKey, tasks []Task) bool {
	if key.IsUnclassified() {
		return true
	}
	for _, t := range tasks {
		if t.Section == key && NeedsAlert(t) {
			return true
		}
	}
	return false
}

// UnclassifiedTasks returns the tasks of the row list that need
// classification, in row order.
func UnclassifiedTasks(rows []Row) []Task {
	var out []Task
	for _, r := range rows {
		if t, ok := LeafTask(r); ok && NeedsAlert(t) {
			out = append(out, t)
		}
	}
	return out
}

// SectionTaskCount returns the number of leaf rows under the given section.
func SectionTaskCount(rows []Row, key SectionKey) int {
	n := 0
	for _, r := range rows {
		if IsLeaf(r) && r.SectionKey() == key {
			n++
		}
	}
	return n
}

// ValidateReclassification checks a target (stage, catalog category) pair
// before it is written. The category must exist in the catalog so the task
// leaves the sentinel on the next build.
func ValidateReclassification(index *CatalogIndex, stage Stage, categoryID uuid.UUID) error {
	if !stage.IsProduction() {
		return ErrInvalidStage
	}
	if index == nil {
		return ErrCatalogNotAvailable
	}
	if _, ok := index.Category(categoryID); !ok {
		return ErrUnknownCategory
	}
	return nil
}
