package domain

import "strings"

// TaskCategory is the production category stored on a schedule entry.
type TaskCategory string

const (
	CategoryPlanning       TaskCategory = "PLANNING"
	CategoryProduction     TaskCategory = "PRODUCTION"
	CategoryPostProduction TaskCategory = "POST_PRODUCTION"
	CategoryReview         TaskCategory = "REVIEW"
	CategoryDelivery       TaskCategory = "DELIVERY"
	CategoryWarranty       TaskCategory = "WARRANTY"
	CategoryUnassigned     TaskCategory = "UNASSIGNED"
)

var knownTaskCategories = map[TaskCategory]struct{}{
	CategoryPlanning:       {},
	CategoryProduction:     {},
	CategoryPostProduction: {},
	CategoryReview:         {},
	CategoryDelivery:       {},
	CategoryWarranty:       {},
	CategoryUnassigned:     {},
}

// ParseTaskCategory maps a stored value to a TaskCategory. Unknown and empty
// values become UNASSIGNED.
func ParseTaskCategory(value string) TaskCategory {
	c := TaskCategory(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := knownTaskCategories[c]; ok {
		return c
	}
	return CategoryUnassigned
}

// Stage is one of the four production phases that form the spine of the
// work breakdown, plus the pending pseudo-stage used only by the sentinel.
type Stage string

const (
	StagePlanning       Stage = "PLANNING"
	StageProduction     Stage = "PRODUCTION"
	StagePostProduction Stage = "POST_PRODUCTION"
	StageDelivery       Stage = "DELIVERY"

	// StagePending groups tasks that resolve to no stage. It only ever
	// appears under the SIN_CATEGORIA section.
	StagePending Stage = "PENDING"
)

// Stages lists the production stages in their fixed order.
var Stages = []Stage{StagePlanning, StageProduction, StagePostProduction, StageDelivery}

// IsProduction reports whether s is one of the four production stages.
func (s Stage) IsProduction() bool {
	switch s {
	case StagePlanning, StageProduction, StagePostProduction, StageDelivery:
		return true
	}
	return false
}

// Rank is the position of s in the stage order. Pending sorts last.
func (s Stage) Rank() int {
	for i, stage := range Stages {
		if stage == s {
			return i
		}
	}
	return len(Stages)
}

// ParseStage maps a request value to a production stage.
func ParseStage(value string) (Stage, bool) {
	s := Stage(strings.ToUpper(strings.TrimSpace(value)))
	return s, s.IsProduction()
}

// NormalizeStage maps a task category onto the stage it is grouped under.
// REVIEW and WARRANTY fold into POST_PRODUCTION; UNASSIGNED has no stage.
func NormalizeStage(category TaskCategory) (Stage, bool) {
	switch category {
	case CategoryPlanning:
		return StagePlanning, true
	case CategoryProduction:
		return StageProduction, true
	case CategoryPostProduction, CategoryReview, CategoryWarranty:
		return StagePostProduction, true
	case CategoryDelivery:
		return StageDelivery, true
	default:
		return "", false
	}
}

// CategoryForStage is the task category written when a task is reclassified
// onto a stage.
func CategoryForStage(stage Stage) TaskCategory {
	switch stage {
	case StagePlanning:
		return CategoryPlanning
	case StageProduction:
		return CategoryProduction
	case StagePostProduction:
		return CategoryPostProduction
	case StageDelivery:
		return CategoryDelivery
	default:
		return CategoryUnassigned
	}
}
