package main

import (
	"fmt"
	"os"

	"studio_backend/internal/scheduling/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// snapshot is a self-contained job export: the catalog it was classified
// against plus the job's order items, manual tasks and structure settings.
type snapshot struct {
	JobID            uuid.UUID               `yaml:"jobId"`
	Name             string                  `yaml:"name"`
	EventDate        domain.Date             `yaml:"eventDate"`
	Today            domain.Date             `yaml:"today"`
	Options          domain.RowOptions       `yaml:"options"`
	Catalog          []domain.Section        `yaml:"catalog"`
	OrderItems       []domain.OrderItem      `yaml:"orderItems"`
	ManualTasks      []domain.ManualTask     `yaml:"manualTasks"`
	StageKeys        []domain.StageKey       `yaml:"stageKeys"`
	CustomCategories []domain.CustomCategory `yaml:"customCategories"`
}

func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return parseSnapshot(data)
}

func parseSnapshot(data []byte) (*snapshot, error) {
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	for _, key := range snap.StageKeys {
		if !key.Stage.IsProduction() {
			return nil, fmt.Errorf("snapshot stage key: %w: %q", domain.ErrInvalidStage, key.Stage)
		}
	}
	return &snap, nil
}

// rows builds the structure exactly as the API does for the same inputs.
func (s *snapshot) rows(opts domain.RowOptions) []domain.Row {
	index := domain.NewCatalogIndex(s.Catalog)
	return domain.BuildSchedulerRows(domain.BuildInput{
		Catalog:          index,
		Items:            domain.OrderItems(index, s.OrderItems),
		ManualTasks:      s.ManualTasks,
		KnownStages:      domain.NewStageKeySet(s.StageKeys...),
		CustomCategories: domain.CustomCategoriesByKey(s.CustomCategories),
		Options:          opts,
	})
}

func (s *snapshot) schedule() domain.JobSchedule {
	return domain.JobSchedule{
		JobID:       s.JobID,
		Name:        s.Name,
		EventDate:   s.EventDate,
		OrderItems:  s.OrderItems,
		ManualTasks: s.ManualTasks,
	}
}

// today prefers the flag, then the snapshot, then the wall clock.
func resolveToday(flag string, snap *snapshot, now func() domain.Date) (domain.Date, error) {
	if flag != "" {
		d, err := domain.ParseDate(flag)
		if err != nil {
			return domain.Date{}, fmt.Errorf("--today: %w", err)
		}
		return d, nil
	}
	if snap != nil && snap.Today.IsSet() {
		return snap.Today, nil
	}
	return now(), nil
}
