package service

import (
	"context"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/repository"
	"studio_backend/internal/scheduling/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/sanitize"
)

const (
	msgInvalidDateRange        = "endDate must not be before startDate"
	msgUnknownCustomCategory   = "custom category does not exist"
	msgCustomCategoryPlacement = "custom category does not belong to the given section and stage"
	msgCustomCategoryNoStage   = "a task in a custom category needs a production category"
	msgEmptyName               = "name must not be empty"
)

// CreateManualTask adds a manual task to a job.
func (s *Service) CreateManualTask(ctx context.Context, studioID, jobID uuid.UUID, req transport.ManualTaskRequest) (domain.ManualTask, uint64, error) {
	params, err := s.manualTaskParams(ctx, studioID, jobID, req)
	if err != nil {
		return domain.ManualTask{}, 0, err
	}
	task, err := s.repo.CreateManualTask(ctx, params)
	if err != nil {
		return domain.ManualTask{}, 0, err
	}
	gen := s.invalidateJob(ctx, studioID, jobID, "manual_task.created")
	s.log.WithContext(ctx).Info("manual task created", "jobId", jobID, "taskId", task.ID)
	return task, gen, nil
}

// UpdateManualTask replaces the editable state of a manual task.
func (s *Service) UpdateManualTask(ctx context.Context, studioID, jobID, taskID uuid.UUID, req transport.ManualTaskRequest) (domain.ManualTask, uint64, error) {
	params, err := s.manualTaskParams(ctx, studioID, jobID, req)
	if err != nil {
		return domain.ManualTask{}, 0, err
	}
	task, err := s.repo.UpdateManualTask(ctx, taskID, params)
	if err != nil {
		return domain.ManualTask{}, 0, err
	}
	gen := s.invalidateJob(ctx, studioID, jobID, "manual_task.updated")
	return task, gen, nil
}

// DeleteManualTask removes a manual task.
func (s *Service) DeleteManualTask(ctx context.Context, studioID, jobID, taskID uuid.UUID) (uint64, error) {
	if err := s.repo.DeleteManualTask(ctx, studioID, jobID, taskID); err != nil {
		return 0, err
	}
	gen := s.invalidateJob(ctx, studioID, jobID, "manual_task.deleted")
	s.log.WithContext(ctx).Info("manual task deleted", "jobId", jobID, "taskId", taskID)
	return gen, nil
}

func (s *Service) manualTaskParams(ctx context.Context, studioID, jobID uuid.UUID, req transport.ManualTaskRequest) (repository.ManualTaskParams, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return repository.ManualTaskParams{}, apperr.Validation(msgEmptyName)
	}
	if req.StartDate.IsSet() && req.EndDate.IsSet() && req.EndDate.Before(req.StartDate) {
		return repository.ManualTaskParams{}, apperr.Validation(msgInvalidDateRange)
	}

	duration := req.DurationDays
	if duration < 1 {
		duration = domain.DefaultDurationDays
	}

	params := repository.ManualTaskParams{
		StudioID:          studioID,
		JobID:             jobID,
		Name:              name,
		DurationDays:      duration,
		Category:          domain.ParseTaskCategory(req.Category),
		SectionID:         req.SectionID,
		CatalogCategoryID: req.CatalogCategoryID,
		CustomCategoryID:  req.CustomCategoryID,
		Status:            sanitize.Text(req.Status),
		ProgressPercent:   req.ProgressPercent,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		AssignedTo:        req.AssignedTo,
	}

	if req.CustomCategoryID != nil {
		custom, err := s.findCustomCategory(ctx, studioID, *req.CustomCategoryID)
		if err != nil {
			return repository.ManualTaskParams{}, err
		}
		stage, ok := domain.NormalizeStage(params.Category)
		if !ok {
			return repository.ManualTaskParams{}, apperr.Validation(msgCustomCategoryNoStage)
		}
		if stage != custom.Stage || (req.SectionID != nil && *req.SectionID != custom.SectionID) {
			return repository.ManualTaskParams{}, apperr.Validation(msgCustomCategoryPlacement)
		}
		sectionID := custom.SectionID
		params.SectionID = &sectionID
	}
	return params, nil
}

func (s *Service) findCustomCategory(ctx context.Context, studioID, id uuid.UUID) (domain.CustomCategory, error) {
	categories, err := s.repo.ListCustomCategories(ctx, studioID)
	if err != nil {
		return domain.CustomCategory{}, err
	}
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.CustomCategory{}, apperr.Validation(msgUnknownCustomCategory)
}

// AddStageKey makes a (section, stage) part of the job's structure even while
// it has no tasks.
func (s *Service) AddStageKey(ctx context.Context, studioID, jobID uuid.UUID, req transport.AddStageKeyRequest) (domain.StageKey, uint64, error) {
	stage := domain.Stage(req.Stage)
	if !stage.IsProduction() {
		return domain.StageKey{}, 0, apperr.Validation(domain.ErrInvalidStage.Error())
	}
	key := domain.StageKey{SectionID: req.SectionID, Stage: stage}
	if err := s.repo.AddStageKey(ctx, studioID, jobID, key); err != nil {
		return domain.StageKey{}, 0, err
	}
	gen := s.invalidateJob(ctx, studioID, jobID, "stage_key.added")
	return key, gen, nil
}

// ListCustomCategories returns the studio's custom categories.
func (s *Service) ListCustomCategories(ctx context.Context, studioID uuid.UUID) ([]domain.CustomCategory, error) {
	return s.repo.ListCustomCategories(ctx, studioID)
}

// CreateCustomCategory adds a custom category to a (section, stage) of the
// studio. Every job of the studio sees it.
func (s *Service) CreateCustomCategory(ctx context.Context, studioID uuid.UUID, req transport.CreateCustomCategoryRequest) (domain.CustomCategory, error) {
	stage := domain.Stage(req.Stage)
	if !stage.IsProduction() {
		return domain.CustomCategory{}, apperr.Validation(domain.ErrInvalidStage.Error())
	}
	name := sanitize.Text(req.Name)
	if name == "" {
		return domain.CustomCategory{}, apperr.Validation(msgEmptyName)
	}

	category, err := s.repo.CreateCustomCategory(ctx, repository.CreateCustomCategoryParams{
		StudioID:  studioID,
		SectionID: req.SectionID,
		Stage:     stage,
		Name:      name,
	})
	if err != nil {
		return domain.CustomCategory{}, err
	}
	s.customCategoryChanged(ctx, studioID, category.ID)
	return category, nil
}

// RenameCustomCategory renames a custom category.
func (s *Service) RenameCustomCategory(ctx context.Context, studioID, id uuid.UUID, req transport.RenameCustomCategoryRequest) (domain.CustomCategory, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return domain.CustomCategory{}, apperr.Validation(msgEmptyName)
	}
	category, err := s.repo.RenameCustomCategory(ctx, studioID, id, name)
	if err != nil {
		return domain.CustomCategory{}, err
	}
	s.customCategoryChanged(ctx, studioID, category.ID)
	return category, nil
}

func (s *Service) customCategoryChanged(ctx context.Context, studioID, id uuid.UUID) {
	s.InvalidateStudio(ctx, studioID, "custom_category.changed")
	s.publish(ctx, events.CustomCategoryChanged{
		BaseEvent:        events.NewBaseEvent(),
		StudioID:         studioID,
		CustomCategoryID: id,
	})
}
