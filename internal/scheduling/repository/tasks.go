package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/platform/apperr"
)

// ReclassifyTask writes stage and catalog category of a task in one
// transaction. TaskID is the id the structure exposes: the order item id for
// order-backed work, or the manual task id. An approved order item that was
// never synced gets its schedule entry created here.
func (r *Repo) ReclassifyTask(ctx context.Context, params ReclassifyParams) (ReclassifiedTask, error) {
	category := domain.CategoryForStage(params.Stage)
	result := ReclassifiedTask{
		TaskID:            params.TaskID,
		Category:          category,
		CatalogCategoryID: params.CatalogCategoryID,
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ReclassifiedTask{}, fmt.Errorf("begin reclassify: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE scheduled_tasks
		SET category = $4, catalog_category_id = $5, updated_at = now()
		WHERE (order_item_id = $1 OR id = $1) AND job_id = $2 AND studio_id = $3`,
		params.TaskID, params.JobID, params.StudioID, string(category), params.CatalogCategoryID)
	if err != nil {
		return ReclassifiedTask{}, fmt.Errorf("reclassify scheduled task: %w", err)
	}
	result.Source = domain.SourceOrderItem

	if tag.RowsAffected() == 0 {
		tag, err = tx.Exec(ctx, `
			UPDATE manual_tasks
			SET category = $4, catalog_category_id = $5, section_id = $6,
				custom_category_id = NULL, updated_at = now()
			WHERE id = $1 AND job_id = $2 AND studio_id = $3`,
			params.TaskID, params.JobID, params.StudioID, string(category), params.CatalogCategoryID, params.SectionID)
		if err != nil {
			return ReclassifiedTask{}, fmt.Errorf("reclassify manual task: %w", err)
		}
		result.Source = domain.SourceManual
	}

	if tag.RowsAffected() == 0 {
		tag, err = tx.Exec(ctx, `
			INSERT INTO scheduled_tasks (
				studio_id, job_id, order_item_id, category, catalog_category_id, duration_days,
				source_name, source_catalog_category_id
			)
			SELECT oi.studio_id, oi.job_id, oi.id, $4, $5, $6, oi.name,
				COALESCE(oi.catalog_category_id, ci.category_id)
			FROM order_items oi
			LEFT JOIN catalog_items ci ON ci.id = oi.catalog_item_id
			WHERE oi.id = $1 AND oi.job_id = $2 AND oi.studio_id = $3 AND oi.approval_status = ANY($7)
			ON CONFLICT (order_item_id) DO NOTHING`,
			params.TaskID, params.JobID, params.StudioID, string(category), params.CatalogCategoryID,
			domain.DefaultDurationDays, ApprovedOrderStatuses)
		if err != nil {
			return ReclassifiedTask{}, fmt.Errorf("schedule order item: %w", err)
		}
		result.Source = domain.SourceOrderItem
	}

	if tag.RowsAffected() == 0 {
		return ReclassifiedTask{}, apperr.NotFound(taskNotFoundMessage)
	}

	if err := tx.Commit(ctx); err != nil {
		return ReclassifiedTask{}, fmt.Errorf("commit reclassify: %w", err)
	}
	return result, nil
}

// CreateManualTask inserts a manual task for a job of the studio.
func (r *Repo) CreateManualTask(ctx context.Context, params ManualTaskParams) (domain.ManualTask, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO manual_tasks (
			studio_id, job_id, name, duration_days, category, section_id, catalog_category_id,
			custom_category_id, status, progress_percent, start_date, end_date, assigned_to
		)
		SELECT j.studio_id, j.id, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		FROM jobs j
		WHERE j.id = $2 AND j.studio_id = $1
		RETURNING %s`, manualTaskColumns),
		manualTaskArgs(params)...)

	var jobID uuid.UUID
	m, err := scanManualTask(row, &jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ManualTask{}, apperr.NotFound(jobNotFoundMessage)
		}
		return domain.ManualTask{}, fmt.Errorf("create manual task: %w", err)
	}
	return m, nil
}

// UpdateManualTask replaces the editable state of a manual task.
func (r *Repo) UpdateManualTask(ctx context.Context, id uuid.UUID, params ManualTaskParams) (domain.ManualTask, error) {
	args := append(manualTaskArgs(params), id)
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE manual_tasks
		SET name = $3, duration_days = $4, category = $5, section_id = $6, catalog_category_id = $7,
			custom_category_id = $8, status = $9, progress_percent = $10, start_date = $11,
			end_date = $12, assigned_to = $13, updated_at = now()
		WHERE id = $14 AND job_id = $2 AND studio_id = $1
		RETURNING %s`, manualTaskColumns),
		args...)

	var jobID uuid.UUID
	m, err := scanManualTask(row, &jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ManualTask{}, apperr.NotFound(manualTaskNotFoundMessage)
		}
		return domain.ManualTask{}, fmt.Errorf("update manual task: %w", err)
	}
	return m, nil
}

// DeleteManualTask deletes a manual task.
func (r *Repo) DeleteManualTask(ctx context.Context, studioID, jobID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM manual_tasks WHERE id = $1 AND job_id = $2 AND studio_id = $3`,
		id, jobID, studioID)
	if err != nil {
		return fmt.Errorf("delete manual task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(manualTaskNotFoundMessage)
	}
	return nil
}

func manualTaskArgs(p ManualTaskParams) []any {
	return []any{
		p.StudioID, p.JobID, p.Name, p.DurationDays, string(p.Category), p.SectionID, p.CatalogCategoryID,
		p.CustomCategoryID, p.Status, p.ProgressPercent, p.StartDate.Ptr(), p.EndDate.Ptr(), p.AssignedTo,
	}
}
