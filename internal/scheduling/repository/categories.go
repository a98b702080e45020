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

func (r *Repo) listStageKeys(ctx context.Context, jobID uuid.UUID) ([]domain.StageKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT section_id, stage FROM job_stage_keys WHERE job_id = $1 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list stage keys: %w", err)
	}
	defer rows.Close()

	keys := make([]domain.StageKey, 0)
	for rows.Next() {
		var key domain.StageKey
		var stage string
		if err := rows.Scan(&key.SectionID, &stage); err != nil {
			return nil, fmt.Errorf("scan stage key: %w", err)
		}
		key.Stage = domain.Stage(stage)
		keys = append(keys, key)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stage keys: %w", rows.Err())
	}
	return keys, nil
}

// AddStageKey records a (section, stage) the job always shows, even empty.
// Adding an existing key is a no-op.
func (r *Repo) AddStageKey(ctx context.Context, studioID, jobID uuid.UUID, key domain.StageKey) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO job_stage_keys (job_id, section_id, stage)
		SELECT j.id, $3, $4 FROM jobs j WHERE j.id = $1 AND j.studio_id = $2
		ON CONFLICT (job_id, section_id, stage) DO UPDATE SET stage = EXCLUDED.stage`,
		jobID, studioID, key.SectionID, string(key.Stage))
	if err != nil {
		return fmt.Errorf("add stage key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMessage)
	}
	return nil
}

// ListCustomCategories returns the custom categories of a studio in creation
// order.
func (r *Repo) ListCustomCategories(ctx context.Context, studioID uuid.UUID) ([]domain.CustomCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, section_id, stage, name
		FROM custom_categories
		WHERE studio_id = $1
		ORDER BY created_at, id`, studioID)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.CustomCategory, 0)
	for rows.Next() {
		c, err := scanCustomCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom category: %w", err)
		}
		categories = append(categories, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate custom categories: %w", rows.Err())
	}
	return categories, nil
}

// CreateCustomCategory creates a custom category for a (section, stage).
func (r *Repo) CreateCustomCategory(ctx context.Context, params CreateCustomCategoryParams) (domain.CustomCategory, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO custom_categories (studio_id, section_id, stage, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, section_id, stage, name`,
		params.StudioID, params.SectionID, string(params.Stage), params.Name)

	c, err := scanCustomCategory(row)
	if err != nil {
		return domain.CustomCategory{}, fmt.Errorf("create custom category: %w", err)
	}
	return c, nil
}

// RenameCustomCategory renames a custom category. Placement never changes.
func (r *Repo) RenameCustomCategory(ctx context.Context, studioID, id uuid.UUID, name string) (domain.CustomCategory, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE custom_categories
		SET name = $3, updated_at = now()
		WHERE id = $1 AND studio_id = $2
		RETURNING id, section_id, stage, name`,
		id, studioID, name)

	c, err := scanCustomCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CustomCategory{}, apperr.NotFound(customCategoryNotFoundMessage)
		}
		return domain.CustomCategory{}, fmt.Errorf("rename custom category: %w", err)
	}
	return c, nil
}

func scanCustomCategory(row pgx.Row) (domain.CustomCategory, error) {
	var c domain.CustomCategory
	var stage string
	if err := row.Scan(&c.ID, &c.SectionID, &stage, &c.Name); err != nil {
		return domain.CustomCategory{}, err
	}
	c.Stage = domain.Stage(stage)
	return c, nil
}
