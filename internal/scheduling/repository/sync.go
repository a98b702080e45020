package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/platform/apperr"
)

// SyncTasksFromOrder creates or refreshes one schedule entry per approved
// order item of the job. The job row is locked for the duration of the
// transaction so concurrent syncs of the same job serialize; a cancelled
// context rolls the whole run back.
func (r *Repo) SyncTasksFromOrder(ctx context.Context, studioID, jobID uuid.UUID, trigger string) (domain.SyncResult, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("begin sync: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, `
		SELECT id FROM jobs WHERE id = $1 AND studio_id = $2 FOR UPDATE`,
		jobID, studioID,
	).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SyncResult{}, apperr.NotFound(jobNotFoundMessage)
		}
		return domain.SyncResult{}, fmt.Errorf("lock job: %w", err)
	}

	candidates, err := listSyncCandidates(ctx, tx, jobID)
	if err != nil {
		return domain.SyncResult{}, err
	}
	plan := domain.PlanOrderSync(candidates)

	for _, c := range plan.Create {
		if _, err := tx.Exec(ctx, `
			INSERT INTO scheduled_tasks (
				studio_id, job_id, order_item_id, category, duration_days,
				source_name, source_catalog_category_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (order_item_id) DO NOTHING`,
			studioID, jobID, c.OrderItemID, string(domain.CategoryUnassigned), domain.DefaultDurationDays,
			c.Name, c.CatalogCategoryID,
		); err != nil {
			return domain.SyncResult{}, fmt.Errorf("create scheduled task: %w", err)
		}
	}
	for _, c := range plan.Update {
		if _, err := tx.Exec(ctx, `
			UPDATE scheduled_tasks
			SET source_name = $2, source_catalog_category_id = $3, updated_at = now()
			WHERE id = $1`,
			c.Existing.TaskID, c.Name, c.CatalogCategoryID,
		); err != nil {
			return domain.SyncResult{}, fmt.Errorf("refresh scheduled task: %w", err)
		}
	}

	result := plan.Result()
	if _, err := tx.Exec(ctx, `
		INSERT INTO schedule_sync_runs (studio_id, job_id, trigger, created, updated, skipped)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		studioID, jobID, trigger, result.Created, result.Updated, result.Skipped,
	); err != nil {
		return domain.SyncResult{}, fmt.Errorf("record sync run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.SyncResult{}, fmt.Errorf("commit sync: %w", err)
	}
	return result, nil
}

func listSyncCandidates(ctx context.Context, tx pgx.Tx, jobID uuid.UUID) ([]domain.SyncCandidate, error) {
	rows, err := tx.Query(ctx, `
		SELECT oi.id, oi.name, COALESCE(oi.catalog_category_id, ci.category_id),
			st.id, st.source_name, st.source_catalog_category_id
		FROM order_items oi
		LEFT JOIN catalog_items ci ON ci.id = oi.catalog_item_id
		LEFT JOIN scheduled_tasks st ON st.order_item_id = oi.id
		WHERE oi.job_id = $1 AND oi.approval_status = ANY($2)
		ORDER BY oi.position, oi.created_at, oi.id`,
		jobID, ApprovedOrderStatuses)
	if err != nil {
		return nil, fmt.Errorf("list sync candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.SyncCandidate, 0)
	for rows.Next() {
		var (
			c           domain.SyncCandidate
			taskID      *uuid.UUID
			sourceName  *string
			sourceCatID *uuid.UUID
		)
		if err := rows.Scan(&c.OrderItemID, &c.Name, &c.CatalogCategoryID, &taskID, &sourceName, &sourceCatID); err != nil {
			return nil, fmt.Errorf("scan sync candidate: %w", err)
		}
		if taskID != nil {
			c.Existing = &domain.SyncedEntry{
				TaskID:                  *taskID,
				SourceName:              derefString(sourceName),
				SourceCatalogCategoryID: sourceCatID,
			}
		}
		candidates = append(candidates, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sync candidates: %w", rows.Err())
	}
	return candidates, nil
}

// ListJobsNeedingSync returns active jobs with approved order items that
// have no schedule entry yet or whose source changed since the last sync.
func (r *Repo) ListJobsNeedingSync(ctx context.Context, limit int) ([]JobRef, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT j.studio_id, j.id
		FROM jobs j
		JOIN order_items oi ON oi.job_id = j.id
		LEFT JOIN catalog_items ci ON ci.id = oi.catalog_item_id
		LEFT JOIN scheduled_tasks st ON st.order_item_id = oi.id
		WHERE j.archived_at IS NULL
			AND oi.approval_status = ANY($1)
			AND (
				st.id IS NULL
				OR st.source_name <> oi.name
				OR st.source_catalog_category_id IS DISTINCT FROM COALESCE(oi.catalog_category_id, ci.category_id)
			)
		LIMIT $2`, ApprovedOrderStatuses, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs needing sync: %w", err)
	}
	defer rows.Close()

	refs := make([]JobRef, 0)
	for rows.Next() {
		var ref JobRef
		if err := rows.Scan(&ref.StudioID, &ref.JobID); err != nil {
			return nil, fmt.Errorf("scan job ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate job refs: %w", rows.Err())
	}
	return refs, nil
}

// ListSyncRuns returns the most recent sync runs of a job, newest first.
func (r *Repo) ListSyncRuns(ctx context.Context, studioID, jobID uuid.UUID, limit int) ([]SyncRun, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, job_id, trigger, created, updated, skipped, finished_at
		FROM schedule_sync_runs
		WHERE studio_id = $1 AND job_id = $2
		ORDER BY finished_at DESC
		LIMIT $3`, studioID, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	runs := make([]SyncRun, 0)
	for rows.Next() {
		var run SyncRun
		if err := rows.Scan(&run.ID, &run.JobID, &run.Trigger,
			&run.Result.Created, &run.Result.Updated, &run.Result.Skipped, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sync runs: %w", rows.Err())
	}
	return runs, nil
}

// DeleteSyncRunsBefore removes sync history older than cutoff.
func (r *Repo) DeleteSyncRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedule_sync_runs WHERE finished_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete sync runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
