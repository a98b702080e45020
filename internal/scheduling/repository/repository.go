package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/platform/apperr"
)

const (
	jobNotFoundMessage            = "job not found"
	taskNotFoundMessage           = "task not found"
	manualTaskNotFoundMessage     = "manual task not found"
	customCategoryNotFoundMessage = "custom category not found"
)

// Repo implements the scheduling repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scheduling repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderItemColumns = `
	oi.job_id, oi.id, oi.catalog_item_id, oi.catalog_category_id, oi.name,
	st.id, st.duration_days, st.category, st.catalog_category_id, st.status,
	st.progress_percent, st.start_date, st.end_date, st.assigned_to`

const manualTaskColumns = `
	id, job_id, name, duration_days, category, section_id, catalog_category_id,
	custom_category_id, status, progress_percent, start_date, end_date, assigned_to`

// GetJobDetail loads the approved order items, manual tasks and known stage
// keys of a job.
func (r *Repo) GetJobDetail(ctx context.Context, studioID, jobID uuid.UUID) (JobDetail, error) {
	detail := JobDetail{JobID: jobID}
	var eventDate *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT name, event_date FROM jobs WHERE id = $1 AND studio_id = $2`,
		jobID, studioID,
	).Scan(&detail.Name, &eventDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobDetail{}, apperr.NotFound(jobNotFoundMessage)
		}
		return JobDetail{}, fmt.Errorf("get job: %w", err)
	}
	detail.EventDate = domain.DateFromPtr(eventDate)

	byJob, err := listOrderItems(ctx, r.pool, `oi.job_id = $1 AND oi.studio_id = $2`, jobID, studioID)
	if err != nil {
		return JobDetail{}, err
	}
	detail.OrderItems = byJob[jobID]

	manual, err := listManualTasks(ctx, r.pool, `job_id = $1 AND studio_id = $2`, jobID, studioID)
	if err != nil {
		return JobDetail{}, err
	}
	detail.ManualTasks = manual[jobID]

	keys, err := r.listStageKeys(ctx, jobID)
	if err != nil {
		return JobDetail{}, err
	}
	detail.StageKeys = keys

	return detail, nil
}

// ListFleetSchedules returns one schedule per active job of the studio,
// ordered by event date with undated jobs last.
func (r *Repo) ListFleetSchedules(ctx context.Context, studioID uuid.UUID) ([]domain.JobSchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, event_date
		FROM jobs
		WHERE studio_id = $1 AND archived_at IS NULL
		ORDER BY event_date NULLS LAST, created_at, id`, studioID)
	if err != nil {
		return nil, fmt.Errorf("list fleet jobs: %w", err)
	}
	defer rows.Close()

	schedules := make([]domain.JobSchedule, 0)
	for rows.Next() {
		var js domain.JobSchedule
		var eventDate *time.Time
		if err := rows.Scan(&js.JobID, &js.Name, &eventDate); err != nil {
			return nil, fmt.Errorf("scan fleet job: %w", err)
		}
		js.EventDate = domain.DateFromPtr(eventDate)
		schedules = append(schedules, js)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate fleet jobs: %w", rows.Err())
	}

	items, err := listOrderItems(ctx, r.pool, `oi.studio_id = $1 AND j.archived_at IS NULL`, studioID)
	if err != nil {
		return nil, err
	}
	manual, err := listManualTasks(ctx, r.pool, `studio_id = $1`, studioID)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		schedules[i].OrderItems = items[schedules[i].JobID]
		schedules[i].ManualTasks = manual[schedules[i].JobID]
	}
	return schedules, nil
}

// listOrderItems loads approved order items with their optional schedule
// entry, grouped by job. Extra args are bound from $2 on, after the status set.
func listOrderItems(ctx context.Context, q querier, where string, args ...any) (map[uuid.UUID][]domain.OrderItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM order_items oi
		JOIN jobs j ON j.id = oi.job_id
		LEFT JOIN scheduled_tasks st ON st.order_item_id = oi.id
		WHERE %s AND oi.approval_status = ANY($%d)
		ORDER BY oi.job_id, oi.position, oi.created_at, oi.id`, orderItemColumns, where, len(args)+1)

	rows, err := q.Query(ctx, query, append(args, ApprovedOrderStatuses)...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.OrderItem)
	for rows.Next() {
		var (
			jobID    uuid.UUID
			item     domain.OrderItem
			taskID   *uuid.UUID
			duration *int
			category *string
			taskCat  *uuid.UUID
			status   *string
			progress *float64
			start    *time.Time
			end      *time.Time
			assignee *uuid.UUID
		)
		if err := rows.Scan(
			&jobID, &item.ID, &item.ItemID, &item.CatalogCategoryID, &item.Name,
			&taskID, &duration, &category, &taskCat, &status,
			&progress, &start, &end, &assignee,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if taskID != nil {
			item.Task = &domain.ScheduledTask{
				ID:                *taskID,
				DurationDays:      derefInt(duration),
				Category:          domain.ParseTaskCategory(derefString(category)),
				CatalogCategoryID: taskCat,
				Status:            derefString(status),
				ProgressPercent:   progress,
				StartDate:         domain.DateFromPtr(start),
				EndDate:           domain.DateFromPtr(end),
				AssignedTo:        assignee,
			}
		}
		result[jobID] = append(result[jobID], item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate order items: %w", rows.Err())
	}
	return result, nil
}

// listManualTasks loads manual tasks in creation order, grouped by job.
func listManualTasks(ctx context.Context, q querier, where string, args ...any) (map[uuid.UUID][]domain.ManualTask, error) {
	query := fmt.Sprintf(`
		SELECT %s, (SELECT name FROM custom_categories cc WHERE cc.id = manual_tasks.custom_category_id)
		FROM manual_tasks
		WHERE %s
		ORDER BY job_id, created_at, id`, manualTaskColumns, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manual tasks: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.ManualTask)
	for rows.Next() {
		var jobID uuid.UUID
		var customName *string
		m, err := scanManualTask(rows, &jobID, &customName)
		if err != nil {
			return nil, fmt.Errorf("scan manual task: %w", err)
		}
		m.CustomCategoryName = derefString(customName)
		result[jobID] = append(result[jobID], m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate manual tasks: %w", rows.Err())
	}
	return result, nil
}

func scanManualTask(row pgx.Row, jobID *uuid.UUID, extra ...any) (domain.ManualTask, error) {
	var (
		m        domain.ManualTask
		category string
		start    *time.Time
		end      *time.Time
	)
	dest := []any{
		&m.ID, jobID, &m.Name, &m.DurationDays, &category, &m.SectionID, &m.CatalogCategoryID,
		&m.CustomCategoryID, &m.Status, &m.ProgressPercent, &start, &end, &m.AssignedTo,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.ManualTask{}, err
	}
	m.Category = domain.ParseTaskCategory(category)
	m.StartDate = domain.DateFromPtr(start)
	m.EndDate = domain.DateFromPtr(end)
	return m, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
