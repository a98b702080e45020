package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/service"
	"studio_backend/internal/scheduling/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"
)

// Handler handles HTTP requests for scheduling structures.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidJobID     = "invalid job id"
	msgInvalidTaskID    = "invalid task id"
	msgInvalidID        = "invalid id"
	msgInvalidToday     = "today must be a YYYY-MM-DD date"
	msgInvalidPhantoms  = "phantoms accepts tasks and categories"
)

// New creates a new scheduling handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetStructure returns the flat scheduler rows of a job.
// GET /api/v1/scheduling/jobs/:jobId/structure
func (h *Handler) GetStructure(c *gin.Context) {
	structure, ok := h.loadStructure(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.StructureResponse{
		JobID:         structure.JobID,
		Name:          structure.Name,
		EventDate:     structure.EventDate,
		CatalogLoaded: structure.CatalogLoaded,
		Today:         structure.Today,
		Token:         structure.Token,
		Rows:          transport.ToRowResponses(structure.Rows, structure.Today),
		Stats:         transport.ToStatsResponse(structure.Stats),
		Unclassified:  transport.ToTaskResponses(structure.Unclassified, structure.Today),
	})
}

// GetBlocks returns the rows nested into section, stage and category blocks.
// GET /api/v1/scheduling/jobs/:jobId/blocks
func (h *Handler) GetBlocks(c *gin.Context) {
	structure, ok := h.loadStructure(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.BlocksResponse{
		JobID:         structure.JobID,
		CatalogLoaded: structure.CatalogLoaded,
		Token:         structure.Token,
		Sections:      transport.ToBlockResponses(structure.Blocks(), structure.Today),
	})
}

// GetStats returns the progress counters of a job.
// GET /api/v1/scheduling/jobs/:jobId/stats
func (h *Handler) GetStats(c *gin.Context) {
	structure, ok := h.loadStructure(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.JobStatsResponse{
		JobID: structure.JobID,
		Token: structure.Token,
		Today: structure.Today,
		Stats: transport.ToStatsResponse(structure.Stats),
	})
}

// GetUnclassified returns the tasks that still need classification.
// GET /api/v1/scheduling/jobs/:jobId/unclassified
func (h *Handler) GetUnclassified(c *gin.Context) {
	structure, ok := h.loadStructure(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.UnclassifiedResponse{
		JobID: structure.JobID,
		Token: structure.Token,
		Count: len(structure.Unclassified),
		Tasks: transport.ToTaskResponses(structure.Unclassified, structure.Today),
	})
}

func (h *Handler) loadStructure(c *gin.Context) (*service.Structure, bool) {
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return nil, false
	}
	opts, ok := structureOptions(c)
	if !ok {
		return nil, false
	}
	structure, err := h.svc.GetStructure(c.Request.Context(), tenantID, jobID, opts)
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return structure, true
}

func structureOptions(c *gin.Context) (service.StructureOptions, bool) {
	var opts service.StructureOptions
	if raw := strings.TrimSpace(c.Query("phantoms")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(part)) {
			case "tasks":
				opts.Rows.AddTaskPhantoms = true
			case "categories":
				opts.Rows.AddCategoryPhantoms = true
			case "":
			default:
				httpkit.HandleError(c, apperr.BadRequest(msgInvalidPhantoms))
				return opts, false
			}
		}
	}
	if raw := strings.TrimSpace(c.Query("today")); raw != "" {
		today, err := domain.ParseDate(raw)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest(msgInvalidToday))
			return opts, false
		}
		opts.Today = &today
	}
	return opts, true
}

// SyncFromOrder creates schedule entries for the job's approved order items.
// With ?async=true the sync is queued for the background worker.
// POST /api/v1/scheduling/jobs/:jobId/sync
func (h *Handler) SyncFromOrder(c *gin.Context) {
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}

	if async, _ := strconv.ParseBool(c.Query("async")); async {
		if err := h.svc.EnqueueSync(c.Request.Context(), tenantID, jobID); httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.SyncQueuedResponse{JobID: jobID, Status: "queued"})
		return
	}

	outcome, err := h.svc.SyncFromOrder(c.Request.Context(), tenantID, jobID, service.TriggerManual)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SyncResponse{
		Created: outcome.Result.Created,
		Updated: outcome.Result.Updated,
		Skipped: outcome.Result.Skipped,
		Token:   outcome.Token,
	})
}

// ListSyncRuns returns the recent sync history of a job.
// GET /api/v1/scheduling/jobs/:jobId/sync-runs
func (h *Handler) ListSyncRuns(c *gin.Context) {
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	runs, err := h.svc.ListSyncRuns(c.Request.Context(), tenantID, jobID, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	items := make([]transport.SyncRunResponse, 0, len(runs))
	for _, run := range runs {
		items = append(items, transport.SyncRunResponse{
			ID:         run.ID,
			Trigger:    run.Trigger,
			Created:    run.Result.Created,
			Updated:    run.Result.Updated,
			Skipped:    run.Result.Skipped,
			FinishedAt: run.FinishedAt,
		})
	}
	httpkit.OK(c, transport.SyncRunListResponse{Items: items})
}

// Reclassify sets stage and catalog category of a task.
// PATCH /api/v1/scheduling/jobs/:jobId/tasks/:taskId/classification
func (h *Handler) Reclassify(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidTaskID))
		return
	}
	var req transport.ReclassifyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}

	result, err := h.svc.Reclassify(c.Request.Context(), tenantID, jobID, service.ReclassifyInput{
		TaskID:            taskID,
		Stage:             domain.Stage(req.Stage),
		CatalogCategoryID: req.CatalogCategoryID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ReclassifyResponse{
		TaskID:            result.Task.TaskID,
		Source:            result.Task.Source,
		Category:          result.Task.Category,
		CatalogCategoryID: result.Task.CatalogCategoryID,
		Token:             result.Token,
	})
}

// CreateManualTask adds a manual task to a job.
// POST /api/v1/scheduling/jobs/:jobId/manual-tasks
func (h *Handler) CreateManualTask(c *gin.Context) {
	var req transport.ManualTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}

	task, token, err := h.svc.CreateManualTask(c.Request.Context(), tenantID, jobID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToManualTaskResponse(task, token))
}

// UpdateManualTask replaces a manual task.
// PUT /api/v1/scheduling/jobs/:jobId/manual-tasks/:id
func (h *Handler) UpdateManualTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidTaskID))
		return
	}
	var req transport.ManualTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}

	task, token, err := h.svc.UpdateManualTask(c.Request.Context(), tenantID, jobID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToManualTaskResponse(task, token))
}

// DeleteManualTask removes a manual task.
// DELETE /api/v1/scheduling/jobs/:jobId/manual-tasks/:id
func (h *Handler) DeleteManualTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidTaskID))
		return
	}
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}

	token, err := h.svc.DeleteManualTask(c.Request.Context(), tenantID, jobID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true, "token": token})
}

// AddStageKey pins a (section, stage) into the job structure.
// POST /api/v1/scheduling/jobs/:jobId/stage-keys
func (h *Handler) AddStageKey(c *gin.Context) {
	var req transport.AddStageKeyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, jobID, ok := jobScope(c)
	if !ok {
		return
	}

	key, token, err := h.svc.AddStageKey(c.Request.Context(), tenantID, jobID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.StageKeyResponse{SectionID: key.SectionID, Stage: key.Stage, Token: token})
}

// ListCustomCategories returns the studio's custom categories.
// GET /api/v1/scheduling/custom-categories
func (h *Handler) ListCustomCategories(c *gin.Context) {
	tenantID, ok := tenantScope(c)
	if !ok {
		return
	}

	categories, err := h.svc.ListCustomCategories(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	items := make([]transport.CustomCategoryResponse, 0, len(categories))
	for _, cc := range categories {
		items = append(items, transport.ToCustomCategoryResponse(cc))
	}
	httpkit.OK(c, transport.CustomCategoryListResponse{Items: items})
}

// CreateCustomCategory adds a custom category to a (section, stage).
// POST /api/v1/scheduling/custom-categories
func (h *Handler) CreateCustomCategory(c *gin.Context) {
	var req transport.CreateCustomCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, ok := tenantScope(c)
	if !ok {
		return
	}

	category, err := h.svc.CreateCustomCategory(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToCustomCategoryResponse(category))
}

// RenameCustomCategory renames a custom category.
// PUT /api/v1/scheduling/custom-categories/:id
func (h *Handler) RenameCustomCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidID))
		return
	}
	var req transport.RenameCustomCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, ok := tenantScope(c)
	if !ok {
		return
	}

	category, err := h.svc.RenameCustomCategory(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCustomCategoryResponse(category))
}

// GetFleetStats returns per-job progress and totals for the studio.
// GET /api/v1/scheduling/fleet
func (h *Handler) GetFleetStats(c *gin.Context) {
	tenantID, ok := tenantScope(c)
	if !ok {
		return
	}

	fleet, err := h.svc.GetFleetStats(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToFleetStatsResponse(fleet))
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(err.Error()))
		return false
	}
	return true
}

func tenantScope(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.HandleError(c, apperr.BadRequest("tenant ID is required"))
		return uuid.UUID{}, false
	}
	return *tenantID, true
}

func jobScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidJobID))
		return uuid.UUID{}, uuid.UUID{}, false
	}
	tenantID, ok := tenantScope(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return tenantID, jobID, true
}
