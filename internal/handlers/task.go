package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/workforce-api/internal/dto"
	apierrors "github.com/teamtrack/workforce-api/internal/errors"
	"github.com/teamtrack/workforce-api/internal/middleware"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/services"
	"github.com/teamtrack/workforce-api/internal/utils"
)

// TaskHandler coordinates task workflow HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the caller. Regular users only ever see
// tasks they are assigned to.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		if !s.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		if !p.Valid() {
			apierrors.BadRequest(c, "Invalid priority filter")
			return
		}
		input.Priority = &p
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		id, err := strconv.ParseUint(assignee, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		input.AssigneeID = &id
	}
	if creator := c.Query("creator_id"); creator != "" {
		id, err := strconv.ParseUint(creator, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid creator_id")
			return
		}
		input.CreatorID = &id
	}

	tasks, total, err := h.taskService.ListTasks(input, caller)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToTaskListResponse(tasks, params.Page, params.Limit, total)))
}

// CreateTask creates a new task with one progress entry per assignee.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority"`
		Tags        []string   `json:"tags"`
		Assignees   []uint64   `json:"assignees" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    models.TaskPriority(req.Priority),
		Tags:        req.Tags,
		AssigneeIDs: req.Assignees,
		CreatorID:   caller.ID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.OK(dto.ToTaskDTO(*task)))
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, caller)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToTaskDTO(*task)))
}

// UpdateTask applies a partial update. Fields outside the caller's field mask
// are silently ignored.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, patch, caller)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToTaskDTO(*task)))
}

// RequestCompletion records the caller's completion request and reports
// whether the task is now pending admin approval.
func (h *TaskHandler) RequestCompletion(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type RequestCompletionRequest struct {
		Notes string `json:"notes"`
	}

	var req RequestCompletionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.taskService.RequestCompletion(taskID, caller.ID, req.Notes)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage(result.Message, gin.H{
		"task":              dto.ToTaskDTO(*result.Task),
		"awaiting_approval": result.AwaitingApproval,
	}))
}

// ApproveCompletion completes a task awaiting approval. Admin only.
func (h *TaskHandler) ApproveCompletion(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.ApproveCompletion(taskID, caller)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Task completion approved", dto.ToTaskDTO(*task)))
}

// RejectCompletion returns a task awaiting approval to in-progress. Admin only.
func (h *TaskHandler) RejectCompletion(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type RejectCompletionRequest struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req RejectCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Rejection reason is required")
		return
	}

	task, err := h.taskService.RejectCompletion(taskID, caller, req.Reason)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Task completion rejected", dto.ToTaskDTO(*task)))
}

// DeleteTask deletes a task. Admin only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, caller); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Task deleted successfully", nil))
}

// parseIDParam parses the :id route parameter, responding 400 on failure.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskAssignee),
		errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotAwaitingApproval),
		errors.Is(err, services.ErrTaskFinalized):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrNoAssignees),
		errors.Is(err, services.ErrUnknownAssignee),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidProgressStatus),
		errors.Is(err, services.ErrInvalidDueDate):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
