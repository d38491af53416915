package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamtrack/workforce-api/internal/authz"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAdminOnly               = errors.New("admin privileges required")
	ErrTaskNotFound            = errors.New("task not found")
	ErrTitleRequired           = errors.New("title is required")
	ErrNoAssignees             = errors.New("at least one assignee is required")
	ErrUnknownAssignee         = errors.New("one or more assignees do not exist or are inactive")
	ErrNotTaskAssignee         = errors.New("user is not assigned to this task")
	ErrTaskNotAwaitingApproval = errors.New("task is not awaiting completion approval")
	ErrTaskFinalized           = errors.New("task is already completed or cancelled")
	ErrInvalidTaskStatus       = errors.New("invalid task status")
	ErrInvalidTaskPriority     = errors.New("invalid task priority")
	ErrInvalidProgressStatus   = errors.New("invalid progress status")
	ErrInvalidDueDate          = errors.New("invalid due date")
)

// TaskService owns the task completion workflow: per-assignee progress rows,
// the all-assignees-ready gate and the admin approval/rejection protocol.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.TaskPriority
	Tags        []string
	AssigneeIDs []uint64
	CreatorID   uint64
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *uint64
	CreatorID  *uint64
	Page       int
	PageSize   int
}

// RequestCompletionResult reports the outcome of a completion request. The
// message distinguishes "your request submitted" from "now pending admin
// approval"; callers depend on that distinction.
type RequestCompletionResult struct {
	Task             *models.Task
	AwaitingApproval bool
	Message          string
}

// CreateTask creates a task in the pending state with one not-started
// progress row per assignee.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if len(input.AssigneeIDs) == 0 {
		return nil, ErrNoAssignees
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	assigneeIDs := uniqueUint64(input.AssigneeIDs)

	count, err := s.userRepo.CountByIDs(assigneeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify assignees: %w", err)
	}
	if int(count) != len(assigneeIDs) {
		return nil, ErrUnknownAssignee
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Priority:    input.Priority,
		Tags:        input.Tags,
		DueDate:     input.DueDate,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskRepo.AddProgress(task.ID, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create assignee progress: %w", err)
	}

	return s.reload(task.ID)
}

// GetTask returns a task with related data. Non-admin callers must be an
// assignee or the creator; anything else reads as not found so task existence
// is not leaked.
func (s *TaskService) GetTask(taskID uint64, caller authz.Caller) (*models.Task, error) {
	task, err := s.reload(taskID)
	if err != nil {
		return nil, err
	}

	if caller.IsAdmin() || task.CreatorID == caller.ID {
		return task, nil
	}
	for _, row := range task.Progress {
		if row.UserID == caller.ID {
			return task, nil
		}
	}
	return nil, ErrTaskNotFound
}

// ListTasks returns tasks matching the filters. Non-admin callers are forced
// to tasks they are assigned to, regardless of any assignee filter supplied.
func (s *TaskService) ListTasks(input ListTasksInput, caller authz.Caller) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		CreatorID:  input.CreatorID,
		AssigneeID: input.AssigneeID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	if !caller.IsAdmin() {
		filter.AssigneeID = &caller.ID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// UpdateTask applies a patch to a task. Admins may write any field; regular
// users may only write the status and notes of their own progress row, and
// every other key in the patch is silently ignored.
func (s *TaskService) UpdateTask(taskID uint64, patch map[string]interface{}, caller authz.Caller) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Progress")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	mask := authz.AllowedFields(caller.Role, authz.ActionUpdateTask)

	if caller.IsAdmin() {
		if err := s.applyAdminPatch(task, patch); err != nil {
			return nil, err
		}
		return s.reload(task.ID)
	}

	row := findProgress(task.Progress, caller.ID)
	if row == nil {
		return nil, ErrNotTaskAssignee
	}

	if err := s.applyProgressPatch(task, row, patch, mask); err != nil {
		return nil, err
	}

	return s.reload(task.ID)
}

// RequestCompletion marks the caller's progress row as completion-requested
// and promotes the whole task once every assignee has done the same.
func (s *TaskService) RequestCompletion(taskID, callerID uint64, notes string) (*RequestCompletionResult, error) {
	task, err := s.taskRepo.FindByID(taskID, "Progress")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Status == models.TaskStatusCompleted || task.Status == models.TaskStatusCancelled {
		return nil, ErrTaskFinalized
	}

	row := findProgress(task.Progress, callerID)
	if row == nil {
		return nil, ErrNotTaskAssignee
	}

	now := time.Now()
	row.Status = models.ProgressStatusCompletionRequested
	row.CompletionRequestedAt = &now
	if notes != "" {
		row.Notes = notes
	}

	if err := s.taskRepo.UpdateProgress(row); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	result := &RequestCompletionResult{}

	if allAssigneesReady(task.Progress) {
		task.Status = models.TaskStatusCompletionRequested
		task.CompletionRequestedByID = &callerID
		task.CompletionRequestedAt = &now
		result.AwaitingApproval = true
		result.Message = "All assignees ready: task is now pending admin approval"
	} else {
		if task.Status == models.TaskStatusPending {
			task.Status = models.TaskStatusInProgress
		}
		result.Message = "Completion request submitted"
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	result.Task, err = s.reload(task.ID)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ApproveCompletion completes a task that is awaiting approval. Every
// progress row is forced to completed regardless of its prior value.
func (s *TaskService) ApproveCompletion(taskID uint64, caller authz.Caller) (*models.Task, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Status != models.TaskStatusCompletionRequested {
		return nil, ErrTaskNotAwaitingApproval
	}

	now := time.Now()
	task.Status = models.TaskStatusCompleted
	task.CompletedDate = &now
	task.ApprovedByID = &caller.ID

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.taskRepo.UpdateAllProgressStatus(task.ID, models.ProgressStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete assignee progress: %w", err)
	}

	return s.reload(task.ID)
}

// RejectCompletion returns a task awaiting approval to in-progress. Only
// progress rows still in completion-requested are reset; others are left
// untouched.
func (s *TaskService) RejectCompletion(taskID uint64, caller authz.Caller, rejectionReason string) (*models.Task, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Status != models.TaskStatusCompletionRequested {
		return nil, ErrTaskNotAwaitingApproval
	}

	task.Status = models.TaskStatusInProgress
	task.CompletionRequestedByID = nil
	task.CompletionRequestedAt = nil
	task.RejectionReason = rejectionReason

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.taskRepo.ResetRequestedProgress(task.ID); err != nil {
		return nil, fmt.Errorf("failed to reset assignee progress: %w", err)
	}

	return s.reload(task.ID)
}

// DeleteTask deletes a task. Admin only.
func (s *TaskService) DeleteTask(taskID uint64, caller authz.Caller) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// applyAdminPatch applies every recognized field from the patch to the task.
func (s *TaskService) applyAdminPatch(task *models.Task, patch map[string]interface{}) error {
	if title, ok := patch["title"].(string); ok {
		if strings.TrimSpace(title) == "" {
			return ErrTitleRequired
		}
		task.Title = title
	}
	if description, ok := patch["description"].(string); ok {
		task.Description = description
	}
	if status, ok := patch["status"].(string); ok {
		next := models.TaskStatus(status)
		if !next.Valid() {
			return ErrInvalidTaskStatus
		}
		task.Status = next
	}
	if priority, ok := patch["priority"].(string); ok {
		next := models.TaskPriority(priority)
		if !next.Valid() {
			return ErrInvalidTaskPriority
		}
		task.Priority = next
	}
	if rawTags, ok := patch["tags"].([]interface{}); ok {
		tags := make([]string, 0, len(rawTags))
		for _, t := range rawTags {
			if tag, ok := t.(string); ok {
				tags = append(tags, tag)
			}
		}
		task.Tags = tags
	}
	if _, ok := patch["due_date"]; ok {
		if patch["due_date"] == nil {
			task.DueDate = nil
		} else if raw, ok := patch["due_date"].(string); ok {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return ErrInvalidDueDate
			}
			task.DueDate = &parsed
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if rawAssignees, ok := patch["assignees"].([]interface{}); ok {
		assigneeIDs := make([]uint64, 0, len(rawAssignees))
		for _, a := range rawAssignees {
			if id, ok := a.(float64); ok && id > 0 {
				assigneeIDs = append(assigneeIDs, uint64(id))
			}
		}
		assigneeIDs = uniqueUint64(assigneeIDs)
		if len(assigneeIDs) == 0 {
			return ErrNoAssignees
		}

		count, err := s.userRepo.CountByIDs(assigneeIDs)
		if err != nil {
			return fmt.Errorf("failed to verify assignees: %w", err)
		}
		if int(count) != len(assigneeIDs) {
			return ErrUnknownAssignee
		}

		if err := s.taskRepo.SyncProgress(task.ID, assigneeIDs); err != nil {
			return fmt.Errorf("failed to sync assignee progress: %w", err)
		}
	}

	return nil
}

// applyProgressPatch applies the masked fields of the patch to one assignee's
// progress row. Keys outside the mask are dropped without error.
func (s *TaskService) applyProgressPatch(task *models.Task, row *models.AssigneeProgress, patch map[string]interface{}, mask authz.FieldMask) error {
	changed := false
	now := time.Now()

	if status, ok := patch["status"].(string); ok && mask.Allows("status") {
		next := models.ProgressStatus(status)
		if !next.Valid() {
			return ErrInvalidProgressStatus
		}
		if next == models.ProgressStatusCompletionRequested {
			row.CompletionRequestedAt = &now
		} else {
			row.CompletionRequestedAt = nil
		}
		row.Status = next
		changed = true
	}
	if notes, ok := patch["notes"].(string); ok && mask.Allows("notes") {
		row.Notes = notes
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.taskRepo.UpdateProgress(row); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	// An assignee touching their progress moves a pending task into
	// in-progress; the completion gate is re-evaluated in case this was the
	// last outstanding request.
	if allAssigneesReady(task.Progress) {
		task.Status = models.TaskStatusCompletionRequested
		task.CompletionRequestedByID = &row.UserID
		task.CompletionRequestedAt = &now
	} else if task.Status == models.TaskStatusPending {
		task.Status = models.TaskStatusInProgress
	} else {
		return nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// allAssigneesReady is the completion gate: true only when every progress row
// has individually requested completion.
func allAssigneesReady(rows []models.AssigneeProgress) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if row.Status != models.ProgressStatusCompletionRequested {
			return false
		}
	}
	return true
}

// findProgress returns the progress row belonging to userID, or nil.
func findProgress(rows []models.AssigneeProgress, userID uint64) *models.AssigneeProgress {
	for i := range rows {
		if rows[i].UserID == userID {
			return &rows[i]
		}
	}
	return nil
}

func (s *TaskService) reload(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "Progress", "Progress.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
