package repository

import (
	"github.com/teamtrack/workforce-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.CreatorID != nil {
		query = query.Where("tasks.creator_id = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		progressSubQuery := r.db.Model(&models.AssigneeProgress{}).
			Select("1").
			Where("assignee_progresses.task_id = tasks.id").
			Where("assignee_progresses.user_id = ?", *filter.AssigneeID).
			Where("assignee_progresses.deleted_at IS NULL")
		query = query.Where("EXISTS (?)", progressSubQuery)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Creator").Preload("Progress").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task. Associations are omitted so a preloaded Progress
// slice is never written back as a side effect.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete soft deletes a task together with its progress rows
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.AssigneeProgress{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AddProgress creates progress rows for the given assignees. Re-adding a
// previously removed assignee restores the soft-deleted row.
func (r *GormTaskRepository) AddProgress(taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	progress := make([]models.AssigneeProgress, len(userIDs))
	for i, userID := range userIDs {
		progress[i] = models.AssigneeProgress{
			TaskID: taskID,
			UserID: userID,
			Status: models.ProgressStatusNotStarted,
		}
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&progress).Error
}

// SyncProgress makes the set of progress rows match exactly the given assignees
func (r *GormTaskRepository) SyncProgress(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ? AND user_id NOT IN ?", taskID, userIDs).
			Delete(&models.AssigneeProgress{}).Error; err != nil {
			return err
		}

		progress := make([]models.AssigneeProgress, len(userIDs))
		for i, userID := range userIDs {
			progress[i] = models.AssigneeProgress{
				TaskID: taskID,
				UserID: userID,
				Status: models.ProgressStatusNotStarted,
			}
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
			}).
			Create(&progress).Error
	})
}

// FindProgress finds one assignee's progress row
func (r *GormTaskRepository) FindProgress(taskID, userID uint64) (*models.AssigneeProgress, error) {
	var progress models.AssigneeProgress
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpdateProgress updates a single progress row
func (r *GormTaskRepository) UpdateProgress(progress *models.AssigneeProgress) error {
	return r.db.Omit(clause.Associations).Save(progress).Error
}

// UpdateAllProgressStatus sets every progress row of a task to the status
func (r *GormTaskRepository) UpdateAllProgressStatus(taskID uint64, status models.ProgressStatus) error {
	return r.db.Model(&models.AssigneeProgress{}).
		Where("task_id = ?", taskID).
		Update("status", status).Error
}

// ResetRequestedProgress moves completion-requested rows back to in-progress
// and clears their request timestamps
func (r *GormTaskRepository) ResetRequestedProgress(taskID uint64) error {
	return r.db.Model(&models.AssigneeProgress{}).
		Where("task_id = ? AND status = ?", taskID, models.ProgressStatusCompletionRequested).
		Updates(map[string]interface{}{
			"status":                  models.ProgressStatusInProgress,
			"completion_requested_at": nil,
		}).Error
}
