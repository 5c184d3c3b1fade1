package repository

import (
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateList creates a new task list
func (r *GormTaskRepository) CreateList(list *models.TaskList) error {
	return r.db.Create(list).Error
}

// FindListByID finds an owner's task list by ID. The Tasks preload comes
// back in position order
func (r *GormTaskRepository) FindListByID(userID, id uint64, preload ...string) (*models.TaskList, error) {
	var list models.TaskList
	query := r.db.Scopes(database.OwnedBy(userID))

	for _, p := range preload {
		if p == "Tasks" {
			query = query.Preload(p, func(db *gorm.DB) *gorm.DB {
				return db.Order("personal_tasks.position ASC")
			})
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&list, id).Error; err != nil {
		return nil, err
	}

	return &list, nil
}

// ListLists lists an owner's task lists with position-ordered tasks
func (r *GormTaskRepository) ListLists(userID uint64) ([]models.TaskList, error) {
	var lists []models.TaskList
	if err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("personal_tasks.position ASC")
		}).
		Scopes(database.OwnedBy(userID)).
		Order("position ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// UpdateList updates a task list
func (r *GormTaskRepository) UpdateList(list *models.TaskList) error {
	return r.db.Save(list).Error
}

// DeleteList removes a task list together with its tasks
func (r *GormTaskRepository) DeleteList(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND list_id = ?", userID, id).
			Delete(&models.PersonalTask{}).Error; err != nil {
			return err
		}

		return tx.Scopes(database.OwnedBy(userID)).Delete(&models.TaskList{}, id).Error
	})
}

// CreateTask creates a new task
func (r *GormTaskRepository) CreateTask(task *models.PersonalTask) error {
	return r.db.Create(task).Error
}

// FindTaskByID finds an owner's task by ID
func (r *GormTaskRepository) FindTaskByID(userID, id uint64, preload ...string) (*models.PersonalTask, error) {
	var task models.PersonalTask
	query := r.db.Scopes(database.OwnedBy(userID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListDueBetween lists an owner's tasks due within [from, to)
func (r *GormTaskRepository) ListDueBetween(userID uint64, from, to time.Time) ([]models.PersonalTask, error) {
	var tasks []models.PersonalTask
	if err := r.db.Preload("Course").
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, from, to).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskVersioned persists changes only when expectedVersion still
// matches the row; returns ErrStaleWrite otherwise.
func (r *GormTaskRepository) UpdateTaskVersioned(task *models.PersonalTask, expectedVersion uint64) error {
	result := r.db.Model(&models.PersonalTask{}).
		Where("id = ? AND user_id = ? AND lock_version = ?",
			task.ID, task.UserID, expectedVersion).
		Updates(map[string]interface{}{
			"title":        task.Title,
			"notes":        task.Notes,
			"due_date":     task.DueDate,
			"priority":     task.Priority,
			"course_id":    task.CourseID,
			"completed":    task.Completed,
			"position":     task.Position,
			"lock_version": expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}
	task.LockVersion = expectedVersion + 1
	return nil
}

// DeleteTask removes a task
func (r *GormTaskRepository) DeleteTask(userID, id uint64) error {
	return r.db.Scopes(database.OwnedBy(userID)).Delete(&models.PersonalTask{}, id).Error
}

// ReorderTasks rewrites the positions of a list's tasks atomically,
// following the given ID order.
func (r *GormTaskRepository) ReorderTasks(userID, listID uint64, orderedIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for position, taskID := range orderedIDs {
			result := tx.Model(&models.PersonalTask{}).
				Where("id = ? AND user_id = ? AND list_id = ?", taskID, userID, listID).
				Update("position", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
