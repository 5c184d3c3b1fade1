package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/calendar"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/mutation"
	"github.com/Bilal-Albezreh/sydekick-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskListNotFound     = errors.New("task list not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskTitleRequired    = errors.New("task title is required")
	ErrListNameRequired     = errors.New("list name is required")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrIncompleteReorder    = errors.New("reorder must include every task of the list exactly once")
	ErrTaskCourseNotFound   = errors.New("linked course not found")
)

// TaskService handles task list and personal task business logic. Task
// mutations are serialized per task id and versioned, matching the
// assessment discipline.
type TaskService struct {
	taskRepo   repository.TaskRepository
	courseRepo repository.CourseRepository
	serializer *mutation.KeyedSerializer
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	courseRepo repository.CourseRepository,
	serializer *mutation.KeyedSerializer,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		courseRepo: courseRepo,
		serializer: serializer,
	}
}

// ListLists returns an owner's task lists with their tasks in manual order.
func (s *TaskService) ListLists(userID uint64) ([]models.TaskList, error) {
	return s.taskRepo.ListLists(userID)
}

// CreateList creates a task list at the end of the owner's lists.
func (s *TaskService) CreateList(userID uint64, name string) (*models.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrListNameRequired
	}

	lists, err := s.taskRepo.ListLists(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	list := &models.TaskList{
		UserID:   userID,
		Name:     name,
		Position: len(lists),
	}
	if err := s.taskRepo.CreateList(list); err != nil {
		return nil, fmt.Errorf("failed to create task list: %w", err)
	}
	return list, nil
}

// RenameList renames a task list.
func (s *TaskService) RenameList(userID, listID uint64, name string) (*models.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrListNameRequired
	}

	list, err := s.taskRepo.FindListByID(userID, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskListNotFound
		}
		return nil, fmt.Errorf("failed to find task list: %w", err)
	}

	list.Name = name
	if err := s.taskRepo.UpdateList(list); err != nil {
		return nil, fmt.Errorf("failed to rename task list: %w", err)
	}
	return list, nil
}

// DeleteList removes a list together with its tasks.
func (s *TaskService) DeleteList(userID, listID uint64) error {
	if _, err := s.taskRepo.FindListByID(userID, listID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskListNotFound
		}
		return fmt.Errorf("failed to find task list: %w", err)
	}
	return s.taskRepo.DeleteList(userID, listID)
}

// CreateTaskInput holds the fields for a new personal task.
type CreateTaskInput struct {
	ListID   uint64
	Title    string
	Notes    string
	DueDate  *time.Time
	Priority models.TaskPriority
	CourseID *uint64
}

// CreateTask validates and creates a task at the end of its list.
func (s *TaskService) CreateTask(userID uint64, input CreateTaskInput) (*models.PersonalTask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidPriority
	}

	list, err := s.taskRepo.FindListByID(userID, input.ListID, "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskListNotFound
		}
		return nil, fmt.Errorf("failed to find task list: %w", err)
	}

	if input.CourseID != nil {
		if _, err := s.courseRepo.FindByID(userID, *input.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskCourseNotFound
			}
			return nil, fmt.Errorf("failed to find course: %w", err)
		}
	}

	task := &models.PersonalTask{
		ListID:   list.ID,
		UserID:   userID,
		Title:    title,
		Notes:    input.Notes,
		DueDate:  input.DueDate,
		Priority: priority,
		CourseID: input.CourseID,
		Position: len(list.Tasks),
	}
	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput holds the editable fields. Nil means keep; the Clear
// flags distinguish "unset" from "keep".
type UpdateTaskInput struct {
	Title        *string
	Notes        *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *models.TaskPriority
	CourseID     *uint64
	ClearCourse  bool
	Completed    *bool
}

// UpdateTask applies an inline edit under the task's serialization key and
// lock version.
func (s *TaskService) UpdateTask(userID, taskID uint64, input UpdateTaskInput) (*models.PersonalTask, error) {
	if input.Priority != nil && !models.ValidTaskPriority(*input.Priority) {
		return nil, ErrInvalidPriority
	}

	var updated *models.PersonalTask
	err := s.serializer.Do(mutation.ItemKey("task", taskID), func() error {
		task, err := s.taskRepo.FindTaskByID(userID, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrTaskTitleRequired
			}
			task.Title = title
		}
		if input.Notes != nil {
			task.Notes = *input.Notes
		}
		if input.ClearDueDate {
			task.DueDate = nil
		} else if input.DueDate != nil {
			task.DueDate = input.DueDate
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.ClearCourse {
			task.CourseID = nil
		} else if input.CourseID != nil {
			if _, err := s.courseRepo.FindByID(userID, *input.CourseID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTaskCourseNotFound
				}
				return fmt.Errorf("failed to find course: %w", err)
			}
			task.CourseID = input.CourseID
		}
		if input.Completed != nil {
			task.Completed = *input.Completed
		}

		if err := s.taskRepo.UpdateTaskVersioned(task, task.LockVersion); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrStaleWrite
			}
			return fmt.Errorf("failed to update task: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleCompleted flips the completion flag under the task's serialization
// key.
func (s *TaskService) ToggleCompleted(userID, taskID uint64) (*models.PersonalTask, error) {
	var updated *models.PersonalTask
	err := s.serializer.Do(mutation.ItemKey("task", taskID), func() error {
		task, err := s.taskRepo.FindTaskByID(userID, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		task.Completed = !task.Completed

		if err := s.taskRepo.UpdateTaskVersioned(task, task.LockVersion); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrStaleWrite
			}
			return fmt.Errorf("failed to toggle task: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Reschedule moves a task to another calendar day; dropping it on its
// current day performs no write.
func (s *TaskService) Reschedule(userID, taskID uint64, dateKey string) (*models.PersonalTask, error) {
	day, ok := calendar.ParseDateKey(dateKey)
	if !ok {
		return nil, ErrInvalidDateKey
	}

	var updated *models.PersonalTask
	err := s.serializer.Do(mutation.ItemKey("task", taskID), func() error {
		task, err := s.taskRepo.FindTaskByID(userID, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if task.DueDate != nil && calendar.DateKey(*task.DueDate) == dateKey {
			updated = task
			return nil
		}

		due := retime(day, task.DueDate)
		task.DueDate = &due

		if err := s.taskRepo.UpdateTaskVersioned(task, task.LockVersion); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrStaleWrite
			}
			return fmt.Errorf("failed to reschedule task: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	if _, err := s.taskRepo.FindTaskByID(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	return s.taskRepo.DeleteTask(userID, taskID)
}

// Reorder rewrites the manual order of a list from an explicit id
// sequence. The sequence must cover the list's tasks exactly.
func (s *TaskService) Reorder(userID, listID uint64, orderedIDs []uint64) error {
	list, err := s.taskRepo.FindListByID(userID, listID, "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskListNotFound
		}
		return fmt.Errorf("failed to find task list: %w", err)
	}

	if len(orderedIDs) != len(list.Tasks) {
		return ErrIncompleteReorder
	}
	known := make(map[uint64]struct{}, len(list.Tasks))
	for _, t := range list.Tasks {
		known[t.ID] = struct{}{}
	}
	seen := make(map[uint64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := known[id]; !ok {
			return ErrIncompleteReorder
		}
		if _, dup := seen[id]; dup {
			return ErrIncompleteReorder
		}
		seen[id] = struct{}{}
	}

	if err := s.taskRepo.ReorderTasks(userID, listID, orderedIDs); err != nil {
		return fmt.Errorf("failed to reorder tasks: %w", err)
	}
	return nil
}
