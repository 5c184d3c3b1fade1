package repository

import (
	"errors"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/utils"
)

// ErrStaleWrite is returned when a versioned update carries an out-of-date
// lock version. The row is left untouched.
var ErrStaleWrite = errors.New("stale write rejected: lock version mismatch")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithDefaultList creates a user and their default task list
	// within a single transaction.
	CreateWithDefaultList(user *models.User, list *models.TaskList) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user's profile fields
	Update(user *models.User) error
}

// TermRepository defines the interface for term data access
type TermRepository interface {
	// Create creates a new term
	Create(term *models.Term) error

	// FindByID finds an owner's term by ID
	FindByID(userID, id uint64) (*models.Term, error)

	// FindByLabel finds an owner's term by label
	FindByLabel(userID uint64, label models.TermLabel) (*models.Term, error)

	// ListByUser lists an owner's terms in label order
	ListByUser(userID uint64) ([]models.Term, error)

	// Update updates a term
	Update(term *models.Term) error

	// Delete removes a term together with its courses and their children
	Delete(userID, id uint64) error

	// SetCurrent marks one term current and unsets every sibling in the
	// same transaction
	SetCurrent(userID, id uint64) error
}

// CourseRepository defines the interface for course data access
type CourseRepository interface {
	// Create creates a new course
	Create(course *models.Course) error

	// FindByID finds an owner's course by ID with optional preloading
	FindByID(userID, id uint64, preload ...string) (*models.Course, error)

	// ListByUser lists an owner's courses, optionally limited to one term
	ListByUser(userID uint64, termID *uint64) ([]models.Course, error)

	// Update updates a course
	Update(course *models.Course) error

	// Delete removes a course together with its assessments and schedule
	// items
	Delete(userID, id uint64) error
}

// AssessmentRepository defines the interface for assessment data access
type AssessmentRepository interface {
	// Create creates a new assessment
	Create(assessment *models.Assessment) error

	// FindByID finds an owner's assessment by ID
	FindByID(userID, id uint64, preload ...string) (*models.Assessment, error)

	// ListByCourse lists an owner's assessments for one course
	ListByCourse(userID, courseID uint64) ([]models.Assessment, error)

	// ListDueBetween lists an owner's assessments due within [from, to)
	ListDueBetween(userID uint64, from, to time.Time) ([]models.Assessment, error)

	// UpdateVersioned persists changes only when expectedVersion still
	// matches the row, bumping the lock version; returns ErrStaleWrite
	// otherwise
	UpdateVersioned(assessment *models.Assessment, expectedVersion uint64) error

	// Delete removes an assessment
	Delete(userID, id uint64) error
}

// ScheduleRepository defines the interface for weekly schedule data access
type ScheduleRepository interface {
	// Create creates a new schedule item
	Create(item *models.ScheduleItem) error

	// FindByID finds an owner's schedule item by ID
	FindByID(userID, id uint64) (*models.ScheduleItem, error)

	// ListByUser lists an owner's schedule items with courses preloaded
	ListByUser(userID uint64) ([]models.ScheduleItem, error)

	// Update updates a schedule item
	Update(item *models.ScheduleItem) error

	// Delete removes a schedule item
	Delete(userID, id uint64) error
}

// TaskRepository defines the interface for task list and task data access
type TaskRepository interface {
	// CreateList creates a new task list
	CreateList(list *models.TaskList) error

	// FindListByID finds an owner's task list by ID
	FindListByID(userID, id uint64, preload ...string) (*models.TaskList, error)

	// ListLists lists an owner's task lists with position-ordered tasks
	ListLists(userID uint64) ([]models.TaskList, error)

	// UpdateList updates a task list
	UpdateList(list *models.TaskList) error

	// DeleteList removes a task list together with its tasks
	DeleteList(userID, id uint64) error

	// CreateTask creates a new task
	CreateTask(task *models.PersonalTask) error

	// FindTaskByID finds an owner's task by ID
	FindTaskByID(userID, id uint64, preload ...string) (*models.PersonalTask, error)

	// ListDueBetween lists an owner's tasks due within [from, to)
	ListDueBetween(userID uint64, from, to time.Time) ([]models.PersonalTask, error)

	// UpdateTaskVersioned persists changes only when expectedVersion still
	// matches the row; returns ErrStaleWrite otherwise
	UpdateTaskVersioned(task *models.PersonalTask, expectedVersion uint64) error

	// DeleteTask removes a task
	DeleteTask(userID, id uint64) error

	// ReorderTasks rewrites the positions of a list's tasks in one
	// transaction, following the given ID order
	ReorderTasks(userID, listID uint64, orderedIDs []uint64) error
}

// InterviewRepository defines the interface for career event data access
type InterviewRepository interface {
	// Create creates a new interview
	Create(interview *models.Interview) error

	// FindByID finds an owner's interview by ID
	FindByID(userID, id uint64) (*models.Interview, error)

	// ListByUser lists an owner's interviews, soonest first
	ListByUser(userID uint64) ([]models.Interview, error)

	// ListScheduledBetween lists an owner's interviews within [from, to)
	ListScheduledBetween(userID uint64, from, to time.Time) ([]models.Interview, error)

	// Update updates an interview
	Update(interview *models.Interview) error

	// Delete removes an interview
	Delete(userID, id uint64) error
}

// FocusRepository defines the interface for focus session data access
type FocusRepository interface {
	// Create creates a new focus session
	Create(session *models.FocusSession) error

	// FindByID finds an owner's session by ID
	FindByID(userID, id uint64) (*models.FocusSession, error)

	// ListByUser lists an owner's sessions, newest first
	ListByUser(userID uint64) ([]models.FocusSession, error)

	// ListPageByUser lists one page of an owner's sessions, newest first,
	// together with the total count
	ListPageByUser(userID uint64, params utils.PaginationParams) ([]models.FocusSession, int64, error)

	// Update updates a session
	Update(session *models.FocusSession) error

	// ListOpen lists every session not yet completed or abandoned, any
	// owner (used by the janitor)
	ListOpen() ([]models.FocusSession, error)

	// MarkAbandoned flags the given sessions as abandoned
	MarkAbandoned(ids []uint64) error
}

// SquadRepository defines the interface for squad data access
type SquadRepository interface {
	// Create creates a new squad
	Create(squad *models.Squad) error

	// FindByID finds a squad by ID
	FindByID(id uint64) (*models.Squad, error)

	// FindByInviteCode finds a squad by invite code
	FindByInviteCode(code string) (*models.Squad, error)

	// Update updates a squad
	Update(squad *models.Squad) error

	// Delete deletes a squad and all related data
	Delete(id uint64) error

	// AddMember adds a member to a squad
	AddMember(member *models.SquadMember) error

	// RemoveMember removes a member from a squad
	RemoveMember(squadID, userID uint64) error

	// FindMember finds a specific squad member
	FindMember(squadID, userID uint64) (*models.SquadMember, error)

	// ListMembersByUserID lists all squads a user is a member of
	ListMembersByUserID(userID uint64) ([]models.SquadMember, error)

	// ListMembers lists all members of a squad
	ListMembers(squadID uint64) ([]models.SquadMember, error)

	// AddTemplate shares a course snapshot with the squad
	AddTemplate(template *models.SquadCourseTemplate) error

	// ListTemplates lists a squad's shared course templates
	ListTemplates(squadID uint64) ([]models.SquadCourseTemplate, error)
}
