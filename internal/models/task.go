package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidTaskPriority reports whether p is a known priority.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TaskList struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Position  int            `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks []PersonalTask `gorm:"foreignKey:ListID" json:"tasks,omitempty"`
}

type PersonalTask struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	ListID      uint64         `gorm:"not null;index" json:"list_id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Notes       string         `gorm:"type:text" json:"notes"`
	DueDate     *time.Time     `json:"due_date"`
	Priority    TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	CourseID    *uint64        `gorm:"index" json:"course_id"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	Position    int            `gorm:"not null;default:0" json:"position"`
	LockVersion uint64         `gorm:"not null;default:0" json:"lock_version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	List   TaskList `gorm:"foreignKey:ListID" json:"-"`
	Course *Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
