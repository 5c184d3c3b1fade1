package models

import (
	"time"

	"gorm.io/gorm"
)

// FocusSession is one Pomodoro-style timer run.
type FocusSession struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	UserID       uint64         `gorm:"not null;index" json:"user_id"`
	DurationMins int            `gorm:"not null" json:"duration_mins"`
	Objective    string         `gorm:"type:varchar(255)" json:"objective"`
	AssessmentID *uint64        `gorm:"index" json:"assessment_id"`
	TaskID       *uint64        `gorm:"index" json:"task_id"`
	Completed    bool           `gorm:"not null;default:false" json:"completed"`
	Abandoned    bool           `gorm:"not null;default:false" json:"abandoned"`
	StartedAt    time.Time      `gorm:"not null;index" json:"started_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
