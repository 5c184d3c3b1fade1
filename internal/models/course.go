package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	UserID       uint64         `gorm:"not null;index" json:"user_id"`
	TermID       uint64         `gorm:"not null;index" json:"term_id"`
	Code         string         `gorm:"type:varchar(20);not null" json:"code"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Color        string         `gorm:"type:varchar(20)" json:"color"`
	CreditWeight float64        `gorm:"not null;default:0.5" json:"credit_weight"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Term          Term           `gorm:"foreignKey:TermID" json:"term,omitempty"`
	Assessments   []Assessment   `gorm:"foreignKey:CourseID" json:"assessments,omitempty"`
	ScheduleItems []ScheduleItem `gorm:"foreignKey:CourseID" json:"schedule_items,omitempty"`
}
