package models

import (
	"time"

	"gorm.io/gorm"
)

type AssessmentType string

const (
	AssessmentAssignment AssessmentType = "ASSIGNMENT"
	AssessmentExam       AssessmentType = "EXAM"
	AssessmentQuiz       AssessmentType = "QUIZ"
	AssessmentProject    AssessmentType = "PROJECT"
	AssessmentLab        AssessmentType = "LAB"
	AssessmentOther      AssessmentType = "OTHER"
)

type Assessment struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	CourseID    uint64         `gorm:"not null;index" json:"course_id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Type        AssessmentType `gorm:"type:varchar(20);not null;default:'OTHER'" json:"type"`
	Weight      float64        `gorm:"not null" json:"weight"`
	TotalMarks  float64        `gorm:"not null;default:100" json:"total_marks"`
	DueDate     *time.Time     `json:"due_date"`
	Score       *float64       `json:"score"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	LockVersion uint64         `gorm:"not null;default:0" json:"lock_version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
