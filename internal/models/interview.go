package models

import (
	"time"

	"gorm.io/gorm"
)

type InterviewType string

const (
	EventInterview InterviewType = "interview"
	EventOA        InterviewType = "oa"
)

// ValidInterviewType reports whether t is a known event type.
func ValidInterviewType(t InterviewType) bool {
	return t == EventInterview || t == EventOA
}

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
)

// ValidInterviewStatus reports whether s is a known status.
func ValidInterviewStatus(s InterviewStatus) bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled:
		return true
	}
	return false
}

// Interview is a career event: an interview round or an online assessment.
type Interview struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	UserID      uint64          `gorm:"not null;index" json:"user_id"`
	Company     string          `gorm:"type:varchar(100);not null" json:"company"`
	Role        string          `gorm:"type:varchar(100)" json:"role"`
	Type        InterviewType   `gorm:"type:varchar(10);not null;default:'interview'" json:"type"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	Status      InterviewStatus `gorm:"type:varchar(10);not null;default:'scheduled'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
