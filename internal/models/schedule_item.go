package models

import (
	"time"

	"gorm.io/gorm"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MON"
	Tuesday   DayOfWeek = "TUE"
	Wednesday DayOfWeek = "WED"
	Thursday  DayOfWeek = "THU"
	Friday    DayOfWeek = "FRI"
	Saturday  DayOfWeek = "SAT"
	Sunday    DayOfWeek = "SUN"
)

// DaysOfWeek lists the days in display order, Monday first.
var DaysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ValidDayOfWeek reports whether day is a known day code.
func ValidDayOfWeek(day DayOfWeek) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

type ScheduleItemType string

const (
	ScheduleLecture  ScheduleItemType = "LEC"
	ScheduleTutorial ScheduleItemType = "TUT"
	ScheduleLab      ScheduleItemType = "LAB"
	ScheduleSeminar  ScheduleItemType = "SEM"
)

// ValidScheduleItemType reports whether t is a known slot type.
func ValidScheduleItemType(t ScheduleItemType) bool {
	switch t {
	case ScheduleLecture, ScheduleTutorial, ScheduleLab, ScheduleSeminar:
		return true
	}
	return false
}

// ScheduleItem is a recurring weekly time slot, not a dated event.
type ScheduleItem struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	CourseID  uint64           `gorm:"not null;index" json:"course_id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	Day       DayOfWeek        `gorm:"type:varchar(3);not null" json:"day"`
	StartTime string           `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime   string           `gorm:"type:varchar(8);not null" json:"end_time"`
	Location  string           `gorm:"type:varchar(100)" json:"location"`
	Type      ScheduleItemType `gorm:"type:varchar(3);not null;default:'LEC'" json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
