package models

import (
	"time"

	"gorm.io/gorm"
)

// TermLabel is one of the fixed academic term labels, in program order.
type TermLabel string

const (
	Term1A TermLabel = "1A"
	Term1B TermLabel = "1B"
	Term2A TermLabel = "2A"
	Term2B TermLabel = "2B"
	Term3A TermLabel = "3A"
	Term3B TermLabel = "3B"
	Term4A TermLabel = "4A"
	Term4B TermLabel = "4B"
)

// TermLabels lists every valid label in sequence.
var TermLabels = []TermLabel{Term1A, Term1B, Term2A, Term2B, Term3A, Term3B, Term4A, Term4B}

// ValidTermLabel reports whether label is one of the fixed labels.
func ValidTermLabel(label TermLabel) bool {
	for _, l := range TermLabels {
		if l == label {
			return true
		}
	}
	return false
}

type Term struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	UserID    uint64         `gorm:"not null;uniqueIndex:idx_terms_user_label" json:"user_id"`
	Label     TermLabel      `gorm:"type:varchar(10);not null;uniqueIndex:idx_terms_user_label" json:"label"`
	Season    string         `gorm:"type:varchar(20)" json:"season"`
	StartDate *time.Time     `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	IsCurrent bool           `gorm:"not null;default:false" json:"is_current"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Courses []Course `gorm:"foreignKey:TermID" json:"courses,omitempty"`
}
