package models

import (
	"time"

	"gorm.io/gorm"
)

type SquadRole string

const (
	RoleLeader SquadRole = "leader"
	RoleMember SquadRole = "member"
)

type Squad struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(100);not null" json:"name"`
	InviteCode string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members   []SquadMember         `gorm:"foreignKey:SquadID" json:"members,omitempty"`
	Templates []SquadCourseTemplate `gorm:"foreignKey:SquadID" json:"templates,omitempty"`
}

type SquadMember struct {
	SquadID  uint64    `gorm:"primarykey" json:"squad_id"`
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	Role     SquadRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Squad Squad `gorm:"foreignKey:SquadID" json:"squad,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// SquadCourseTemplate is a shared course snapshot. Joining a squad clones
// templates into the joiner's own rows; the template itself is never edited
// in place by members.
type SquadCourseTemplate struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	SquadID     uint64         `gorm:"not null;index" json:"squad_id"`
	SharedByID  uint64         `gorm:"not null" json:"shared_by_id"`
	Code        string         `gorm:"type:varchar(20);not null" json:"code"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Color       string         `gorm:"type:varchar(20)" json:"color"`
	TermLabel   TermLabel      `gorm:"type:varchar(10);not null" json:"term_label"`
	Assessments string         `gorm:"type:text" json:"-"` // JSON-encoded assessment snapshots
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
