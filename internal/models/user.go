package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(100)" json:"display_name"`
	Program      string         `gorm:"type:varchar(100)" json:"program"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Terms       []Term        `gorm:"foreignKey:UserID" json:"-"`
	Courses     []Course      `gorm:"foreignKey:UserID" json:"-"`
	Memberships []SquadMember `gorm:"foreignKey:UserID" json:"-"`
}
