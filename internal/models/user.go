package models

import (
	"time"

	"tutorbridge/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string         `gorm:"size:128" json:"full_name"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // STUDENT | COORDINATOR | ADMIN
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Memberships []RosterMember `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (u *User) IsCoordinator() bool {
	return u.Role == domain.RoleCoordinator || u.Role == domain.RoleAdmin
}
