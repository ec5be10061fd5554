package models

import (
	"time"

	"gorm.io/gorm"
)

// RosterMember is a user enrolled at an institution for one academic year.
// Tutor and mentee capability are not mutually exclusive. CreditBalance is
// written only by the ledger's crediting step and never decremented here.
type RosterMember struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	UserID        uint    `gorm:"not null;index:idx_members_user_year,unique" json:"user_id"`
	InstitutionID uint    `gorm:"not null;index" json:"institution_id"`
	AcademicYear  string  `gorm:"size:9;not null;index:idx_members_user_year,unique" json:"academic_year"` // "YYYY-YYYY"
	CanTutor      bool    `gorm:"not null;default:false" json:"can_tutor"`
	CanMentee     bool    `gorm:"not null;default:false" json:"can_mentee"`
	CreditBalance float64 `gorm:"type:decimal(8,2);not null;default:0" json:"credit_balance"`
	IsActive      bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Institution Institution `gorm:"foreignKey:InstitutionID" json:"-"`

	Preference *MatchingPreference `gorm:"foreignKey:MemberID" json:"preference,omitempty"`
}

func (RosterMember) TableName() string {
	return "roster_members"
}
