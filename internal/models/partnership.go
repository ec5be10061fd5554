package models

import (
	"time"

	"gorm.io/gorm"
)

// Partnership is the commercial agreement layer on top of an institution
// (1:1): tier, seat limit, fee, active range.
type Partnership struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	InstitutionID uint       `gorm:"uniqueIndex;not null" json:"institution_id"`
	Tier          string     `gorm:"size:20;not null;default:'FREE'" json:"tier"` // FREE | BASIC | PREMIUM
	StudentsLimit int        `gorm:"not null;default:0" json:"students_limit"`
	AnnualFee     float64    `gorm:"type:decimal(10,2);not null;default:0" json:"annual_fee"`
	StartDate     *time.Time `json:"start_date"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Institution Institution `gorm:"foreignKey:InstitutionID" json:"-"`
}

func (Partnership) TableName() string {
	return "partnerships"
}
