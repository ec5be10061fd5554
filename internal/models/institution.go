package models

import (
	"time"

	"tutorbridge/internal/domain"

	"gorm.io/gorm"
)

// Institution is a participating academic organization. Never hard-deleted;
// deactivation flips IsActive (plus GORM soft delete for removal from listings).
type Institution struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	City string `gorm:"size:128" json:"city"`

	// Academic-year window start (month-day); the year runs to the day before
	// the next start.
	YearStartMonth int `gorm:"not null;default:9" json:"year_start_month"`
	YearStartDay   int `gorm:"not null;default:1" json:"year_start_day"`

	// Credit policy.
	CreditValuePerSession float64 `gorm:"type:decimal(6,2);not null;default:1" json:"credit_value_per_session"`
	CreditRequirementMin  int     `gorm:"not null;default:0" json:"credit_requirement_min"`
	CreditRequirementMax  int     `gorm:"not null;default:0" json:"credit_requirement_max"`

	AllowCrossInstitution bool `gorm:"not null;default:true" json:"allow_cross_institution"`
	RequireApproval       bool `gorm:"not null;default:true" json:"require_approval"`
	IsActive              bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Partnership *Partnership `gorm:"foreignKey:InstitutionID" json:"partnership,omitempty"`
}

// YearWindow returns the institution's academic-year window.
func (i *Institution) YearWindow() domain.AcademicYearWindow {
	return domain.AcademicYearWindow{StartMonth: time.Month(i.YearStartMonth), StartDay: i.YearStartDay}
}

// Policy is the read-only view handed to the matching and credit engines so
// they never reach back into the registry mid-operation.
type Policy struct {
	InstitutionID         uint                      `json:"institution_id"`
	CreditValuePerSession float64                   `json:"credit_value_per_session"`
	CreditRequirementMin  int                       `json:"credit_requirement_min"`
	CreditRequirementMax  int                       `json:"credit_requirement_max"`
	AllowCrossInstitution bool                      `json:"allow_cross_institution"`
	RequireApproval       bool                      `json:"require_approval"`
	YearWindow            domain.AcademicYearWindow `json:"-"`
}

func (i *Institution) Policy() Policy {
	return Policy{
		InstitutionID:         i.ID,
		CreditValuePerSession: i.CreditValuePerSession,
		CreditRequirementMin:  i.CreditRequirementMin,
		CreditRequirementMax:  i.CreditRequirementMax,
		AllowCrossInstitution: i.AllowCrossInstitution,
		RequireApproval:       i.RequireApproval,
		YearWindow:            i.YearWindow(),
	}
}
