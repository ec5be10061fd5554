package models

import (
	"time"

	"tutorbridge/internal/domain"

	"gorm.io/gorm"
)

// CreditTransaction tracks one credit-eligible booking from ingestion through
// review to crediting. BookingID is the idempotency key: a booking yields at
// most one transaction, and a transaction is credited at most once.
type CreditTransaction struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	MemberID      uint    `gorm:"not null;index" json:"member_id"`
	InstitutionID uint    `gorm:"not null;index" json:"institution_id"`
	BookingID     string  `gorm:"size:64;not null;uniqueIndex" json:"booking_id"`
	CreditsEarned float64 `gorm:"type:decimal(6,2);not null" json:"credits_earned"`
	AcademicYear  string  `gorm:"size:9;not null;index" json:"academic_year"`
	Status        string  `gorm:"size:20;not null;index" json:"status"` // PENDING | APPROVED | REJECTED | CREDITED

	ReviewedBy  *uint      `json:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewNotes string     `gorm:"size:512" json:"review_notes"`
	CreditedAt  *time.Time `json:"credited_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Member      RosterMember `gorm:"foreignKey:MemberID" json:"-"`
	Institution Institution  `gorm:"foreignKey:InstitutionID" json:"-"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

func (t *CreditTransaction) IsTerminal() bool { return domain.CreditTerminal(t.Status) }

// BookingEvent is the completed-booking record emitted by the external
// booking lifecycle service. This core only reads it.
type BookingEvent struct {
	ID               string    `json:"id" binding:"required"`
	StudentID        uint      `json:"student_id"`
	TutorID          uint      `json:"tutor_id" binding:"required"`
	Status           string    `json:"status" binding:"required"`
	IsCreditEligible bool      `json:"is_credit_eligible"`
	SessionType      string    `json:"session_type"`
	CreditValue      float64   `json:"credit_value"`
	CompletedAt      time.Time `json:"completed_at"`
}
