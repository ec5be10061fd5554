package models

import (
	"time"

	"tutorbridge/internal/domain"

	"gorm.io/gorm"
)

// Match is a proposed or active tutor-mentee pairing for one subject.
// At most one non-terminal match may exist per (tutor, mentee, subject).
type Match struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	TutorMemberID       uint   `gorm:"not null;index" json:"tutor_member_id"`
	MenteeMemberID      uint   `gorm:"not null;index" json:"mentee_member_id"`
	TutorInstitutionID  uint   `gorm:"not null;index" json:"tutor_institution_id"`
	MenteeInstitutionID uint   `gorm:"not null;index" json:"mentee_institution_id"`
	SubjectID           string `gorm:"size:64;not null;index" json:"subject_id"`
	MatchScore          int    `gorm:"not null;default:0" json:"match_score"`      // 0-100
	Status              string `gorm:"size:20;not null;index" json:"status"`       // PENDING | ACCEPTED | DECLINED
	ProposedBy          string `gorm:"size:20;not null" json:"proposed_by"`         // ALGORITHM | COORDINATOR
	MatchReason         string `gorm:"size:512" json:"match_reason"`

	AcceptedByTutor  bool       `gorm:"not null;default:false" json:"accepted_by_tutor"`
	AcceptedByMentee bool       `gorm:"not null;default:false" json:"accepted_by_mentee"`
	AcceptedAt       *time.Time `json:"accepted_at"`
	StartedAt        *time.Time `json:"started_at"`
	TotalSessions    int        `gorm:"not null;default:0" json:"total_sessions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TutorMember  RosterMember `gorm:"foreignKey:TutorMemberID" json:"-"`
	MenteeMember RosterMember `gorm:"foreignKey:MenteeMemberID" json:"-"`
}

func (Match) TableName() string {
	return "matches"
}

func (m *Match) IsTerminal() bool { return domain.MatchTerminal(m.Status) }

func (m *Match) IsAccepted() bool { return m.Status == domain.MatchStatusAccepted }
