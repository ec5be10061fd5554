package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// MatchingPreference is a member's stated pairing constraints, owned 1:1 by
// the roster member and editable only by them. Set-valued fields are stored
// comma-separated uppercase; time slots as "HH:MM-HH:MM" windows.
type MatchingPreference struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	MemberID           uint   `gorm:"uniqueIndex;not null" json:"member_id"`
	Subjects           string `gorm:"size:512" json:"subjects"`                        // e.g. "MATH,PHYSICS"
	SessionTypes       string `gorm:"size:255" json:"session_types"`                   // e.g. "ONE_ON_ONE,GROUP"
	MaxSessionsPerWeek int    `gorm:"not null;default:0" json:"max_sessions_per_week"`
	AvailableDays      string `gorm:"size:64" json:"available_days"`                   // e.g. "MON,WED,FRI"
	AvailableTimeSlots string `gorm:"size:255" json:"available_time_slots"`            // e.g. "16:00-18:00,19:00-20:00"
	OnlineOnly         bool   `gorm:"not null;default:false" json:"online_only"`
	PreferRemote       bool   `gorm:"not null;default:false" json:"prefer_remote_counterpart"`
	IsActive           bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Member RosterMember `gorm:"foreignKey:MemberID" json:"-"`
}

func (MatchingPreference) TableName() string {
	return "matching_preferences"
}

// SubjectSet returns the subject ids as a slice (empty entries dropped).
func (p *MatchingPreference) SubjectSet() []string { return splitSet(p.Subjects) }

// SessionTypeSet returns the session types as a slice.
func (p *MatchingPreference) SessionTypeSet() []string { return splitSet(p.SessionTypes) }

// DaySet returns the available days as a slice.
func (p *MatchingPreference) DaySet() []string { return splitSet(p.AvailableDays) }

func splitSet(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.ToUpper(strings.TrimSpace(p)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
