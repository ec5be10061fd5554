package repository

import (
	"errors"

	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) GetByMemberID(memberID uint) (*models.MatchingPreference, error) {
	var p models.MatchingPreference
	if err := r.db.Where("member_id = ?", memberID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert writes the member's single preference row.
func (r *PreferenceRepository) Upsert(p *models.MatchingPreference) error {
	existing, err := r.GetByMemberID(p.MemberID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.db.Create(p).Error
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return r.db.Save(p).Error
}

// ActiveCandidate couples a member with its active preference for scoring.
type ActiveCandidate struct {
	Member     models.RosterMember
	Preference models.MatchingPreference
}

// ListActiveTutors returns active tutor-capable members with active
// preferences, optionally scoped to one institution.
func (r *PreferenceRepository) ListActiveTutors(institutionID uint) ([]ActiveCandidate, error) {
	return r.listActive("can_tutor", institutionID)
}

// ListActiveMentees returns active mentee-capable members with active
// preferences, optionally scoped to one institution.
func (r *PreferenceRepository) ListActiveMentees(institutionID uint) ([]ActiveCandidate, error) {
	return r.listActive("can_mentee", institutionID)
}

func (r *PreferenceRepository) listActive(capabilityColumn string, institutionID uint) ([]ActiveCandidate, error) {
	q := r.db.Model(&models.MatchingPreference{}).
		Joins("INNER JOIN roster_members rm ON rm.id = matching_preferences.member_id AND rm.deleted_at IS NULL").
		Where("matching_preferences.is_active = ? AND rm.is_active = ? AND rm."+capabilityColumn+" = ?", true, true, true)
	if institutionID != 0 {
		q = q.Where("rm.institution_id = ?", institutionID)
	}
	var prefs []models.MatchingPreference
	if err := q.Preload("Member").Order("rm.id ASC").Find(&prefs).Error; err != nil {
		return nil, err
	}
	out := make([]ActiveCandidate, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, ActiveCandidate{Member: p.Member, Preference: p})
	}
	return out, nil
}
