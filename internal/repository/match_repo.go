package repository

import (
	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(m *models.Match) error {
	return r.db.Create(m).Error
}

func (r *MatchRepository) GetByID(id uint) (*models.Match, error) {
	var m models.Match
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatchRepository) Update(m *models.Match) error {
	return r.db.Save(m).Error
}

// GetNonTerminalByTriple returns an existing PENDING or ACCEPTED match for
// (tutor, mentee, subject), or nil. Enforces the idempotent-proposal rule.
func (r *MatchRepository) GetNonTerminalByTriple(tutorMemberID, menteeMemberID uint, subjectID string) (*models.Match, error) {
	var m models.Match
	err := r.db.Where(
		"tutor_member_id = ? AND mentee_member_id = ? AND subject_id = ? AND status IN ?",
		tutorMemberID, menteeMemberID, subjectID,
		[]string{domain.MatchStatusPending, domain.MatchStatusAccepted},
	).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CountNonTerminalByTutor counts a tutor's open matches, used by the
// load-balancing tie-break.
func (r *MatchRepository) CountNonTerminalByTutor(tutorMemberID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Match{}).
		Where("tutor_member_id = ? AND status IN ?", tutorMemberID,
			[]string{domain.MatchStatusPending, domain.MatchStatusAccepted}).
		Count(&c).Error
	return c, err
}

func (r *MatchRepository) ListByMember(memberID uint, limit, offset int) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Where("tutor_member_id = ? OR mentee_member_id = ?", memberID, memberID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListOpenByMember returns a member's accepted matches and pending proposals.
func (r *MatchRepository) ListOpenByMember(memberID uint) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Where("(tutor_member_id = ? OR mentee_member_id = ?) AND status IN ?",
		memberID, memberID, []string{domain.MatchStatusPending, domain.MatchStatusAccepted}).
		Order("status ASC, created_at DESC").Find(&list).Error
	return list, err
}

// IncrementSessions bumps total_sessions for an ACCEPTED match and reports
// whether a row matched (false means not found or not accepted).
func (r *MatchRepository) IncrementSessions(id uint) (bool, error) {
	res := r.db.Model(&models.Match{}).
		Where("id = ? AND status = ?", id, domain.MatchStatusAccepted).
		UpdateColumn("total_sessions", gorm.Expr("total_sessions + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
