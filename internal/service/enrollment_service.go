package service

import (
	"errors"
	"time"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

var ErrAlreadyEnrolled = errors.New("user already enrolled for this academic year")

// EnrollmentStore is the roster persistence enrollment needs.
type EnrollmentStore interface {
	Create(*models.RosterMember) error
	CountActiveByInstitution(institutionID uint) (int64, error)
}

// PartnershipStore resolves the institution's seat-limit agreement.
type PartnershipStore interface {
	GetByInstitutionID(institutionID uint) (*models.Partnership, error)
}

// EnrollmentService admits users onto an institution's roster, gated by the
// partnership student limit. The limit blocks new enrollment only; it never
// affects matching or crediting of existing members.
type EnrollmentService struct {
	roster       EnrollmentStore
	partnerships PartnershipStore
	policies     PolicyStore
	now          func() time.Time
}

func NewEnrollmentService(roster EnrollmentStore, partnerships PartnershipStore, policies PolicyStore) *EnrollmentService {
	return &EnrollmentService{roster: roster, partnerships: partnerships, policies: policies, now: time.Now}
}

// Enroll creates a roster membership for the current academic year of the
// institution. Fails with ErrCapacityExceeded when an active partnership's
// student limit is reached.
func (s *EnrollmentService) Enroll(userID, institutionID uint, canTutor, canMentee bool) (*models.RosterMember, error) {
	policy, err := s.policies.GetPolicy(institutionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCapacity(institutionID); err != nil {
		return nil, err
	}
	m := &models.RosterMember{
		UserID:        userID,
		InstitutionID: institutionID,
		AcademicYear:  policy.YearWindow.YearFor(s.now()),
		CanTutor:      canTutor,
		CanMentee:     canMentee,
		IsActive:      true,
	}
	if err := s.roster.Create(m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return m, nil
}

// checkCapacity compares active roster size against the partnership student
// limit. No partnership, an inactive one, or a zero limit means unlimited.
func (s *EnrollmentService) checkCapacity(institutionID uint) error {
	p, err := s.partnerships.GetByInstitutionID(institutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !p.IsActive || p.StudentsLimit <= 0 {
		return nil
	}
	active, err := s.roster.CountActiveByInstitution(institutionID)
	if err != nil {
		return err
	}
	if active >= int64(p.StudentsLimit) {
		return domain.ErrCapacityExceeded
	}
	return nil
}
