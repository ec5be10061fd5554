package repository

import (
	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(m *models.RosterMember) error {
	return r.db.Create(m).Error
}

func (r *MemberRepository) GetByID(id uint) (*models.RosterMember, error) {
	var m models.RosterMember
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) GetByUserAndYear(userID uint, academicYear string) (*models.RosterMember, error) {
	var m models.RosterMember
	err := r.db.Where("user_id = ? AND academic_year = ?", userID, academicYear).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) ListByUserID(userID uint) ([]models.RosterMember, error) {
	var list []models.RosterMember
	err := r.db.Where("user_id = ?", userID).Order("academic_year DESC").Find(&list).Error
	return list, err
}

func (r *MemberRepository) Update(m *models.RosterMember) error {
	return r.db.Save(m).Error
}

// CountActiveByInstitution counts active roster members for the capacity check.
func (r *MemberRepository) CountActiveByInstitution(institutionID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.RosterMember{}).
		Where("institution_id = ? AND is_active = ?", institutionID, true).
		Count(&c).Error
	return c, err
}
