package repository

import (
	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

type InstitutionRepository struct {
	db *gorm.DB
}

func NewInstitutionRepository(db *gorm.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

func (r *InstitutionRepository) Create(inst *models.Institution) error {
	return r.db.Create(inst).Error
}

func (r *InstitutionRepository) GetByID(id uint) (*models.Institution, error) {
	var inst models.Institution
	if err := r.db.Preload("Partnership").First(&inst, id).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *InstitutionRepository) List(limit, offset int) ([]models.Institution, error) {
	var list []models.Institution
	err := r.db.Where("is_active = ?", true).Limit(limit).Offset(offset).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *InstitutionRepository) Update(inst *models.Institution) error {
	return r.db.Save(inst).Error
}

// Deactivate soft-deactivates an institution (institutions are never hard-deleted).
func (r *InstitutionRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Institution{}).Where("id = ?", id).Update("is_active", false).Error
}

// GetPolicy returns the immutable policy view for one institution.
func (r *InstitutionRepository) GetPolicy(id uint) (*models.Policy, error) {
	inst, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	p := inst.Policy()
	return &p, nil
}
