package repository

import (
	"errors"

	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

type PartnershipRepository struct {
	db *gorm.DB
}

func NewPartnershipRepository(db *gorm.DB) *PartnershipRepository {
	return &PartnershipRepository{db: db}
}

func (r *PartnershipRepository) GetByInstitutionID(institutionID uint) (*models.Partnership, error) {
	var p models.Partnership
	if err := r.db.Where("institution_id = ?", institutionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the institution's single partnership row.
func (r *PartnershipRepository) Upsert(p *models.Partnership) error {
	existing, err := r.GetByInstitutionID(p.InstitutionID)
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
