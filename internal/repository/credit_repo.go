package repository

import (
	"errors"
	"time"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Create inserts a new transaction. A duplicate booking id surfaces as
// gorm.ErrDuplicatedKey via the unique index; the service treats that as an
// upstream retry and re-reads.
func (r *CreditRepository) Create(tx *models.CreditTransaction) error {
	return r.db.Create(tx).Error
}

func (r *CreditRepository) GetByID(id uint) (*models.CreditTransaction, error) {
	var tx models.CreditTransaction
	if err := r.db.First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *CreditRepository) GetByBookingID(bookingID string) (*models.CreditTransaction, error) {
	var tx models.CreditTransaction
	err := r.db.Where("booking_id = ?", bookingID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *CreditRepository) ListByMember(memberID uint, limit, offset int) ([]models.CreditTransaction, error) {
	var list []models.CreditTransaction
	err := r.db.Where("member_id = ?", memberID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *CreditRepository) ListByInstitutionAndStatus(institutionID uint, status string, limit, offset int) ([]models.CreditTransaction, error) {
	var list []models.CreditTransaction
	q := r.db.Where("institution_id = ?", institutionID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Review moves a PENDING transaction to APPROVED or REJECTED with reviewer
// stamps. The status is part of the WHERE clause so two racing reviews settle
// to exactly one winner; false means the row was not PENDING (or not found).
func (r *CreditRepository) Review(id uint, reviewerID uint, toStatus, notes string) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.CreditTransaction{}).
		Where("id = ? AND status = ?", id, domain.CreditStatusPending).
		Updates(map[string]interface{}{
			"status":       toStatus,
			"reviewed_by":  reviewerID,
			"reviewed_at":  now,
			"review_notes": notes,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Credit atomically flips an APPROVED transaction to CREDITED and increments
// the member balance in one DB transaction. The conditional UPDATE is both
// the state check and the lock: of two concurrent calls exactly one matches
// a row; the balance increment is an SQL expression so concurrent credits to
// the same member serialize on the row without a lost update.
// Returns false (and no balance change) when the transaction was not APPROVED.
func (r *CreditRepository) Credit(id uint) (bool, error) {
	credited := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CreditTransaction{}).
			Where("id = ? AND status = ?", id, domain.CreditStatusApproved).
			Updates(map[string]interface{}{
				"status":      domain.CreditStatusCredited,
				"credited_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // not APPROVED; leave credited=false, nothing to roll back
		}
		var ct models.CreditTransaction
		if err := tx.First(&ct, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RosterMember{}).
			Where("id = ?", ct.MemberID).
			UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", ct.CreditsEarned)).Error; err != nil {
			return err
		}
		credited = true
		return nil
	})
	return credited, err
}

// CountByMemberAndStatus supports the outstanding-transaction counts on the
// member credit summary.
func (r *CreditRepository) CountByMemberAndStatus(memberID uint, status string) (int64, error) {
	var c int64
	err := r.db.Model(&models.CreditTransaction{}).
		Where("member_id = ? AND status = ?", memberID, status).
		Count(&c).Error
	return c, err
}

// SumCreditedByMemberAndYear totals credited amounts for academic-year
// progress reporting.
func (r *CreditRepository) SumCreditedByMemberAndYear(memberID uint, academicYear string) (float64, error) {
	var sum float64
	err := r.db.Model(&models.CreditTransaction{}).
		Select("COALESCE(SUM(credits_earned), 0)").
		Where("member_id = ? AND academic_year = ? AND status = ?", memberID, academicYear, domain.CreditStatusCredited).
		Scan(&sum).Error
	return sum, err
}
