package service

import (
	"errors"
	"fmt"
	"log"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"

	"gorm.io/gorm"
)

// CreditStore is the transaction persistence the ledger needs. Review and
// Credit are conditional writes: they report false when the transaction was
// not in the required state, without touching anything.
type CreditStore interface {
	Create(*models.CreditTransaction) error
	GetByID(id uint) (*models.CreditTransaction, error)
	GetByBookingID(bookingID string) (*models.CreditTransaction, error)
	Review(id uint, reviewerID uint, toStatus, notes string) (bool, error)
	Credit(id uint) (bool, error)
	CountByMemberAndStatus(memberID uint, status string) (int64, error)
	SumCreditedByMemberAndYear(memberID uint, academicYear string) (float64, error)
}

// RosterStore resolves the tutor's roster membership for an ingested booking.
type RosterStore interface {
	GetByID(id uint) (*models.RosterMember, error)
	ListByUserID(userID uint) ([]models.RosterMember, error)
}

// CreditService converts completed credit-eligible bookings into balance
// increases, exactly once, under institutional approval policy.
type CreditService struct {
	credits  CreditStore
	roster   RosterStore
	policies PolicyStore
}

func NewCreditService(credits CreditStore, roster RosterStore, policies PolicyStore) *CreditService {
	return &CreditService{credits: credits, roster: roster, policies: policies}
}

// IngestCompletedBooking turns a completed, credit-eligible booking into one
// PENDING credit transaction (APPROVED directly when the institution does
// not require review). Re-ingesting a booking id is a no-op returning the
// existing transaction, because the upstream booking service retries
// completion signals.
func (s *CreditService) IngestCompletedBooking(evt models.BookingEvent) (*models.CreditTransaction, error) {
	if evt.Status != domain.BookingStatusCompleted || !evt.IsCreditEligible {
		return nil, domain.ErrNotCreditEligible
	}
	if existing, err := s.credits.GetByBookingID(evt.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	member, policy, err := s.resolveMembership(evt)
	if err != nil {
		return nil, err
	}

	credits := evt.CreditValue
	if credits <= 0 {
		credits = policy.CreditValuePerSession
	}
	status := domain.CreditStatusPending
	if !policy.RequireApproval {
		status = domain.CreditStatusApproved
	}
	tx := &models.CreditTransaction{
		MemberID:      member.ID,
		InstitutionID: member.InstitutionID,
		BookingID:     evt.ID,
		CreditsEarned: credits,
		AcademicYear:  policy.YearWindow.YearFor(evt.CompletedAt),
		Status:        status,
	}
	if err := s.credits.Create(tx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost an ingestion race for the same booking; the winner's row
			// is the answer.
			return s.credits.GetByBookingID(evt.ID)
		}
		return nil, err
	}
	log.Printf("[credit] booking %s ingested for member %d: %.2f credits, %s", evt.ID, member.ID, credits, status)
	return tx, nil
}

// resolveMembership picks the tutor's active roster membership whose
// institution's academic year contains the booking completion time.
func (s *CreditService) resolveMembership(evt models.BookingEvent) (*models.RosterMember, *models.Policy, error) {
	memberships, err := s.roster.ListByUserID(evt.TutorID)
	if err != nil {
		return nil, nil, err
	}
	for i := range memberships {
		m := &memberships[i]
		if !m.IsActive {
			continue
		}
		policy, err := s.policies.GetPolicy(m.InstitutionID)
		if err != nil {
			return nil, nil, err
		}
		if policy.YearWindow.YearFor(evt.CompletedAt) == m.AcademicYear {
			return m, policy, nil
		}
	}
	return nil, nil, fmt.Errorf("no active roster membership for tutor user %d at %s", evt.TutorID, evt.CompletedAt.Format("2006-01-02"))
}

// Review approves or rejects a PENDING transaction. Approval is the only
// path toward crediting; rejection is terminal with no balance effect.
// Reviewing a non-PENDING transaction fails with ErrInvalidTransition.
func (s *CreditService) Review(txID, reviewerID uint, approve bool, notes string) (*models.CreditTransaction, error) {
	toStatus := domain.CreditStatusRejected
	if approve {
		toStatus = domain.CreditStatusApproved
	}
	ok, err := s.credits.Review(txID, reviewerID, toStatus, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	return s.credits.GetByID(txID)
}

// Credit flips an APPROVED transaction to CREDITED and increments the
// member's balance, atomically and exactly once. Any state but APPROVED,
// including already CREDITED, fails with ErrInvalidTransition and changes
// nothing, so of two concurrent calls exactly one succeeds.
func (s *CreditService) Credit(txID uint) (*models.CreditTransaction, error) {
	ok, err := s.credits.Credit(txID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	tx, err := s.credits.GetByID(txID)
	if err != nil {
		return nil, err
	}
	log.Printf("[credit] transaction %d credited: %.2f to member %d", tx.ID, tx.CreditsEarned, tx.MemberID)
	return tx, nil
}

// CreditSummary is the member-facing progress view.
type CreditSummary struct {
	MemberID       uint    `json:"member_id"`
	AcademicYear   string  `json:"academic_year"`
	CreditBalance  float64 `json:"credit_balance"`
	YearCredits    float64 `json:"year_credits"`
	RequirementMin int     `json:"requirement_min"`
	RequirementMax int     `json:"requirement_max"`
	PendingCount   int64   `json:"pending_count"`
	ApprovedCount  int64   `json:"approved_count"`
}

// Summary reports balance, academic-year progress against the institution's
// credit requirements, and outstanding transaction counts.
func (s *CreditService) Summary(memberID uint) (*CreditSummary, error) {
	member, err := s.roster.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	policy, err := s.policies.GetPolicy(member.InstitutionID)
	if err != nil {
		return nil, err
	}
	yearCredits, err := s.credits.SumCreditedByMemberAndYear(memberID, member.AcademicYear)
	if err != nil {
		return nil, err
	}
	pending, err := s.credits.CountByMemberAndStatus(memberID, domain.CreditStatusPending)
	if err != nil {
		return nil, err
	}
	approved, err := s.credits.CountByMemberAndStatus(memberID, domain.CreditStatusApproved)
	if err != nil {
		return nil, err
	}
	return &CreditSummary{
		MemberID:       member.ID,
		AcademicYear:   member.AcademicYear,
		CreditBalance:  member.CreditBalance,
		YearCredits:    yearCredits,
		RequirementMin: policy.CreditRequirementMin,
		RequirementMax: policy.CreditRequirementMax,
		PendingCount:   pending,
		ApprovedCount:  approved,
	}, nil
}
