package service

import (
	"sync"
	"time"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"

	"gorm.io/gorm"
)

// In-memory stores mirroring the repository semantics, including the
// conditional-write behavior the ledger's atomicity depends on.

type memRosterStore struct {
	mu      sync.Mutex
	nextID  uint
	members map[uint]*models.RosterMember
}

func newMemRosterStore() *memRosterStore {
	return &memRosterStore{members: map[uint]*models.RosterMember{}}
}

func (s *memRosterStore) Create(m *models.RosterMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.UserID == m.UserID && existing.AcademicYear == m.AcademicYear {
			return gorm.ErrDuplicatedKey
		}
	}
	s.nextID++
	m.ID = s.nextID
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *memRosterStore) put(m models.RosterMember) *models.RosterMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	s.members[m.ID] = &m
	return &m
}

func (s *memRosterStore) GetByID(id uint) (*models.RosterMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memRosterStore) ListByUserID(userID uint) ([]models.RosterMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RosterMember
	for _, m := range s.members {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memRosterStore) CountActiveByInstitution(institutionID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c int64
	for _, m := range s.members {
		if m.InstitutionID == institutionID && m.IsActive {
			c++
		}
	}
	return c, nil
}

func (s *memRosterStore) addCredit(memberID uint, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[memberID]; ok {
		m.CreditBalance += amount
	}
}

func (s *memRosterStore) balance(memberID uint) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[memberID]; ok {
		return m.CreditBalance
	}
	return 0
}

type memPolicyStore struct {
	policies map[uint]models.Policy
}

func newMemPolicyStore(policies ...models.Policy) *memPolicyStore {
	s := &memPolicyStore{policies: map[uint]models.Policy{}}
	for _, p := range policies {
		s.policies[p.InstitutionID] = p
	}
	return s
}

func (s *memPolicyStore) GetPolicy(institutionID uint) (*models.Policy, error) {
	p, ok := s.policies[institutionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

type memPartnershipStore struct {
	byInstitution map[uint]*models.Partnership
}

func newMemPartnershipStore() *memPartnershipStore {
	return &memPartnershipStore{byInstitution: map[uint]*models.Partnership{}}
}

func (s *memPartnershipStore) GetByInstitutionID(institutionID uint) (*models.Partnership, error) {
	p, ok := s.byInstitution[institutionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

type memMatchStore struct {
	mu      sync.Mutex
	nextID  uint
	matches map[uint]*models.Match
}

func newMemMatchStore() *memMatchStore {
	return &memMatchStore{matches: map[uint]*models.Match{}}
}

func (s *memMatchStore) Create(m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	m.CreatedAt = time.Now()
	cp := *m
	s.matches[m.ID] = &cp
	return nil
}

func (s *memMatchStore) GetByID(id uint) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memMatchStore) Update(m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.matches[m.ID] = &cp
	return nil
}

func (s *memMatchStore) GetNonTerminalByTriple(tutorMemberID, menteeMemberID uint, subjectID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.TutorMemberID == tutorMemberID && m.MenteeMemberID == menteeMemberID &&
			m.SubjectID == subjectID && !domain.MatchTerminal(m.Status) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memMatchStore) CountNonTerminalByTutor(tutorMemberID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c int64
	for _, m := range s.matches {
		if m.TutorMemberID == tutorMemberID && !domain.MatchTerminal(m.Status) {
			c++
		}
	}
	return c, nil
}

func (s *memMatchStore) IncrementSessions(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok || m.Status != domain.MatchStatusAccepted {
		return false, nil
	}
	m.TotalSessions++
	return true, nil
}

func (s *memMatchStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

type memCandidateStore struct {
	tutors  []repository.ActiveCandidate
	mentees []repository.ActiveCandidate
}

func (s *memCandidateStore) ListActiveTutors(institutionID uint) ([]repository.ActiveCandidate, error) {
	return filterCandidates(s.tutors, institutionID), nil
}

func (s *memCandidateStore) ListActiveMentees(institutionID uint) ([]repository.ActiveCandidate, error) {
	return filterCandidates(s.mentees, institutionID), nil
}

func filterCandidates(in []repository.ActiveCandidate, institutionID uint) []repository.ActiveCandidate {
	if institutionID == 0 {
		return in
	}
	var out []repository.ActiveCandidate
	for _, c := range in {
		if c.Member.InstitutionID == institutionID {
			out = append(out, c)
		}
	}
	return out
}

// memCreditStore applies the same conditional-write contract as the SQL
// repository: Review and Credit check-and-set under one lock, and Credit
// also applies the balance increment while holding it.
type memCreditStore struct {
	mu        sync.Mutex
	nextID    uint
	byID      map[uint]*models.CreditTransaction
	byBooking map[string]uint
	roster    *memRosterStore
}

func newMemCreditStore(roster *memRosterStore) *memCreditStore {
	return &memCreditStore{byID: map[uint]*models.CreditTransaction{}, byBooking: map[string]uint{}, roster: roster}
}

func (s *memCreditStore) Create(tx *models.CreditTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byBooking[tx.BookingID]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.nextID++
	tx.ID = s.nextID
	tx.CreatedAt = time.Now()
	cp := *tx
	s.byID[tx.ID] = &cp
	s.byBooking[tx.BookingID] = tx.ID
	return nil
}

func (s *memCreditStore) GetByID(id uint) (*models.CreditTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *memCreditStore) GetByBookingID(bookingID string) (*models.CreditTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *memCreditStore) Review(id uint, reviewerID uint, toStatus, notes string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.byID[id]
	if !ok || tx.Status != domain.CreditStatusPending {
		return false, nil
	}
	now := time.Now()
	tx.Status = toStatus
	tx.ReviewedBy = &reviewerID
	tx.ReviewedAt = &now
	tx.ReviewNotes = notes
	return true, nil
}

func (s *memCreditStore) Credit(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.byID[id]
	if !ok || tx.Status != domain.CreditStatusApproved {
		return false, nil
	}
	now := time.Now()
	tx.Status = domain.CreditStatusCredited
	tx.CreditedAt = &now
	s.roster.addCredit(tx.MemberID, tx.CreditsEarned)
	return true, nil
}

func (s *memCreditStore) CountByMemberAndStatus(memberID uint, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c int64
	for _, tx := range s.byID {
		if tx.MemberID == memberID && tx.Status == status {
			c++
		}
	}
	return c, nil
}

func (s *memCreditStore) SumCreditedByMemberAndYear(memberID uint, academicYear string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, tx := range s.byID {
		if tx.MemberID == memberID && tx.AcademicYear == academicYear && tx.Status == domain.CreditStatusCredited {
			sum += tx.CreditsEarned
		}
	}
	return sum, nil
}

func (s *memCreditStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
