package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"tutorbridge/config"
	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"

	"gorm.io/gorm"
)

// errNotEligible excludes a candidate pair quietly; it never leaves a
// proposal run.
var errNotEligible = errors.New("candidate not eligible")

// MatchStore is the match persistence the engine needs.
type MatchStore interface {
	Create(*models.Match) error
	GetByID(id uint) (*models.Match, error)
	Update(*models.Match) error
	GetNonTerminalByTriple(tutorMemberID, menteeMemberID uint, subjectID string) (*models.Match, error)
	CountNonTerminalByTutor(tutorMemberID uint) (int64, error)
	IncrementSessions(id uint) (bool, error)
}

// CandidateStore lists matchable members with their active preferences.
type CandidateStore interface {
	ListActiveTutors(institutionID uint) ([]repository.ActiveCandidate, error)
	ListActiveMentees(institutionID uint) ([]repository.ActiveCandidate, error)
}

// PolicyStore resolves institution policy snapshots.
type PolicyStore interface {
	GetPolicy(institutionID uint) (*models.Policy, error)
}

// MemberStore resolves roster members.
type MemberStore interface {
	GetByID(id uint) (*models.RosterMember, error)
}

// MatchingService pairs tutor-capable members with mentee-capable members by
// subject and availability, and tracks the acceptance state machine.
type MatchingService struct {
	cfg        config.MatchingConfig
	matches    MatchStore
	candidates CandidateStore
	policies   PolicyStore
	members    MemberStore
}

func NewMatchingService(cfg config.MatchingConfig, matches MatchStore, candidates CandidateStore, policies PolicyStore, members MemberStore) *MatchingService {
	return &MatchingService{cfg: cfg, matches: matches, candidates: candidates, policies: policies, members: members}
}

// ProposeMatches scores every eligible tutor for every mentee-capable member
// with an active preference and creates one PENDING proposal per mentee per
// subject for the top-ranked tutor. subjectID and institutionID are optional
// filters; institutionID scopes the mentee side only, since cross-institution
// pairing is the point of the program.
//
// The run never fails on a mentee with no eligible tutor; it simply creates
// no proposal for them.
func (s *MatchingService) ProposeMatches(subjectID string, institutionID uint) ([]models.Match, error) {
	mentees, err := s.candidates.ListActiveMentees(institutionID)
	if err != nil {
		return nil, err
	}
	tutors, err := s.candidates.ListActiveTutors(0)
	if err != nil {
		return nil, err
	}

	policies := map[uint]models.Policy{}
	policyFor := func(instID uint) (models.Policy, error) {
		if p, ok := policies[instID]; ok {
			return p, nil
		}
		p, err := s.policies.GetPolicy(instID)
		if err != nil {
			return models.Policy{}, err
		}
		policies[instID] = *p
		return *p, nil
	}

	// Tutor load snapshot for the tie-break, counted once per run so ranking
	// is stable within the batch.
	loads := map[uint]int64{}
	loadFor := func(tutorMemberID uint) (int64, error) {
		if l, ok := loads[tutorMemberID]; ok {
			return l, nil
		}
		l, err := s.matches.CountNonTerminalByTutor(tutorMemberID)
		if err != nil {
			return 0, err
		}
		loads[tutorMemberID] = l
		return l, nil
	}

	var created []models.Match
	for _, mentee := range mentees {
		menteePolicy, err := policyFor(mentee.Member.InstitutionID)
		if err != nil {
			return created, err
		}
		for _, subject := range mentee.Preference.SubjectSet() {
			if subjectID != "" && subject != subjectID {
				continue
			}
			best, err := s.rankCandidates(subject, mentee, tutors, menteePolicy, policyFor, loadFor)
			if err != nil {
				return created, err
			}
			if best == nil {
				continue
			}
			match, err := s.propose(subject, mentee, *best)
			if err != nil {
				return created, err
			}
			if match != nil {
				created = append(created, *match)
				if s.cfg.ProposalBatchLimit > 0 && len(created) >= s.cfg.ProposalBatchLimit {
					log.Printf("[matching] proposal batch limit %d reached", s.cfg.ProposalBatchLimit)
					return created, nil
				}
			}
		}
	}
	log.Printf("[matching] proposal run: %d mentees, %d tutors, %d proposals", len(mentees), len(tutors), len(created))
	return created, nil
}

type scoredCandidate struct {
	candidate repository.ActiveCandidate
	score     int
	load      int64
}

func (s *MatchingService) rankCandidates(
	subject string,
	mentee repository.ActiveCandidate,
	tutors []repository.ActiveCandidate,
	menteePolicy models.Policy,
	policyFor func(uint) (models.Policy, error),
	loadFor func(uint) (int64, error),
) (*scoredCandidate, error) {
	var ranked []scoredCandidate
	for _, tutor := range tutors {
		if tutor.Member.ID == mentee.Member.ID || tutor.Member.UserID == mentee.Member.UserID {
			continue
		}
		tutorPolicy, err := policyFor(tutor.Member.InstitutionID)
		if err != nil {
			return nil, err
		}
		score, err := ScorePair(subject, &tutor.Preference, &mentee.Preference, tutorPolicy, menteePolicy)
		if err != nil {
			// Ineligible or policy-blocked pairs drop out; other candidates
			// for this mentee are unaffected.
			continue
		}
		if score < s.cfg.MinScore {
			continue
		}
		load, err := loadFor(tutor.Member.ID)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, scoredCandidate{candidate: tutor, score: score, load: load})
	}
	if len(ranked) == 0 {
		return nil, nil
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].load != ranked[j].load {
			return ranked[i].load < ranked[j].load
		}
		return ranked[i].candidate.Member.ID < ranked[j].candidate.Member.ID
	})
	return &ranked[0], nil
}

// propose creates the PENDING match unless a non-terminal match for the
// triple already exists (nil, nil in that case).
func (s *MatchingService) propose(subject string, mentee repository.ActiveCandidate, best scoredCandidate) (*models.Match, error) {
	existing, err := s.matches.GetNonTerminalByTriple(best.candidate.Member.ID, mentee.Member.ID, subject)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}
	m := &models.Match{
		TutorMemberID:       best.candidate.Member.ID,
		MenteeMemberID:      mentee.Member.ID,
		TutorInstitutionID:  best.candidate.Member.InstitutionID,
		MenteeInstitutionID: mentee.Member.InstitutionID,
		SubjectID:           subject,
		MatchScore:          best.score,
		Status:              domain.MatchStatusPending,
		ProposedBy:          domain.ProposedByAlgorithm,
		MatchReason:         proposalReason(subject, best, mentee),
	}
	if err := s.matches.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func proposalReason(subject string, best scoredCandidate, mentee repository.ActiveCandidate) string {
	reason := fmt.Sprintf("top-ranked tutor for %s (score %d)", subject, best.score)
	if best.candidate.Member.InstitutionID != mentee.Member.InstitutionID {
		reason += ", cross-institution pairing"
	}
	return reason
}

// CreateManual creates a coordinator-proposed match, bypassing scoring but
// honoring the uniqueness and cross-institution policy rules.
func (s *MatchingService) CreateManual(tutorMemberID, menteeMemberID uint, subjectID, reason string) (*models.Match, error) {
	tutor, err := s.members.GetByID(tutorMemberID)
	if err != nil {
		return nil, err
	}
	mentee, err := s.members.GetByID(menteeMemberID)
	if err != nil {
		return nil, err
	}
	if tutor.InstitutionID != mentee.InstitutionID {
		tutorPolicy, err := s.policies.GetPolicy(tutor.InstitutionID)
		if err != nil {
			return nil, err
		}
		menteePolicy, err := s.policies.GetPolicy(mentee.InstitutionID)
		if err != nil {
			return nil, err
		}
		if !tutorPolicy.AllowCrossInstitution || !menteePolicy.AllowCrossInstitution {
			return nil, domain.ErrPolicyViolation
		}
	}
	existing, err := s.matches.GetNonTerminalByTriple(tutorMemberID, menteeMemberID, subjectID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	m := &models.Match{
		TutorMemberID:       tutorMemberID,
		MenteeMemberID:      menteeMemberID,
		TutorInstitutionID:  tutor.InstitutionID,
		MenteeInstitutionID: mentee.InstitutionID,
		SubjectID:           subjectID,
		Status:              domain.MatchStatusPending,
		ProposedBy:          domain.ProposedByCoordinator,
		MatchReason:         reason,
	}
	if err := s.matches.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Respond records a tutor or mentee response. Declining from either side is
// immediately terminal; accepting from both sides moves the match to
// ACCEPTED and stamps accepted_at/started_at. Responses to anything but a
// PENDING match fail with ErrInvalidTransition.
func (s *MatchingService) Respond(matchID uint, side string, accept bool) (*models.Match, error) {
	m, err := s.matches.GetByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	if m.Status != domain.MatchStatusPending {
		return nil, domain.ErrInvalidTransition
	}
	if !accept {
		m.Status = domain.MatchStatusDeclined
		if err := s.matches.Update(m); err != nil {
			return nil, err
		}
		return m, nil
	}
	switch side {
	case domain.MatchSideTutor:
		m.AcceptedByTutor = true
	case domain.MatchSideMentee:
		m.AcceptedByMentee = true
	default:
		return nil, fmt.Errorf("unknown side %q", side)
	}
	if m.AcceptedByTutor && m.AcceptedByMentee {
		now := time.Now()
		m.Status = domain.MatchStatusAccepted
		m.AcceptedAt = &now
		m.StartedAt = &now
	}
	if err := s.matches.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSession increments the session counter of an ACCEPTED match.
func (s *MatchingService) RecordSession(matchID uint) (*models.Match, error) {
	ok, err := s.matches.IncrementSessions(matchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	return s.matches.GetByID(matchID)
}
