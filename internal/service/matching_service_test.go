package service

import (
	"errors"
	"testing"

	"tutorbridge/config"
	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"
)

func matchingFixture(policies ...models.Policy) (*MatchingService, *memMatchStore, *memCandidateStore, *memRosterStore) {
	matches := newMemMatchStore()
	candidates := &memCandidateStore{}
	roster := newMemRosterStore()
	svc := NewMatchingService(config.MatchingConfig{MinScore: 40}, matches, candidates, newMemPolicyStore(policies...), roster)
	return svc, matches, candidates, roster
}

func candidate(roster *memRosterStore, userID, instID uint, canTutor, canMentee bool, p *models.MatchingPreference) repository.ActiveCandidate {
	m := roster.put(models.RosterMember{
		UserID:        userID,
		InstitutionID: instID,
		AcademicYear:  "2025-2026",
		CanTutor:      canTutor,
		CanMentee:     canMentee,
		IsActive:      true,
	})
	pref := *p
	pref.MemberID = m.ID
	return repository.ActiveCandidate{Member: *m, Preference: pref}
}

func TestProposeMatchesCrossInstitution(t *testing.T) {
	svc, matches, candidates, roster := matchingFixture(policy(1, true), policy(2, true))
	tutor := candidate(roster, 10, 1, true, false, pref("MATH", "ONE_ON_ONE", "MON,WED", "", false))
	mentee := candidate(roster, 20, 2, false, true, pref("MATH", "ONE_ON_ONE", "MON", "", false))
	candidates.tutors = []repository.ActiveCandidate{tutor}
	candidates.mentees = []repository.ActiveCandidate{mentee}

	created, err := svc.ProposeMatches("", 0)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d matches, want 1", len(created))
	}
	m := created[0]
	if m.Status != domain.MatchStatusPending || m.ProposedBy != domain.ProposedByAlgorithm {
		t.Fatalf("status=%s proposedBy=%s, want PENDING/ALGORITHM", m.Status, m.ProposedBy)
	}
	if m.TutorMemberID != tutor.Member.ID || m.MenteeMemberID != mentee.Member.ID || m.SubjectID != "MATH" {
		t.Fatalf("wrong pairing: %+v", m)
	}
	if m.TutorInstitutionID != 1 || m.MenteeInstitutionID != 2 {
		t.Fatalf("wrong institutions: %+v", m)
	}
	if m.MatchScore != 100 { // full overlap + online agreement + cross bonus
		t.Fatalf("score = %d, want 100", m.MatchScore)
	}
	if matches.count() != 1 {
		t.Fatalf("store holds %d matches, want 1", matches.count())
	}
}

func TestProposeMatchesIdempotent(t *testing.T) {
	svc, matches, candidates, roster := matchingFixture(policy(1, true), policy(2, true))
	candidates.tutors = []repository.ActiveCandidate{candidate(roster, 10, 1, true, false, pref("MATH", "", "MON", "", false))}
	candidates.mentees = []repository.ActiveCandidate{candidate(roster, 20, 2, false, true, pref("MATH", "", "MON", "", false))}

	if _, err := svc.ProposeMatches("", 0); err != nil {
		t.Fatalf("first run: %v", err)
	}
	again, err := svc.ProposeMatches("", 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(again) != 0 || matches.count() != 1 {
		t.Fatalf("second run created %d (store %d), want 0 (store 1)", len(again), matches.count())
	}
}

func TestProposeMatchesDeterministic(t *testing.T) {
	svc, _, candidates, roster := matchingFixture(policy(1, true), policy(2, true))
	t1 := candidate(roster, 10, 1, true, false, pref("MATH", "", "MON,TUE", "09:00-12:00", false))
	t2 := candidate(roster, 11, 1, true, false, pref("MATH", "", "MON", "10:00-11:00", false))
	mentee := candidate(roster, 20, 2, false, true, pref("MATH", "", "MON,TUE", "09:00-12:00", false))
	candidates.tutors = []repository.ActiveCandidate{t1, t2}
	candidates.mentees = []repository.ActiveCandidate{mentee}

	created, err := svc.ProposeMatches("", 0)
	if err != nil || len(created) != 1 {
		t.Fatalf("created %d (err %v), want 1", len(created), err)
	}
	want := created[0]

	// An identical snapshot in a fresh store yields the same pairing and score.
	svc2, _, candidates2, _ := matchingFixture(policy(1, true), policy(2, true))
	candidates2.tutors = candidates.tutors
	candidates2.mentees = candidates.mentees
	again, err := svc2.ProposeMatches("", 0)
	if err != nil || len(again) != 1 {
		t.Fatalf("rerun created %d (err %v), want 1", len(again), err)
	}
	if again[0].TutorMemberID != want.TutorMemberID || again[0].MatchScore != want.MatchScore {
		t.Fatalf("rerun picked tutor %d score %d, want tutor %d score %d",
			again[0].TutorMemberID, again[0].MatchScore, want.TutorMemberID, want.MatchScore)
	}
}

func TestProposeMatchesTieBreakByLoadThenID(t *testing.T) {
	svc, matches, candidates, roster := matchingFixture(policy(1, true))
	samePref := pref("MATH", "", "MON", "", false)
	t1 := candidate(roster, 10, 1, true, false, samePref)
	t2 := candidate(roster, 11, 1, true, false, samePref)
	mentee := candidate(roster, 20, 1, false, true, pref("MATH", "", "MON", "", false))
	otherMentee := candidate(roster, 21, 1, false, true, pref("PHYSICS", "", "MON", "", false))
	candidates.tutors = []repository.ActiveCandidate{t1, t2}
	candidates.mentees = []repository.ActiveCandidate{mentee}

	// Equal scores, equal load: lowest tutor member id wins.
	created, err := svc.ProposeMatches("", 0)
	if err != nil || len(created) != 1 {
		t.Fatalf("created %d (err %v), want 1", len(created), err)
	}
	if created[0].TutorMemberID != t1.Member.ID {
		t.Fatalf("picked tutor %d, want %d (lowest id)", created[0].TutorMemberID, t1.Member.ID)
	}

	// Give t1 an open match: load tie-break now prefers t2.
	if err := matches.Create(&models.Match{
		TutorMemberID:  t1.Member.ID,
		MenteeMemberID: otherMentee.Member.ID,
		SubjectID:      "PHYSICS",
		Status:         domain.MatchStatusAccepted,
	}); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	mentee2 := candidate(roster, 22, 1, false, true, pref("MATH", "", "MON", "", false))
	candidates.mentees = []repository.ActiveCandidate{mentee2}
	created, err = svc.ProposeMatches("", 0)
	if err != nil || len(created) != 1 {
		t.Fatalf("created %d (err %v), want 1", len(created), err)
	}
	if created[0].TutorMemberID != t2.Member.ID {
		t.Fatalf("picked tutor %d, want %d (lower load)", created[0].TutorMemberID, t2.Member.ID)
	}
}

func TestProposeMatchesPolicyBlockedCandidateSkipped(t *testing.T) {
	svc, matches, candidates, roster := matchingFixture(policy(1, true), policy(2, false))
	candidates.tutors = []repository.ActiveCandidate{candidate(roster, 10, 1, true, false, pref("MATH", "", "MON", "", false))}
	candidates.mentees = []repository.ActiveCandidate{candidate(roster, 20, 2, false, true, pref("MATH", "", "MON", "", false))}

	created, err := svc.ProposeMatches("", 0)
	if err != nil {
		t.Fatalf("propose must not fail on blocked candidates: %v", err)
	}
	if len(created) != 0 || matches.count() != 0 {
		t.Fatalf("created %d matches, want 0", len(created))
	}
}

func TestProposeMatchesMenteeWithoutCandidatesIsNotAnError(t *testing.T) {
	svc, _, candidates, roster := matchingFixture(policy(1, true))
	candidates.mentees = []repository.ActiveCandidate{candidate(roster, 20, 1, false, true, pref("LATIN", "", "MON", "", false))}

	created, err := svc.ProposeMatches("", 0)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("created %d matches, want 0", len(created))
	}
}

func TestRespondAcceptBothSides(t *testing.T) {
	svc, matches, _, _ := matchingFixture()
	m := &models.Match{TutorMemberID: 1, MenteeMemberID: 2, SubjectID: "MATH", Status: domain.MatchStatusPending}
	if err := matches.Create(m); err != nil {
		t.Fatal(err)
	}

	after, err := svc.Respond(m.ID, domain.MatchSideTutor, true)
	if err != nil {
		t.Fatalf("tutor accept: %v", err)
	}
	if after.Status != domain.MatchStatusPending || !after.AcceptedByTutor {
		t.Fatalf("after tutor accept: %+v", after)
	}

	after, err = svc.Respond(m.ID, domain.MatchSideMentee, true)
	if err != nil {
		t.Fatalf("mentee accept: %v", err)
	}
	if after.Status != domain.MatchStatusAccepted || !after.AcceptedByTutor || !after.AcceptedByMentee {
		t.Fatalf("after both accept: %+v", after)
	}
	if after.AcceptedAt == nil || after.StartedAt == nil {
		t.Fatal("accepted_at/started_at not stamped")
	}
}

func TestRespondDeclineIsTerminal(t *testing.T) {
	svc, matches, _, _ := matchingFixture()
	m := &models.Match{TutorMemberID: 1, MenteeMemberID: 2, SubjectID: "MATH", Status: domain.MatchStatusPending, AcceptedByTutor: true}
	if err := matches.Create(m); err != nil {
		t.Fatal(err)
	}

	after, err := svc.Respond(m.ID, domain.MatchSideMentee, false)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if after.Status != domain.MatchStatusDeclined {
		t.Fatalf("status = %s, want DECLINED", after.Status)
	}

	if _, err := svc.Respond(m.ID, domain.MatchSideTutor, true); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("re-respond err = %v, want ErrInvalidTransition", err)
	}
	stored, _ := matches.GetByID(m.ID)
	if stored.Status != domain.MatchStatusDeclined {
		t.Fatalf("declined match mutated to %s", stored.Status)
	}
}

func TestRespondAcceptedMatchRejected(t *testing.T) {
	svc, matches, _, _ := matchingFixture()
	m := &models.Match{TutorMemberID: 1, MenteeMemberID: 2, SubjectID: "MATH", Status: domain.MatchStatusAccepted, AcceptedByTutor: true, AcceptedByMentee: true}
	if err := matches.Create(m); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Respond(m.ID, domain.MatchSideTutor, false); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestRespondNonexistentMatch(t *testing.T) {
	svc, _, _, _ := matchingFixture()
	if _, err := svc.Respond(999, domain.MatchSideTutor, true); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestRecordSession(t *testing.T) {
	svc, matches, _, _ := matchingFixture()
	accepted := &models.Match{TutorMemberID: 1, MenteeMemberID: 2, SubjectID: "MATH", Status: domain.MatchStatusAccepted}
	pending := &models.Match{TutorMemberID: 1, MenteeMemberID: 3, SubjectID: "MATH", Status: domain.MatchStatusPending}
	if err := matches.Create(accepted); err != nil {
		t.Fatal(err)
	}
	if err := matches.Create(pending); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		after, err := svc.RecordSession(accepted.ID)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if after.TotalSessions != i {
			t.Fatalf("total_sessions = %d, want %d", after.TotalSessions, i)
		}
		if after.Status != domain.MatchStatusAccepted {
			t.Fatalf("status changed to %s", after.Status)
		}
	}

	if _, err := svc.RecordSession(pending.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending record err = %v, want ErrInvalidTransition", err)
	}
}

func TestCreateManual(t *testing.T) {
	svc, matches, _, roster := matchingFixture(policy(1, true), policy(2, true))
	tutor := roster.put(models.RosterMember{UserID: 10, InstitutionID: 1, AcademicYear: "2025-2026", CanTutor: true, IsActive: true})
	mentee := roster.put(models.RosterMember{UserID: 20, InstitutionID: 2, AcademicYear: "2025-2026", CanMentee: true, IsActive: true})

	m, err := svc.CreateManual(tutor.ID, mentee.ID, "MATH", "coordinator pairing")
	if err != nil {
		t.Fatalf("create manual: %v", err)
	}
	if m.ProposedBy != domain.ProposedByCoordinator || m.Status != domain.MatchStatusPending {
		t.Fatalf("unexpected match: %+v", m)
	}

	// Same triple again returns the existing match.
	again, err := svc.CreateManual(tutor.ID, mentee.ID, "MATH", "retry")
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if again.ID != m.ID || matches.count() != 1 {
		t.Fatalf("duplicate created: %d matches", matches.count())
	}
}

func TestCreateManualPolicyViolation(t *testing.T) {
	svc, matches, _, roster := matchingFixture(policy(1, true), policy(2, false))
	tutor := roster.put(models.RosterMember{UserID: 10, InstitutionID: 1, AcademicYear: "2025-2026", CanTutor: true, IsActive: true})
	mentee := roster.put(models.RosterMember{UserID: 20, InstitutionID: 2, AcademicYear: "2025-2026", CanMentee: true, IsActive: true})

	if _, err := svc.CreateManual(tutor.ID, mentee.ID, "MATH", ""); !errors.Is(err, domain.ErrPolicyViolation) {
		t.Fatalf("err = %v, want ErrPolicyViolation", err)
	}
	if matches.count() != 0 {
		t.Fatal("match created despite policy violation")
	}
}
