package service

import (
	"math"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/models"
	"tutorbridge/pkg/schedule"
)

// Score weights. Subject eligibility is a hard gate worth the base points;
// the rest is availability overlap, online-mode agreement and the
// cross-institution bonus. Max total is 100.
const (
	scoreSubjectBase    = 40
	scoreOverlapMax     = 30
	scoreOnlineMatch    = 15
	scoreCrossInstBonus = 15

	dayWeight  = 0.6
	slotWeight = 0.4
)

// ScorePair computes the 0-100 match score for one tutor-mentee candidate
// pair on one subject. It is a pure function of its inputs: identical
// preference and policy snapshots always produce the identical score.
//
// A nil error with score 0 never happens; exclusions are errors:
// errNotEligible when subject or session type does not intersect, and
// domain.ErrPolicyViolation when the pair spans institutions and either
// side disallows cross-institution matching.
func ScorePair(subjectID string, tutorPref, menteePref *models.MatchingPreference, tutorPolicy, menteePolicy models.Policy) (int, error) {
	if !contains(tutorPref.SubjectSet(), subjectID) || !contains(menteePref.SubjectSet(), subjectID) {
		return 0, errNotEligible
	}
	if !schedule.Intersects(tutorPref.SessionTypeSet(), menteePref.SessionTypeSet()) {
		return 0, errNotEligible
	}

	crossInstitution := tutorPolicy.InstitutionID != menteePolicy.InstitutionID
	if crossInstitution && (!tutorPolicy.AllowCrossInstitution || !menteePolicy.AllowCrossInstitution) {
		return 0, domain.ErrPolicyViolation
	}

	score := scoreSubjectBase

	dayFrac := schedule.SetOverlapFraction(menteePref.DaySet(), tutorPref.DaySet())
	// Stored windows are validated at write time; an unparseable leftover is
	// treated as no stated windows.
	menteeSlots, _ := schedule.ParseWindows(menteePref.AvailableTimeSlots)
	tutorSlots, _ := schedule.ParseWindows(tutorPref.AvailableTimeSlots)
	slotFrac := schedule.OverlapFraction(menteeSlots, tutorSlots)
	score += int(math.Round(scoreOverlapMax * (dayWeight*dayFrac + slotWeight*slotFrac)))

	if tutorPref.OnlineOnly == menteePref.OnlineOnly {
		score += scoreOnlineMatch
	}
	if crossInstitution {
		score += scoreCrossInstBonus
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
