package domain

const (
	RoleStudent     = "STUDENT"
	RoleCoordinator = "COORDINATOR"
	RoleAdmin       = "ADMIN"
)

const (
	TierFree    = "FREE"
	TierBasic   = "BASIC"
	TierPremium = "PREMIUM"
)

const (
	MatchStatusPending  = "PENDING"
	MatchStatusAccepted = "ACCEPTED"
	MatchStatusDeclined = "DECLINED"
)

const (
	ProposedByAlgorithm   = "ALGORITHM"
	ProposedByCoordinator = "COORDINATOR"
)

const (
	MatchSideTutor  = "TUTOR"
	MatchSideMentee = "MENTEE"
)

const (
	CreditStatusPending  = "PENDING"
	CreditStatusApproved = "APPROVED"
	CreditStatusRejected = "REJECTED"
	CreditStatusCredited = "CREDITED"
)

const (
	BookingStatusCompleted = "COMPLETED"
)

const (
	SessionTypeOneOnOne  = "ONE_ON_ONE"
	SessionTypeGroup     = "GROUP"
	SessionTypeExamPrep  = "EXAM_PREP"
	SessionTypeHomework  = "HOMEWORK_HELP"
)

// Days as stored in available_days columns (comma-separated set).
var Days = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// MatchTerminal reports whether a match status admits no further transitions.
// ACCEPTED matches stay active indefinitely; only DECLINED is closed to responses.
func MatchTerminal(status string) bool {
	return status == MatchStatusDeclined
}

// CreditTerminal reports whether a credit transaction status is final.
func CreditTerminal(status string) bool {
	return status == CreditStatusRejected || status == CreditStatusCredited
}
