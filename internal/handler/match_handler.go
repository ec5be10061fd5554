package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/middleware"
	"tutorbridge/internal/repository"
	"tutorbridge/internal/service"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchingSvc *service.MatchingService
	matchRepo   *repository.MatchRepository
	memberRepo  *repository.MemberRepository
}

func NewMatchHandler(matchingSvc *service.MatchingService, matchRepo *repository.MatchRepository, memberRepo *repository.MemberRepository) *MatchHandler {
	return &MatchHandler{matchingSvc: matchingSvc, matchRepo: matchRepo, memberRepo: memberRepo}
}

// Propose runs the scored proposal batch (coordinator; also invoked
// periodically by an external scheduler hitting this route).
func (h *MatchHandler) Propose(c *gin.Context) {
	subjectID := c.Query("subject_id")
	var institutionID uint
	if raw := c.Query("institution_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution_id"})
			return
		}
		institutionID = uint(id)
	}
	created, err := h.matchingSvc.ProposeMatches(subjectID, institutionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "proposal run failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposed": created, "count": len(created)})
}

// CreateManual creates a coordinator-proposed match directly.
func (h *MatchHandler) CreateManual(c *gin.Context) {
	var req struct {
		TutorMemberID  uint   `json:"tutor_member_id" binding:"required"`
		MenteeMemberID uint   `json:"mentee_member_id" binding:"required"`
		SubjectID      string `json:"subject_id" binding:"required"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.matchingSvc.CreateManual(req.TutorMemberID, req.MenteeMemberID, req.SubjectID, req.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrPolicyViolation) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "match creation failed"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Respond records an accept/decline from the caller's side of the match.
// The side is derived from which end of the match the caller occupies;
// a coordinator may override it with an explicit side field.
func (h *MatchHandler) Respond(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	var req struct {
		Accept *bool  `json:"accept" binding:"required"`
		Side   string `json:"side" binding:"omitempty,oneof=TUTOR MENTEE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	side := req.Side
	if side == "" || middleware.GetRole(c) == domain.RoleStudent {
		side = h.callerSide(c, uint(matchID))
		if side == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a party to this match"})
			return
		}
	}
	m, err := h.matchingSvc.Respond(uint(matchID), side, *req.Accept)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "response failed"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// RecordSession bumps the session counter of an accepted match.
func (h *MatchHandler) RecordSession(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	m, err := h.matchingSvc.RecordSession(uint(matchID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session record failed"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// callerSide returns TUTOR or MENTEE when one of the caller's memberships is
// a party to the match, else "".
func (h *MatchHandler) callerSide(c *gin.Context, matchID uint) string {
	m, err := h.matchRepo.GetByID(matchID)
	if err != nil {
		return ""
	}
	memberships, err := h.memberRepo.ListByUserID(middleware.GetUserID(c))
	if err != nil {
		return ""
	}
	for _, mem := range memberships {
		if mem.ID == m.TutorMemberID {
			return domain.MatchSideTutor
		}
		if mem.ID == m.MenteeMemberID {
			return domain.MatchSideMentee
		}
	}
	return ""
}
