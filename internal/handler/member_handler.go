package handler

import (
	"errors"
	"net/http"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/middleware"
	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"
	"tutorbridge/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberRepo    *repository.MemberRepository
	matchRepo     *repository.MatchRepository
	enrollmentSvc *service.EnrollmentService
	creditSvc     *service.CreditService
}

func NewMemberHandler(memberRepo *repository.MemberRepository, matchRepo *repository.MatchRepository, enrollmentSvc *service.EnrollmentService, creditSvc *service.CreditService) *MemberHandler {
	return &MemberHandler{memberRepo: memberRepo, matchRepo: matchRepo, enrollmentSvc: enrollmentSvc, creditSvc: creditSvc}
}

// Enroll puts the authenticated user on an institution's roster for the
// current academic year.
func (h *MemberHandler) Enroll(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		InstitutionID uint `json:"institution_id" binding:"required"`
		CanTutor      bool `json:"can_tutor"`
		CanMentee     bool `json:"can_mentee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.CanTutor && !req.CanMentee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of can_tutor, can_mentee required"})
		return
	}
	m, err := h.enrollmentSvc.Enroll(userID, req.InstitutionID, req.CanTutor, req.CanMentee)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enrollment failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMine returns the caller's roster memberships.
func (h *MemberHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.memberRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"memberships": list})
}

// CreditSummary returns balance, year progress and outstanding transaction
// counts for one of the caller's memberships (latest active by default).
func (h *MemberHandler) CreditSummary(c *gin.Context) {
	member := resolveOwnMember(c, h.memberRepo)
	if member == nil {
		return
	}
	summary, err := h.creditSvc.Summary(member.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Matches returns the caller's accepted matches and pending proposals.
func (h *MemberHandler) Matches(c *gin.Context) {
	member := resolveOwnMember(c, h.memberRepo)
	if member == nil {
		return
	}
	list, err := h.matchRepo.ListOpenByMember(member.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	accepted := make([]models.Match, 0)
	pending := make([]models.Match, 0)
	for _, m := range list {
		if m.Status == domain.MatchStatusAccepted {
			accepted = append(accepted, m)
		} else {
			pending = append(pending, m)
		}
	}
	c.JSON(http.StatusOK, gin.H{"member_id": member.ID, "accepted": accepted, "pending": pending})
}
