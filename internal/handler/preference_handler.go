package handler

import (
	"net/http"
	"strings"

	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"
	"tutorbridge/pkg/schedule"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	prefRepo   *repository.PreferenceRepository
	memberRepo *repository.MemberRepository
}

func NewPreferenceHandler(prefRepo *repository.PreferenceRepository, memberRepo *repository.MemberRepository) *PreferenceHandler {
	return &PreferenceHandler{prefRepo: prefRepo, memberRepo: memberRepo}
}

// Upsert writes the caller's matching preference. Set fields arrive as
// arrays and are stored comma-separated uppercase; time slots are validated
// before they can reach the scorer.
func (h *PreferenceHandler) Upsert(c *gin.Context) {
	member := resolveOwnMember(c, h.memberRepo)
	if member == nil {
		return
	}
	var req struct {
		Subjects           []string `json:"subjects" binding:"required,min=1"`
		SessionTypes       []string `json:"session_types"`
		MaxSessionsPerWeek int      `json:"max_sessions_per_week" binding:"min=0"`
		AvailableDays      []string `json:"available_days"`
		AvailableTimeSlots string   `json:"available_time_slots"`
		OnlineOnly         bool     `json:"online_only"`
		PreferRemote       bool     `json:"prefer_remote_counterpart"`
		IsActive           *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := schedule.ParseWindows(req.AvailableTimeSlots); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.MatchingPreference{
		MemberID:           member.ID,
		Subjects:           joinSet(req.Subjects),
		SessionTypes:       joinSet(req.SessionTypes),
		MaxSessionsPerWeek: req.MaxSessionsPerWeek,
		AvailableDays:      joinSet(req.AvailableDays),
		AvailableTimeSlots: strings.TrimSpace(req.AvailableTimeSlots),
		OnlineOnly:         req.OnlineOnly,
		PreferRemote:       req.PreferRemote,
		IsActive:           req.IsActive == nil || *req.IsActive,
	}
	if err := h.prefRepo.Upsert(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preference update failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetMine returns the caller's preference, if any.
func (h *PreferenceHandler) GetMine(c *gin.Context) {
	member := resolveOwnMember(c, h.memberRepo)
	if member == nil {
		return
	}
	p, err := h.prefRepo.GetByMemberID(member.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no preference set"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func joinSet(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}
