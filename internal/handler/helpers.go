package handler

import (
	"net/http"
	"strconv"

	"tutorbridge/internal/middleware"
	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"

	"github.com/gin-gonic/gin"
)

// resolveOwnMember picks the caller's roster membership: an explicit
// ?member_id= (verified to belong to them) or the most recent active one.
// Writes the error response itself and returns nil on failure.
func resolveOwnMember(c *gin.Context, memberRepo *repository.MemberRepository) *models.RosterMember {
	userID := middleware.GetUserID(c)
	if raw := c.Query("member_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member_id"})
			return nil
		}
		m, err := memberRepo.GetByID(uint(id))
		if err != nil || m.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "membership not found"})
			return nil
		}
		return m
	}
	list, err := memberRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership lookup failed"})
		return nil
	}
	for i := range list {
		if list[i].IsActive {
			return &list[i]
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no active membership"})
	return nil
}
