package middleware

import (
	"net/http"

	"tutorbridge/internal/domain"

	"github.com/gin-gonic/gin"
)

// CoordinatorRequired gates review and manual-match routes: the identity
// service must have issued a COORDINATOR (or ADMIN) role claim.
func CoordinatorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		r := role.(string)
		if r != domain.RoleCoordinator && r != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "coordinator access required"})
			return
		}
		c.Next()
	}
}

// AdminRequired gates institution and partnership administration.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
