package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/middleware"
	"github.com/dtp-gov/portal-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// statusFilter reads the optional ?status= query. The service layer decides
// whether the actor may actually see non-published content.
func statusFilter(c *gin.Context) *models.ContentStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	status := models.ContentStatus(raw)
	return &status
}
