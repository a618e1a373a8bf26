package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lbhackney-it/apprenticeships-api/internal/middleware"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorID returns the authenticated user's ID for audit attribution, or ""
// when the route ran without credentials.
func actorID(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
