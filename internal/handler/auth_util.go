package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/middleware"
	"hackathon-team-api/internal/response"
)

// currentIdentity reads the caller set by middleware.Auth. It writes a 401
// and returns false when there is none.
func currentIdentity(c *gin.Context) (domain.Identity, bool) {
	raw, exists := c.Get(middleware.ContextKeyUserID)
	userID, ok := raw.(uuid.UUID)
	if !exists || !ok || userID == uuid.Nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return domain.Identity{}, false
	}

	return domain.Identity{
		UserID:        userID,
		Email:         c.GetString(middleware.ContextKeyUserEmail),
		EmailVerified: c.GetBool(middleware.ContextKeyEmailVerified),
	}, true
}

// uuidParam parses a path parameter, writing a 400 on failure
func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
