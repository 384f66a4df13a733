package dto

import (
	"time"

	"github.com/google/uuid"

	"hackathon-team-api/internal/domain"
)

// TeamRequest is required when registering for a team hackathon
type TeamRequest struct {
	Name                string `json:"name" binding:"required,max=255"`
	Description         string `json:"description"`
	LookingForTeammates bool   `json:"lookingForTeammates"`
}

type RegisterRequest struct {
	Profile ProfileRequest `json:"profile" binding:"required"`
	Team    *TeamRequest   `json:"team"`
}

type RegistrationResponse struct {
	ID          uuid.UUID       `json:"id"`
	HackathonID uuid.UUID       `json:"hackathonId"`
	UserID      uuid.UUID       `json:"userId"`
	TeamID      *uuid.UUID      `json:"teamId,omitempty"`
	Email       string          `json:"email"`
	Profile     ProfileResponse `json:"profile"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewRegistrationResponse(r *domain.Registration) *RegistrationResponse {
	return &RegistrationResponse{
		ID:          r.ID,
		HackathonID: r.HackathonID,
		UserID:      r.UserID,
		TeamID:      r.TeamID,
		Email:       r.Email,
		Profile:     NewProfileResponse(r.Profile),
		CreatedAt:   r.CreatedAt,
	}
}
