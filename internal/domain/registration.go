package domain

import "github.com/google/uuid"

// Registration is the authoritative record that a user participates in a
// hackathon. At most one exists per (hackathon, user).
type Registration struct {
	BaseModel
	HackathonID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_registrations_hackathon_user" json:"hackathon_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_registrations_hackathon_user" json:"user_id"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index:idx_registrations_team_id" json:"team_id,omitempty"`
	Email       string     `gorm:"type:varchar(255);not null" json:"email"`
	Profile     Profile    `gorm:"embedded" json:"profile"`
}

func (Registration) TableName() string {
	return "registrations"
}

// IsForTeam reports whether the registration was made through teamID
func (r *Registration) IsForTeam(teamID uuid.UUID) bool {
	return r.TeamID != nil && *r.TeamID == teamID
}

// NewRegistrationFromMember copies the member's identity data verbatim
func NewRegistrationFromMember(hackathonID, userID uuid.UUID, m *Member) *Registration {
	teamID := m.TeamID
	return &Registration{
		HackathonID: hackathonID,
		UserID:      userID,
		TeamID:      &teamID,
		Email:       m.Email,
		Profile:     m.Profile,
	}
}
