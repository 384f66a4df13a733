package domain

import "time"

// ParticipationType decides whether a hackathon is entered alone or as a team
type ParticipationType string

const (
	ParticipationIndividual ParticipationType = "INDIVIDUAL"
	ParticipationTeam       ParticipationType = "TEAM"
)

// Hackathon is read-only for this service: size bounds and the registration window
type Hackathon struct {
	BaseModel
	Name                 string            `gorm:"type:varchar(255);not null" json:"name"`
	ParticipationType    ParticipationType `gorm:"type:varchar(20);not null" json:"participation_type"`
	TeamSizeMin          int               `gorm:"not null;default:1" json:"team_size_min"`
	TeamSizeMax          int               `gorm:"not null;default:1" json:"team_size_max"`
	RegistrationDeadline *time.Time        `json:"registration_deadline,omitempty"`
}

func (Hackathon) TableName() string {
	return "hackathons"
}

// IsTeamBased reports whether registrations create teams
func (h *Hackathon) IsTeamBased() bool {
	return h.ParticipationType == ParticipationTeam
}

// RegistrationOpen reports whether now is before the deadline (no deadline means open)
func (h *Hackathon) RegistrationOpen(now time.Time) bool {
	return h.RegistrationDeadline == nil || now.Before(*h.RegistrationDeadline)
}
