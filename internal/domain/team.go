package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team is a group registered together for one hackathon.
// SizeCurrent always equals the number of ACCEPTED members.
type Team struct {
	BaseModel
	HackathonID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_teams_hackathon_id;uniqueIndex:uq_teams_hackathon_name" json:"hackathon_id"`
	LeaderUserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_teams_leader_user_id" json:"leader_user_id"`
	Name                string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_teams_hackathon_name" json:"name"`
	Description         string     `gorm:"type:text" json:"description"`
	SizeCurrent         int        `gorm:"not null;default:0" json:"size_current"`
	SizeMax             int        `gorm:"not null" json:"size_max"`
	LookingForTeammates bool       `gorm:"not null;default:false" json:"looking_for_teammates"`
	IsCompleted         bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	Members             []Member   `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// IsFull reports whether no further member can be accepted
func (t *Team) IsFull() bool {
	return t.SizeCurrent >= t.SizeMax
}

// IsLeader reports whether userID leads the team
func (t *Team) IsLeader(userID uuid.UUID) bool {
	return t.LeaderUserID == userID
}
