package dto

import (
	"github.com/google/uuid"

	"hackathon-team-api/internal/domain"
)

// InviteStatus is what the join link shows to the caller
type InviteStatus string

const (
	InviteReady         InviteStatus = "READY"
	InviteAlreadyMember InviteStatus = "ALREADY_MEMBER"
	InviteNotInvited    InviteStatus = "NOT_INVITED"
	InviteTeamFull      InviteStatus = "TEAM_FULL"
	InviteDeclined      InviteStatus = "DECLINED"
)

type TeamSummary struct {
	ID          uuid.UUID `json:"id"`
	HackathonID uuid.UUID `json:"hackathonId"`
	Name        string    `json:"name"`
	SizeCurrent int       `json:"sizeCurrent"`
	SizeMax     int       `json:"sizeMax"`
	IsCompleted bool      `json:"isCompleted"`
}

func NewTeamSummary(t *domain.Team) TeamSummary {
	return TeamSummary{
		ID:          t.ID,
		HackathonID: t.HackathonID,
		Name:        t.Name,
		SizeCurrent: t.SizeCurrent,
		SizeMax:     t.SizeMax,
		IsCompleted: t.IsCompleted,
	}
}

type InviteResolution struct {
	Status InviteStatus    `json:"status"`
	Team   TeamSummary     `json:"team"`
	Member *MemberResponse `json:"member,omitempty"`
}
