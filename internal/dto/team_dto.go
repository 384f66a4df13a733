package dto

import (
	"time"

	"github.com/google/uuid"

	"hackathon-team-api/internal/domain"
)

type AddMemberRequest struct {
	Email   string         `json:"email" binding:"required"`
	Profile ProfileRequest `json:"profile" binding:"required"`
}

type UpdateMemberRequest struct {
	Profile ProfileRequest `json:"profile" binding:"required"`
}

type MemberResponse struct {
	ID       uuid.UUID       `json:"id"`
	TeamID   uuid.UUID       `json:"teamId"`
	UserID   *uuid.UUID      `json:"userId,omitempty"`
	Email    string          `json:"email"`
	Profile  ProfileResponse `json:"profile"`
	Status   string          `json:"status"`
	IsLeader bool            `json:"isLeader"`
	JoinedAt *time.Time      `json:"joinedAt,omitempty"`
}

func NewMemberResponse(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Email:    m.Email,
		Profile:  NewProfileResponse(m.Profile),
		Status:   string(m.Status),
		IsLeader: m.IsLeader,
		JoinedAt: m.JoinedAt,
	}
}

type TeamResponse struct {
	ID                  uuid.UUID        `json:"id"`
	HackathonID         uuid.UUID        `json:"hackathonId"`
	LeaderUserID        uuid.UUID        `json:"leaderUserId"`
	Name                string           `json:"name"`
	Description         string           `json:"description,omitempty"`
	SizeCurrent         int              `json:"sizeCurrent"`
	SizeMax             int              `json:"sizeMax"`
	LookingForTeammates bool             `json:"lookingForTeammates"`
	IsCompleted         bool             `json:"isCompleted"`
	CompletedAt         *time.Time       `json:"completedAt,omitempty"`
	Members             []MemberResponse `json:"members"`
}

// NewTeamResponse maps a team and whatever members were loaded with it
func NewTeamResponse(t *domain.Team) *TeamResponse {
	resp := &TeamResponse{
		ID:                  t.ID,
		HackathonID:         t.HackathonID,
		LeaderUserID:        t.LeaderUserID,
		Name:                t.Name,
		Description:         t.Description,
		SizeCurrent:         t.SizeCurrent,
		SizeMax:             t.SizeMax,
		LookingForTeammates: t.LookingForTeammates,
		IsCompleted:         t.IsCompleted,
		CompletedAt:         t.CompletedAt,
		Members:             make([]MemberResponse, 0, len(t.Members)),
	}
	for i := range t.Members {
		resp.Members = append(resp.Members, *NewMemberResponse(&t.Members[i]))
	}
	return resp
}
