package dto

import "hackathon-team-api/internal/domain"

// ProfileRequest carries the identity data a participant submits
type ProfileRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Mobile          string `json:"mobile"`
	Organization    string `json:"organization"`
	ParticipantType string `json:"participantType"`
	City            string `json:"city"`
}

func (p ProfileRequest) ToInput() domain.ProfileInput {
	return domain.ProfileInput{
		FullName:        p.FullName,
		Mobile:          p.Mobile,
		Organization:    p.Organization,
		ParticipantType: p.ParticipantType,
		City:            p.City,
	}
}

type ProfileResponse struct {
	FullName        string `json:"fullName"`
	Mobile          string `json:"mobile,omitempty"`
	Organization    string `json:"organization,omitempty"`
	ParticipantType string `json:"participantType"`
	City            string `json:"city,omitempty"`
}

func NewProfileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		FullName:        p.FullName,
		Mobile:          p.Mobile,
		Organization:    p.Organization,
		ParticipantType: string(p.ParticipantType),
		City:            p.City,
	}
}
