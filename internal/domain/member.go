package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MemberStatus is the invitation state of a team member
type MemberStatus string

const (
	MemberPending  MemberStatus = "PENDING"
	MemberAccepted MemberStatus = "ACCEPTED"
	MemberRejected MemberStatus = "REJECTED"
)

// ErrInvalidTransition is returned when a member is moved out of a terminal state
var ErrInvalidTransition = errors.New("invalid member status transition")

// PENDING is the only state with exits; ACCEPTED and REJECTED end in deletion.
var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberPending: {MemberAccepted, MemberRejected},
}

// CanTransitionTo reports whether next is reachable from s
func (s MemberStatus) CanTransitionTo(next MemberStatus) bool {
	for _, allowed := range memberTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Member is a team roster slot. It exists from the moment of invitation;
// UserID stays empty until an account is linked to the invited email.
type Member struct {
	BaseModel
	TeamID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_members_team_id;uniqueIndex:uq_members_team_email" json:"team_id"`
	UserID    *uuid.UUID   `gorm:"type:uuid;index:idx_members_user_id" json:"user_id,omitempty"`
	Email     string       `gorm:"type:varchar(255);not null;uniqueIndex:uq_members_team_email" json:"email"`
	Profile   Profile      `gorm:"embedded" json:"profile"`
	Status    MemberStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_members_status" json:"status"`
	IsLeader  bool         `gorm:"not null;default:false" json:"is_leader"`
	InvitedBy *uuid.UUID   `gorm:"type:uuid" json:"invited_by,omitempty"`
	JoinedAt  *time.Time   `json:"joined_at,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// Transition moves the member to next, stamping JoinedAt on acceptance
func (m *Member) Transition(next MemberStatus, at time.Time) error {
	if !m.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	m.Status = next
	if next == MemberAccepted {
		m.JoinedAt = &at
	}
	return nil
}

// IsLinkedTo reports whether the member row is bound to userID
func (m *Member) IsLinkedTo(userID uuid.UUID) bool {
	return m.UserID != nil && *m.UserID == userID
}
