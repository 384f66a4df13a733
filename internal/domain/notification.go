package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationKind names a notification template
type NotificationKind string

const (
	NotificationTeamInvite    NotificationKind = "TEAM_INVITE"
	NotificationTeamRemoval   NotificationKind = "TEAM_REMOVAL"
	NotificationTeamCompleted NotificationKind = "TEAM_COMPLETED"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

// NotificationOutbox is a notification recorded after a committed membership
// change and delivered later by the outbox job.
type NotificationOutbox struct {
	BaseModel
	Kind            NotificationKind `gorm:"type:varchar(40);not null" json:"kind"`
	Recipient       string           `gorm:"type:varchar(255);not null" json:"recipient"`
	RecipientUserID *uuid.UUID       `gorm:"type:uuid" json:"recipient_user_id,omitempty"`
	TeamID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_outbox_team_id" json:"team_id"`
	TemplateData    datatypes.JSON   `json:"template_data"`
	Status          OutboxStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_outbox_status_next,priority:1" json:"status"`
	Attempts        int              `gorm:"not null;default:0" json:"attempts"`
	LastError       string           `gorm:"type:text" json:"last_error,omitempty"`
	NextAttemptAt   time.Time        `gorm:"not null;index:idx_outbox_status_next,priority:2" json:"next_attempt_at"`
	SentAt          *time.Time       `json:"sent_at,omitempty"`
}

func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
