// Package notify is the boundary between membership changes and outbound
// notifications. Sending only records the notification; delivery happens
// later and never affects the change that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/repository"
)

// Message is one notification to one recipient
type Message struct {
	Kind            domain.NotificationKind
	Recipient       string
	RecipientUserID *uuid.UUID
	TeamID          uuid.UUID
	TemplateData    map[string]string
}

// Dispatcher accepts notifications for delivery
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

type outboxDispatcher struct {
	repo    repository.OutboxRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOutboxDispatcher stores messages in the notification outbox
func NewOutboxDispatcher(repo repository.OutboxRepository, logger *zap.Logger, m *metrics.Metrics) Dispatcher {
	return &outboxDispatcher{
		repo:    repo,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (d *outboxDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.Recipient == "" {
		return fmt.Errorf("notification %s has no recipient", msg.Kind)
	}

	data := msg.TemplateData
	if data == nil {
		data = map[string]string{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode template data: %w", err)
	}

	entry := &domain.NotificationOutbox{
		Kind:            msg.Kind,
		Recipient:       msg.Recipient,
		RecipientUserID: msg.RecipientUserID,
		TeamID:          msg.TeamID,
		TemplateData:    datatypes.JSON(payload),
		Status:          domain.OutboxPending,
		NextAttemptAt:   d.now(),
	}
	if err := d.repo.Create(ctx, entry); err != nil {
		d.metrics.RecordNotification(string(msg.Kind), "queue_failed")
		return fmt.Errorf("failed to queue notification: %w", err)
	}

	d.metrics.RecordNotification(string(msg.Kind), "queued")
	d.logger.Debug("Notification queued",
		zap.String("kind", string(msg.Kind)),
		zap.String("team_id", msg.TeamID.String()),
		zap.String("outbox_id", entry.ID.String()),
	)
	return nil
}

// NoOpDispatcher discards every message
type NoOpDispatcher struct{}

func (NoOpDispatcher) Send(ctx context.Context, msg Message) error {
	return nil
}

// JoinLink builds the invite URL /{hackathonId}/join-team/{teamId}
func JoinLink(baseURL string, hackathonID, teamID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/join-team/%s", strings.TrimRight(baseURL, "/"), hackathonID, teamID)
}
