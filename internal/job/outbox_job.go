package job

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"hackathon-team-api/internal/client"
	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/repository"
)

// OutboxJob delivers queued notifications to the notification service
type OutboxJob struct {
	outboxRepo  repository.OutboxRepository
	notifier    client.NotificationClient
	metrics     *metrics.Metrics
	logger      *zap.Logger
	batchSize   int
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

// NewOutboxJob creates a new OutboxJob instance
func NewOutboxJob(
	outboxRepo repository.OutboxRepository,
	notifier client.NotificationClient,
	m *metrics.Metrics,
	logger *zap.Logger,
	batchSize int,
	maxAttempts int,
	backoff time.Duration,
) *OutboxJob {
	return &OutboxJob{
		outboxRepo:  outboxRepo,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run implements cron.Job
func (j *OutboxJob) Run() {
	j.RunOnce(context.Background())
}

// RunOnce delivers one batch of due notifications and reports how many were
// sent and how many were given up on.
func (j *OutboxJob) RunOnce(ctx context.Context) (sent, failed int) {
	now := j.now()
	due, err := j.outboxRepo.FindDue(ctx, now, j.batchSize)
	if err != nil {
		j.logger.Error("Failed to load due notifications", zap.Error(err))
		return 0, 0
	}
	if len(due) == 0 {
		return 0, 0
	}

	j.logger.Info("Delivering notifications", zap.Int("count", len(due)))

	retried := 0
	for _, entry := range due {
		switch j.deliver(ctx, entry, now) {
		case domain.OutboxSent:
			sent++
		case domain.OutboxFailed:
			failed++
		default:
			retried++
		}
	}

	j.logger.Info("Notification delivery completed",
		zap.Int("sent", sent),
		zap.Int("retried", retried),
		zap.Int("failed", failed),
	)
	return sent, failed
}

func (j *OutboxJob) deliver(ctx context.Context, entry *domain.NotificationOutbox, now time.Time) domain.OutboxStatus {
	kind := string(entry.Kind)
	event, err := toEvent(entry)
	if err == nil {
		err = j.notifier.SendNotification(ctx, event)
	}

	if err == nil {
		if markErr := j.outboxRepo.MarkSent(ctx, entry.ID, now); markErr != nil {
			j.logger.Error("Failed to mark notification sent",
				zap.String("outbox_id", entry.ID.String()),
				zap.Error(markErr),
			)
		}
		j.metrics.RecordNotification(kind, "sent")
		return domain.OutboxSent
	}

	attempts := entry.Attempts + 1
	if !retryable(err) || attempts >= j.maxAttempts {
		if markErr := j.outboxRepo.MarkFailed(ctx, entry.ID, attempts, err.Error()); markErr != nil {
			j.logger.Error("Failed to mark notification failed",
				zap.String("outbox_id", entry.ID.String()),
				zap.Error(markErr),
			)
		}
		j.metrics.RecordNotification(kind, "failed")
		j.logger.Warn("Notification dropped",
			zap.String("outbox_id", entry.ID.String()),
			zap.String("kind", kind),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return domain.OutboxFailed
	}

	next := now.Add(j.backoff * time.Duration(attempts))
	if markErr := j.outboxRepo.MarkRetry(ctx, entry.ID, attempts, err.Error(), next); markErr != nil {
		j.logger.Error("Failed to schedule notification retry",
			zap.String("outbox_id", entry.ID.String()),
			zap.Error(markErr),
		)
	}
	j.metrics.RecordNotification(kind, "retried")
	return domain.OutboxPending
}

// retryable treats transport errors as transient; 4xx answers and a missing
// notification service are final
func retryable(err error) bool {
	if errors.Is(err, client.ErrNotificationsDisabled) {
		return false
	}
	var dErr *client.DeliveryError
	if errors.As(err, &dErr) {
		return dErr.Retryable()
	}
	var pErr *payloadError
	return !errors.As(err, &pErr)
}

type payloadError struct {
	err error
}

func (e *payloadError) Error() string {
	return "invalid template data: " + e.err.Error()
}

func (e *payloadError) Unwrap() error {
	return e.err
}

func toEvent(entry *domain.NotificationOutbox) (client.NotificationEvent, error) {
	metadata := map[string]string{}
	if len(entry.TemplateData) > 0 {
		if err := json.Unmarshal(entry.TemplateData, &metadata); err != nil {
			return client.NotificationEvent{}, &payloadError{err: err}
		}
	}

	return client.NotificationEvent{
		Type:           string(entry.Kind),
		RecipientEmail: entry.Recipient,
		TargetUserID:   entry.RecipientUserID,
		ResourceType:   "team",
		ResourceID:     entry.TeamID,
		Metadata:       metadata,
		OccurredAt:     entry.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
