package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
)

// OutboxRepository stores notifications awaiting delivery
type OutboxRepository interface {
	Create(ctx context.Context, entry *domain.NotificationOutbox) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.NotificationOutbox, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, next time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastError string) error
}

type outboxRepositoryImpl struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepositoryImpl{db: db}
}

func (r *outboxRepositoryImpl) Create(ctx context.Context, entry *domain.NotificationOutbox) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindDue returns pending entries whose next attempt time has passed, oldest first
func (r *outboxRepositoryImpl) FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.NotificationOutbox, error) {
	var entries []*domain.NotificationOutbox
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", domain.OutboxPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *outboxRepositoryImpl) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   domain.OutboxSent,
			"sent_at":  at,
			"attempts": gorm.Expr("attempts + 1"),
		}).Error
}

func (r *outboxRepositoryImpl) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, next time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        attempts,
			"last_error":      lastError,
			"next_attempt_at": next,
		}).Error
}

func (r *outboxRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastError string) error {
	return r.db.WithContext(ctx).Model(&domain.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.OutboxFailed,
			"attempts":   attempts,
			"last_error": lastError,
		}).Error
}
