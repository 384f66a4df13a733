package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/metrics"
)

// NotificationEvent is the payload accepted by the notification service
type NotificationEvent struct {
	Type           string            `json:"type"`
	RecipientEmail string            `json:"recipientEmail"`
	TargetUserID   *uuid.UUID        `json:"targetUserId,omitempty"`
	ResourceType   string            `json:"resourceType"`
	ResourceID     uuid.UUID         `json:"resourceId"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	OccurredAt     string            `json:"occurredAt,omitempty"`
}

// DeliveryError is returned when the notification service answered with a non-2xx status
type DeliveryError struct {
	StatusCode int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification service returned status %d", e.StatusCode)
}

// Retryable reports whether the same request may succeed later
func (e *DeliveryError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout
}

// NotificationClient delivers notifications to the notification service.
// Unlike request-path calls it reports failures so the outbox can retry.
type NotificationClient interface {
	SendNotification(ctx context.Context, event NotificationEvent) error
}

type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewNotificationClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	return &notificationClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

func (c *notificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	url := fmt.Sprintf("%s/api/internal/notifications", c.baseURL)

	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(url, http.MethodPost, statusCode, duration, err)

	if err != nil {
		c.logger.Warn("Failed to reach notification service",
			zap.String("type", event.Type),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Notification service returned non-success status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("type", event.Type),
		)
		return &DeliveryError{StatusCode: resp.StatusCode}
	}

	c.logger.Debug("Notification delivered",
		zap.String("type", event.Type),
		zap.String("resource_id", event.ResourceID.String()),
		zap.Duration("duration", duration),
	)
	return nil
}

// ErrNotificationsDisabled is returned when no notification service is configured
var ErrNotificationsDisabled = errors.New("notification service not configured")

// NoOpNotificationClient refuses every notification when no notification
// service is configured, so queued rows end up FAILED rather than SENT.
type NoOpNotificationClient struct {
	logger *zap.Logger
}

func NewNoOpNotificationClient(logger *zap.Logger) NotificationClient {
	return &NoOpNotificationClient{logger: logger}
}

func (c *NoOpNotificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	c.logger.Debug("Notification service disabled, dropping notification", zap.String("type", event.Type))
	return ErrNotificationsDisabled
}
