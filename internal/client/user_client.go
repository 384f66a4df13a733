package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/metrics"
)

// UserAccount is the subset of a user-service account this service needs
type UserAccount struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
}

// UserClient looks up accounts in the user service
type UserClient interface {
	// FindUserByEmail returns nil, nil when no account uses email
	FindUserByEmail(ctx context.Context, email string) (*UserAccount, error)
}

type userClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewUserClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) UserClient {
	return &userClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

func (c *userClient) FindUserByEmail(ctx context.Context, email string) (*UserAccount, error) {
	endpoint := fmt.Sprintf("%s/api/internal/users/by-email?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(endpoint, http.MethodGet, statusCode, duration, err)

	if err != nil {
		return nil, fmt.Errorf("failed to call user service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	// user-service wraps payloads in {"data": ...}
	var envelope struct {
		Data UserAccount `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	if envelope.Data.ID == uuid.Nil {
		return nil, nil
	}
	return &envelope.Data, nil
}

// NoOpUserClient never finds an account
type NoOpUserClient struct{}

func (NoOpUserClient) FindUserByEmail(ctx context.Context, email string) (*UserAccount, error) {
	return nil, nil
}
