package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hackathon-team-api/internal/client"
	"hackathon-team-api/internal/domain"
)

// MockOutboxRepository is a mock implementation of OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, entry *domain.NotificationOutbox) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.NotificationOutbox, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.NotificationOutbox), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, next time.Time) error {
	args := m.Called(ctx, id, attempts, lastError, next)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastError string) error {
	args := m.Called(ctx, id, attempts, lastError)
	return args.Error(0)
}

// MockNotificationClient is a mock implementation of NotificationClient
type MockNotificationClient struct {
	mock.Mock
}

func (m *MockNotificationClient) SendNotification(ctx context.Context, event client.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestJob(repo *MockOutboxRepository, notifier *MockNotificationClient) *OutboxJob {
	j := NewOutboxJob(repo, notifier, nil, zap.NewNop(), 10, 3, time.Minute)
	j.now = func() time.Time { return fixedNow }
	return j
}

func outboxEntry(attempts int) *domain.NotificationOutbox {
	return &domain.NotificationOutbox{
		BaseModel:    domain.BaseModel{ID: uuid.New(), CreatedAt: fixedNow.Add(-time.Minute)},
		Kind:         domain.NotificationTeamInvite,
		Recipient:    "b@example.com",
		TeamID:       uuid.New(),
		TemplateData: datatypes.JSON(`{"teamName":"Alpha","joinLink":"https://hack.example.com/x/join-team/y"}`),
		Status:       domain.OutboxPending,
		Attempts:     attempts,
	}
}

func TestOutboxJob_DeliversAndMarksSent(t *testing.T) {
	repo := new(MockOutboxRepository)
	notifier := new(MockNotificationClient)
	entry := outboxEntry(0)

	repo.On("FindDue", mock.Anything, fixedNow, 10).Return([]*domain.NotificationOutbox{entry}, nil)
	notifier.On("SendNotification", mock.Anything, mock.MatchedBy(func(e client.NotificationEvent) bool {
		return e.Type == "TEAM_INVITE" &&
			e.RecipientEmail == "b@example.com" &&
			e.ResourceID == entry.TeamID &&
			e.Metadata["teamName"] == "Alpha"
	})).Return(nil)
	repo.On("MarkSent", mock.Anything, entry.ID, fixedNow).Return(nil)

	sent, failed := newTestJob(repo, notifier).RunOnce(context.Background())

	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestOutboxJob_RetriesTransientFailures(t *testing.T) {
	repo := new(MockOutboxRepository)
	notifier := new(MockNotificationClient)
	entry := outboxEntry(1)

	repo.On("FindDue", mock.Anything, fixedNow, 10).Return([]*domain.NotificationOutbox{entry}, nil)
	notifier.On("SendNotification", mock.Anything, mock.Anything).Return(&client.DeliveryError{StatusCode: 503})
	repo.On("MarkRetry", mock.Anything, entry.ID, 2, mock.AnythingOfType("string"), fixedNow.Add(2*time.Minute)).Return(nil)

	sent, failed := newTestJob(repo, notifier).RunOnce(context.Background())

	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOutboxJob_GivesUp(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		sendErr  error
	}{
		{"client error is final", 0, &client.DeliveryError{StatusCode: 400}},
		{"attempts exhausted", 2, errors.New("connection refused")},
		{"notification service disabled", 0, client.ErrNotificationsDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOutboxRepository)
			notifier := new(MockNotificationClient)
			entry := outboxEntry(tt.attempts)

			repo.On("FindDue", mock.Anything, fixedNow, 10).Return([]*domain.NotificationOutbox{entry}, nil)
			notifier.On("SendNotification", mock.Anything, mock.Anything).Return(tt.sendErr)
			repo.On("MarkFailed", mock.Anything, entry.ID, tt.attempts+1, tt.sendErr.Error()).Return(nil)

			_, failed := newTestJob(repo, notifier).RunOnce(context.Background())

			assert.Equal(t, 1, failed)
			repo.AssertExpectations(t)
		})
	}
}

func TestOutboxJob_BadTemplateDataIsFinal(t *testing.T) {
	repo := new(MockOutboxRepository)
	notifier := new(MockNotificationClient)
	entry := outboxEntry(0)
	entry.TemplateData = datatypes.JSON(`[1,2,3]`)

	repo.On("FindDue", mock.Anything, fixedNow, 10).Return([]*domain.NotificationOutbox{entry}, nil)
	repo.On("MarkFailed", mock.Anything, entry.ID, 1, mock.AnythingOfType("string")).Return(nil)

	_, failed := newTestJob(repo, notifier).RunOnce(context.Background())

	assert.Equal(t, 1, failed)
	notifier.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
}

func TestOutboxJob_LoadFailure(t *testing.T) {
	repo := new(MockOutboxRepository)
	notifier := new(MockNotificationClient)
	repo.On("FindDue", mock.Anything, fixedNow, 10).Return(nil, errors.New("db down"))

	sent, failed := newTestJob(repo, notifier).RunOnce(context.Background())

	assert.Zero(t, sent)
	assert.Zero(t, failed)
	notifier.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything)
}

type countingJob struct {
	runs int32
}

func (c *countingJob) Run() {
	atomic.AddInt32(&c.runs, 1)
}

func TestNewScheduler(t *testing.T) {
	_, err := NewScheduler("not a schedule", &countingJob{}, zap.NewNop())
	assert.Error(t, err)

	job := &countingJob{}
	c, err := NewScheduler("@every 1s", job, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	c.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&job.runs) > 0 }, 3*time.Second, 50*time.Millisecond)
	<-c.Stop().Done()
}
