package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/cache"
	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/notify"
)

// sideEffects runs the post-commit work shared by every coordinator. Failures
// are logged and never undo the membership change.
type sideEffects struct {
	dispatcher notify.Dispatcher
	teamCache  cache.TeamCache
	logger     *zap.Logger
}

func newSideEffects(dispatcher notify.Dispatcher, teamCache cache.TeamCache, logger *zap.Logger) sideEffects {
	if dispatcher == nil {
		dispatcher = notify.NoOpDispatcher{}
	}
	if teamCache == nil {
		teamCache = cache.NoOpTeamCache{}
	}
	return sideEffects{dispatcher: dispatcher, teamCache: teamCache, logger: logger}
}

func (s sideEffects) notify(ctx context.Context, msg notify.Message) {
	if err := s.dispatcher.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to queue notification",
			zap.String("kind", string(msg.Kind)),
			zap.String("team_id", msg.TeamID.String()),
			zap.Error(err),
		)
	}
}

func (s sideEffects) notifyMember(ctx context.Context, kind domain.NotificationKind, team *domain.Team, m *domain.Member, data map[string]string) {
	if data == nil {
		data = map[string]string{}
	}
	data["teamName"] = team.Name
	data["teamId"] = team.ID.String()
	data["hackathonId"] = team.HackathonID.String()
	data["fullName"] = m.Profile.FullName

	s.notify(ctx, notify.Message{
		Kind:            kind,
		Recipient:       m.Email,
		RecipientUserID: m.UserID,
		TeamID:          team.ID,
		TemplateData:    data,
	})
}

func (s sideEffects) invalidate(ctx context.Context, teamID uuid.UUID) {
	s.teamCache.Invalidate(ctx, teamID)
}
