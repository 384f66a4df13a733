package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/repository"
)

// Reconciler recomputes a team's size from its accepted members
type Reconciler interface {
	Reconcile(ctx context.Context, teamID uuid.UUID) (int, error)
}

type reconcilerImpl struct {
	teamRepo repository.TeamRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewReconciler(teamRepo repository.TeamRepository, m *metrics.Metrics, logger *zap.Logger) Reconciler {
	return &reconcilerImpl{
		teamRepo: teamRepo,
		metrics:  m,
		logger:   logger,
	}
}

// Reconcile is idempotent and safe to call after any membership change
func (r *reconcilerImpl) Reconcile(ctx context.Context, teamID uuid.UUID) (int, error) {
	previous, current, err := r.teamRepo.ReconcileSize(ctx, teamID)
	if err != nil {
		return 0, err
	}

	if previous != current {
		r.metrics.IncrementTeamSizeDrift()
		r.logger.Warn("Team size corrected",
			zap.String("team_id", teamID.String()),
			zap.Int("stored", previous),
			zap.Int("accepted", current),
		)
	}
	return current, nil
}
