package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/dto"
)

// TeamCache keeps rendered team views. Every write path invalidates the
// team it touched, so a stale entry lives at most until its TTL.
type TeamCache interface {
	Get(ctx context.Context, teamID uuid.UUID) (*dto.TeamResponse, bool)
	Set(ctx context.Context, team *dto.TeamResponse)
	Invalidate(ctx context.Context, teamID uuid.UUID)
}

// Recorder observes cache lookups
type Recorder interface {
	RecordTeamCache(result string)
}

type redisTeamCache struct {
	client   *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
	recorder Recorder
}

// NewRedisTeamCache returns a cache backed by client. A nil client yields a
// cache that always misses.
func NewRedisTeamCache(client *redis.Client, ttl time.Duration, logger *zap.Logger, recorder Recorder) TeamCache {
	if client == nil {
		return NoOpTeamCache{}
	}
	return &redisTeamCache{client: client, ttl: ttl, logger: logger, recorder: recorder}
}

func teamKey(teamID uuid.UUID) string {
	return fmt.Sprintf("team:view:%s", teamID)
}

func (c *redisTeamCache) Get(ctx context.Context, teamID uuid.UUID) (*dto.TeamResponse, bool) {
	raw, err := c.client.Get(ctx, teamKey(teamID)).Bytes()
	if err == redis.Nil {
		c.record("miss")
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to read team cache", zap.String("team_id", teamID.String()), zap.Error(err))
		c.record("error")
		return nil, false
	}

	var team dto.TeamResponse
	if err := json.Unmarshal(raw, &team); err != nil {
		c.logger.Warn("Discarding corrupt team cache entry", zap.String("team_id", teamID.String()), zap.Error(err))
		c.Invalidate(ctx, teamID)
		c.record("error")
		return nil, false
	}
	c.record("hit")
	return &team, true
}

func (c *redisTeamCache) Set(ctx context.Context, team *dto.TeamResponse) {
	raw, err := json.Marshal(team)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, teamKey(team.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write team cache", zap.String("team_id", team.ID.String()), zap.Error(err))
	}
}

func (c *redisTeamCache) Invalidate(ctx context.Context, teamID uuid.UUID) {
	if err := c.client.Del(ctx, teamKey(teamID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate team cache", zap.String("team_id", teamID.String()), zap.Error(err))
	}
}

func (c *redisTeamCache) record(result string) {
	if c.recorder != nil {
		c.recorder.RecordTeamCache(result)
	}
}

// NoOpTeamCache is used when redis is not configured
type NoOpTeamCache struct{}

func (NoOpTeamCache) Get(ctx context.Context, teamID uuid.UUID) (*dto.TeamResponse, bool) {
	return nil, false
}

func (NoOpTeamCache) Set(ctx context.Context, team *dto.TeamResponse) {}

func (NoOpTeamCache) Invalidate(ctx context.Context, teamID uuid.UUID) {}
