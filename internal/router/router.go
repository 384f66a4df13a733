package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hackathon-team-api/internal/cache"
	"hackathon-team-api/internal/client"
	"hackathon-team-api/internal/database"
	"hackathon-team-api/internal/handler"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/middleware"
	"hackathon-team-api/internal/notify"
	"hackathon-team-api/internal/repository"
	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics

	// Redis is optional; without it team views are read from the database every time
	Redis        *redis.Client
	TeamCacheTTL time.Duration

	UserClient           client.UserClient
	JoinLinkBaseURL      string
	RequireVerifiedEmail bool
}

// Setup sets up the router with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health checks and metrics live at the root so scrapers do not depend on BasePath
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", readiness(cfg.DB))

	// Repositories
	hackathonRepo := repository.NewHackathonRepository(cfg.DB)
	teamRepo := repository.NewTeamRepository(cfg.DB)
	memberRepo := repository.NewMemberRepository(cfg.DB)
	registrationRepo := repository.NewRegistrationRepository(cfg.DB)
	outboxRepo := repository.NewOutboxRepository(cfg.DB)

	// Supporting infrastructure
	dispatcher := notify.NewOutboxDispatcher(outboxRepo, cfg.Logger, cfg.Metrics)
	teamCache := cache.NewRedisTeamCache(cfg.Redis, cfg.TeamCacheTTL, cfg.Logger, cfg.Metrics)
	reconciler := service.NewReconciler(teamRepo, cfg.Metrics, cfg.Logger)

	// Services
	registrationService := service.NewRegistrationService(
		hackathonRepo, teamRepo, memberRepo, registrationRepo,
		dispatcher, teamCache, cfg.Metrics, cfg.Logger,
	)
	teamMemberService := service.NewTeamMemberService(
		teamRepo, memberRepo, registrationRepo, reconciler, cfg.UserClient,
		dispatcher, teamCache, cfg.JoinLinkBaseURL, cfg.Metrics, cfg.Logger,
	)
	inviteService := service.NewInviteService(
		hackathonRepo, teamRepo, memberRepo, registrationRepo, reconciler,
		teamCache, cfg.RequireVerifiedEmail, cfg.Metrics, cfg.Logger,
	)

	// Handlers
	registrationHandler := handler.NewRegistrationHandler(registrationService, cfg.Logger)
	teamHandler := handler.NewTeamHandler(registrationService, teamMemberService, cfg.Logger)
	inviteHandler := handler.NewInviteHandler(inviteService, cfg.Logger)

	api := r.Group(cfg.BasePath)
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		hackathons := api.Group("/hackathons/:hackathonId")
		{
			hackathons.POST("/registrations", registrationHandler.Register)
			hackathons.DELETE("/registrations/me", registrationHandler.CancelRegistration)
			hackathons.GET("/my-team", registrationHandler.GetMyTeam)
			hackathons.GET("/join-team/:teamId", inviteHandler.ResolveInvite)
		}

		teams := api.Group("/teams/:teamId")
		{
			teams.POST("/members", teamHandler.AddTeamMember)
			teams.POST("/complete", teamHandler.CompleteTeam)
		}

		members := api.Group("/members/:memberId")
		{
			members.PUT("", teamHandler.UpdateTeamMember)
			members.DELETE("", teamHandler.RemoveMember)
			members.POST("/accept", inviteHandler.AcceptInvite)
			members.POST("/decline", inviteHandler.DeclineInvite)
		}
	}

	return r
}

func readiness(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeStorage, "Database not configured")
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeStorage, "Database not reachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
