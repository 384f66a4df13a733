package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hackathon-team-api/internal/database"
	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/repository"
)

const testSecret = "test-secret"

// setupTestRouter creates a router over an in-memory SQLite database
func setupTestRouter(t *testing.T, basePath string) (*Config, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())

	return &Config{
		DB:                   db,
		Logger:               zap.NewNop(),
		JWTSecret:            testSecret,
		BasePath:             basePath,
		AllowedOrigins:       []string{"http://localhost:3000"},
		Metrics:              m,
		JoinLinkBaseURL:      "https://hack.example.com",
		RequireVerifiedEmail: true,
	}, db
}

func bearer(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":        userID.String(),
		"email":          email,
		"email_verified": true,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestMetricsEndpoint_NoAuthentication(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	r := Setup(*cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "# HELP")
}

func TestHealthAndReady(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	r := Setup(*cfg)

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestReady_WithoutDatabase(t *testing.T) {
	r := Setup(Config{Logger: zap.NewNop(), JWTSecret: testSecret, BasePath: "/api"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	r := Setup(*cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hackathons/"+uuid.NewString()+"/my-team", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndInviteFlow(t *testing.T) {
	cfg, db := setupTestRouter(t, "/api")
	r := Setup(*cfg)
	ctx := context.Background()

	hackathon := &domain.Hackathon{
		Name:              "Spring Hack",
		ParticipationType: domain.ParticipationTeam,
		TeamSizeMin:       2,
		TeamSizeMax:       3,
	}
	require.NoError(t, repository.NewHackathonRepository(db).Create(ctx, hackathon))

	leaderID := uuid.New()
	leaderAuth := bearer(t, leaderID, "lead@example.com")

	call := func(method, path, auth string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// leader registers with a new team
	w := call(http.MethodPost, "/api/hackathons/"+hackathon.ID.String()+"/registrations", leaderAuth, map[string]interface{}{
		"profile": map[string]string{"fullName": "Lead", "participantType": "STUDENT"},
		"team":    map[string]string{"name": "Alpha"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		Data struct {
			TeamID uuid.UUID `json:"teamId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	teamID := registered.Data.TeamID
	require.NotEqual(t, uuid.Nil, teamID)

	// leader invites a teammate
	w = call(http.MethodPost, "/api/teams/"+teamID.String()+"/members", leaderAuth, map[string]interface{}{
		"email":   "bea@example.com",
		"profile": map[string]string{"fullName": "Bea"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var invited struct {
		Data struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invited))
	assert.Equal(t, "PENDING", invited.Data.Status)

	// completing with one member is refused
	w = call(http.MethodPost, "/api/teams/"+teamID.String()+"/complete", leaderAuth, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// invitee resolves the link and accepts
	beaAuth := bearer(t, uuid.New(), "bea@example.com")
	w = call(http.MethodGet, "/api/hackathons/"+hackathon.ID.String()+"/join-team/"+teamID.String(), beaAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"READY"`)

	w = call(http.MethodPost, "/api/members/"+invited.Data.ID.String()+"/accept", beaAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the team view reflects the new member
	w = call(http.MethodGet, "/api/hackathons/"+hackathon.ID.String()+"/my-team", beaAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var team struct {
		Data struct {
			SizeCurrent int `json:"sizeCurrent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))
	assert.Equal(t, 2, team.Data.SizeCurrent)

	w = call(http.MethodPost, "/api/teams/"+teamID.String()+"/complete", leaderAuth, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// a stranger cannot decline someone else's invite
	w = call(http.MethodPost, "/api/members/"+invited.Data.ID.String()+"/decline", bearer(t, uuid.New(), "eve@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
