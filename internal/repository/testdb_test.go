package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hackathon-team-api/internal/domain"
)

// setupTestDB opens a private in-memory database. A single connection keeps
// every goroutine on the same in-memory schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t, ":memory:")
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

// setupConcurrentTestDB opens a file-backed WAL database with a connection
// per goroutine, so transactions really overlap. Writers queue on BEGIN
// IMMEDIATE; on postgres the same guards rely on the row lock the UPDATE takes.
func setupConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "team.db") +
		"?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate"
	db := openTestDB(t, dsn)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(16)
	return db
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&domain.Hackathon{},
		&domain.Team{},
		&domain.Member{},
		&domain.Registration{},
		&domain.NotificationOutbox{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type fixture struct {
	hackathon *domain.Hackathon
	team      *domain.Team
	leader    *domain.Member
}

// seedTeam creates a hackathon and a team whose leader is already accepted
func seedTeam(t *testing.T, db *gorm.DB, sizeMax int) fixture {
	t.Helper()
	ctx := context.Background()

	h := &domain.Hackathon{
		Name:              "Spring Hack",
		ParticipationType: domain.ParticipationTeam,
		TeamSizeMin:       1,
		TeamSizeMax:       sizeMax,
	}
	if err := NewHackathonRepository(db).Create(ctx, h); err != nil {
		t.Fatalf("failed to create hackathon: %v", err)
	}

	leaderID := uuid.New()
	team := &domain.Team{
		HackathonID:  h.ID,
		LeaderUserID: leaderID,
		Name:         "Alpha-" + uuid.NewString()[:8],
		SizeCurrent:  1,
		SizeMax:      sizeMax,
	}
	if err := NewTeamRepository(db).Create(ctx, team); err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	leader := &domain.Member{
		TeamID:   team.ID,
		UserID:   &leaderID,
		Email:    "leader-" + uuid.NewString()[:8] + "@example.com",
		Profile:  domain.Profile{FullName: "Leader", ParticipantType: domain.ParticipantOther},
		Status:   domain.MemberAccepted,
		IsLeader: true,
	}
	if err := NewMemberRepository(db).Create(ctx, leader); err != nil {
		t.Fatalf("failed to create leader: %v", err)
	}
	return fixture{hackathon: h, team: team, leader: leader}
}

func seedPendingMember(t *testing.T, db *gorm.DB, teamID uuid.UUID, email string) *domain.Member {
	t.Helper()
	m := &domain.Member{
		TeamID:  teamID,
		Email:   email,
		Profile: domain.Profile{FullName: email, ParticipantType: domain.ParticipantStudent},
		Status:  domain.MemberPending,
	}
	if err := NewMemberRepository(db).Create(context.Background(), m); err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return m
}
