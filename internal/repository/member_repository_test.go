package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackathon-team-api/internal/domain"
)

func TestMemberRepository_DuplicateEmailPerTeam(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	f := seedTeam(t, db, 4)
	seedPendingMember(t, db, f.team.ID, "b@example.com")

	err := repo.Create(context.Background(), &domain.Member{
		TeamID:  f.team.ID,
		Email:   "b@example.com",
		Profile: domain.Profile{FullName: "B again"},
		Status:  domain.MemberPending,
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestMemberRepository_LinkUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	f := seedTeam(t, db, 4)
	m := seedPendingMember(t, db, f.team.ID, "b@example.com")
	userID := uuid.New()

	linked, err := repo.LinkUser(ctx, m.ID, userID)
	require.NoError(t, err)
	assert.True(t, linked)

	// second call is a no-op
	linked, err = repo.LinkUser(ctx, m.ID, userID)
	require.NoError(t, err)
	assert.False(t, linked)

	// a stale placeholder is replaced
	other := uuid.New()
	linked, err = repo.LinkUser(ctx, m.ID, other)
	require.NoError(t, err)
	assert.True(t, linked)

	stored, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLinkedTo(other))
	assert.Equal(t, domain.MemberPending, stored.Status)

	// accepted members are never relinked
	linked, err = repo.LinkUser(ctx, f.leader.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestMemberRepository_Reject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	f := seedTeam(t, db, 4)
	m := seedPendingMember(t, db, f.team.ID, "b@example.com")

	ok, err := repo.Reject(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reject(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Reject(ctx, f.leader.ID)
	require.NoError(t, err)
	assert.False(t, ok, "accepted member must not be rejected")

	rejected, err := repo.FindByTeamAndStatus(ctx, f.team.ID, domain.MemberRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, m.ID, rejected[0].ID)
}

func TestMemberRepository_UpdateProfileWritesEmptyFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	f := seedTeam(t, db, 4)
	m := seedPendingMember(t, db, f.team.ID, "b@example.com")
	require.NoError(t, repo.UpdateProfile(ctx, m.ID, domain.Profile{FullName: "B", Organization: "Org", ParticipantType: domain.ParticipantStudent}))

	require.NoError(t, repo.UpdateProfile(ctx, m.ID, domain.Profile{FullName: "B Kim", ParticipantType: domain.ParticipantProfessional}))

	stored, err := repo.FindByTeamAndEmail(ctx, f.team.ID, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "B Kim", stored.Profile.FullName)
	assert.Equal(t, "", stored.Profile.Organization)
	assert.Equal(t, domain.ParticipantProfessional, stored.Profile.ParticipantType)
}

func TestMemberRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	f := seedTeam(t, db, 4)
	m := seedPendingMember(t, db, f.team.ID, "b@example.com")

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err := repo.FindByID(ctx, m.ID)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, repo.Delete(ctx, m.ID))
}
