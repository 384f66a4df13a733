package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/notify"
	"hackathon-team-api/internal/repository"
)

// MockHackathonRepository is a mock implementation of HackathonRepository
type MockHackathonRepository struct {
	CreateFunc   func(ctx context.Context, hackathon *domain.Hackathon) error
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Hackathon, error)
}

func (m *MockHackathonRepository) Create(ctx context.Context, hackathon *domain.Hackathon) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, hackathon)
	}
	return nil
}

func (m *MockHackathonRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hackathon, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	CreateFunc              func(ctx context.Context, team *domain.Team) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	FindByIDWithMembersFunc func(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	DeleteFunc              func(ctx context.Context, id uuid.UUID) error
	RestoreFunc             func(ctx context.Context, team *domain.Team, members []domain.Member) error
	AdmitMemberFunc         func(ctx context.Context, params repository.AdmitParams) error
	ReconcileSizeFunc       func(ctx context.Context, id uuid.UUID) (int, int, error)
	MarkCompletedFunc       func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, team)
	}
	return nil
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockTeamRepository) FindByIDWithMembers(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	if m.FindByIDWithMembersFunc != nil {
		return m.FindByIDWithMembersFunc(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTeamRepository) Restore(ctx context.Context, team *domain.Team, members []domain.Member) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, team, members)
	}
	return nil
}

func (m *MockTeamRepository) AdmitMember(ctx context.Context, params repository.AdmitParams) error {
	if m.AdmitMemberFunc != nil {
		return m.AdmitMemberFunc(ctx, params)
	}
	return nil
}

func (m *MockTeamRepository) ReconcileSize(ctx context.Context, id uuid.UUID) (int, int, error) {
	if m.ReconcileSizeFunc != nil {
		return m.ReconcileSizeFunc(ctx, id)
	}
	return 0, 0, nil
}

func (m *MockTeamRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, id, at)
	}
	return true, nil
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	CreateFunc              func(ctx context.Context, member *domain.Member) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	FindByTeamAndEmailFunc  func(ctx context.Context, teamID uuid.UUID, email string) (*domain.Member, error)
	FindByTeamAndStatusFunc func(ctx context.Context, teamID uuid.UUID, status domain.MemberStatus) ([]*domain.Member, error)
	LinkUserFunc            func(ctx context.Context, memberID, userID uuid.UUID) (bool, error)
	RejectFunc              func(ctx context.Context, memberID uuid.UUID) (bool, error)
	UpdateProfileFunc       func(ctx context.Context, memberID uuid.UUID, profile domain.Profile) error
	DeleteFunc              func(ctx context.Context, id uuid.UUID) error
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMemberRepository) FindByTeamAndEmail(ctx context.Context, teamID uuid.UUID, email string) (*domain.Member, error) {
	if m.FindByTeamAndEmailFunc != nil {
		return m.FindByTeamAndEmailFunc(ctx, teamID, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMemberRepository) FindByTeamAndStatus(ctx context.Context, teamID uuid.UUID, status domain.MemberStatus) ([]*domain.Member, error) {
	if m.FindByTeamAndStatusFunc != nil {
		return m.FindByTeamAndStatusFunc(ctx, teamID, status)
	}
	return nil, nil
}

func (m *MockMemberRepository) LinkUser(ctx context.Context, memberID, userID uuid.UUID) (bool, error) {
	if m.LinkUserFunc != nil {
		return m.LinkUserFunc(ctx, memberID, userID)
	}
	return true, nil
}

func (m *MockMemberRepository) Reject(ctx context.Context, memberID uuid.UUID) (bool, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, memberID)
	}
	return true, nil
}

func (m *MockMemberRepository) UpdateProfile(ctx context.Context, memberID uuid.UUID, profile domain.Profile) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, memberID, profile)
	}
	return nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockRegistrationRepository is a mock implementation of RegistrationRepository
type MockRegistrationRepository struct {
	CreateFunc                 func(ctx context.Context, registration *domain.Registration) error
	FindByHackathonAndUserFunc func(ctx context.Context, hackathonID, userID uuid.UUID) (*domain.Registration, error)
	FindByTeamAndEmailFunc     func(ctx context.Context, hackathonID, teamID uuid.UUID, email string) (*domain.Registration, error)
	UpdateProfileFunc          func(ctx context.Context, id uuid.UUID, profile domain.Profile) error
	DeleteFunc                 func(ctx context.Context, id uuid.UUID) error
	DeleteByTeamFunc           func(ctx context.Context, teamID uuid.UUID) (int64, error)
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, registration)
	}
	return nil
}

func (m *MockRegistrationRepository) FindByHackathonAndUser(ctx context.Context, hackathonID, userID uuid.UUID) (*domain.Registration, error) {
	if m.FindByHackathonAndUserFunc != nil {
		return m.FindByHackathonAndUserFunc(ctx, hackathonID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRegistrationRepository) FindByTeamAndEmail(ctx context.Context, hackathonID, teamID uuid.UUID, email string) (*domain.Registration, error) {
	if m.FindByTeamAndEmailFunc != nil {
		return m.FindByTeamAndEmailFunc(ctx, hackathonID, teamID, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRegistrationRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile domain.Profile) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, profile)
	}
	return nil
}

func (m *MockRegistrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRegistrationRepository) DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	if m.DeleteByTeamFunc != nil {
		return m.DeleteByTeamFunc(ctx, teamID)
	}
	return 0, nil
}

// MockDispatcher records every message it is given
type MockDispatcher struct {
	Sent     []notify.Message
	SendFunc func(ctx context.Context, msg notify.Message) error
}

func (m *MockDispatcher) Send(ctx context.Context, msg notify.Message) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// MockReconciler is a mock implementation of Reconciler
type MockReconciler struct {
	Calls         []uuid.UUID
	ReconcileFunc func(ctx context.Context, teamID uuid.UUID) (int, error)
}

func (m *MockReconciler) Reconcile(ctx context.Context, teamID uuid.UUID) (int, error) {
	m.Calls = append(m.Calls, teamID)
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, teamID)
	}
	return 0, nil
}

// MockTeamCache keeps views in a map
type MockTeamCache struct {
	Views       map[uuid.UUID]*dto.TeamResponse
	Invalidated []uuid.UUID
}

func (m *MockTeamCache) Get(ctx context.Context, teamID uuid.UUID) (*dto.TeamResponse, bool) {
	view, ok := m.Views[teamID]
	return view, ok
}

func (m *MockTeamCache) Set(ctx context.Context, team *dto.TeamResponse) {
	if m.Views == nil {
		m.Views = make(map[uuid.UUID]*dto.TeamResponse)
	}
	m.Views[team.ID] = team
}

func (m *MockTeamCache) Invalidate(ctx context.Context, teamID uuid.UUID) {
	delete(m.Views, teamID)
	m.Invalidated = append(m.Invalidated, teamID)
}
