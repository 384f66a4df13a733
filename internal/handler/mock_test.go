package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockRegistrationService is a mock implementation of RegistrationService
type MockRegistrationService struct {
	RegisterFunc           func(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID, req *dto.RegisterRequest) (*dto.RegistrationResponse, error)
	CancelRegistrationFunc func(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) error
	GetMyTeamFunc          func(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) (*dto.TeamResponse, error)
	CompleteTeamFunc       func(ctx context.Context, identity domain.Identity, teamID uuid.UUID) (*dto.TeamResponse, error)
}

func (m *MockRegistrationService) Register(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID, req *dto.RegisterRequest) (*dto.RegistrationResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, identity, hackathonID, req)
	}
	return &dto.RegistrationResponse{}, nil
}

func (m *MockRegistrationService) CancelRegistration(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) error {
	if m.CancelRegistrationFunc != nil {
		return m.CancelRegistrationFunc(ctx, identity, hackathonID)
	}
	return nil
}

func (m *MockRegistrationService) GetMyTeam(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) (*dto.TeamResponse, error) {
	if m.GetMyTeamFunc != nil {
		return m.GetMyTeamFunc(ctx, identity, hackathonID)
	}
	return &dto.TeamResponse{Members: []dto.MemberResponse{}}, nil
}

func (m *MockRegistrationService) CompleteTeam(ctx context.Context, identity domain.Identity, teamID uuid.UUID) (*dto.TeamResponse, error) {
	if m.CompleteTeamFunc != nil {
		return m.CompleteTeamFunc(ctx, identity, teamID)
	}
	return &dto.TeamResponse{Members: []dto.MemberResponse{}}, nil
}

// MockTeamMemberService is a mock implementation of TeamMemberService
type MockTeamMemberService struct {
	AddTeamMemberFunc    func(ctx context.Context, identity domain.Identity, teamID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	UpdateTeamMemberFunc func(ctx context.Context, identity domain.Identity, memberID uuid.UUID, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	RemoveMemberFunc     func(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error
}

func (m *MockTeamMemberService) AddTeamMember(ctx context.Context, identity domain.Identity, teamID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if m.AddTeamMemberFunc != nil {
		return m.AddTeamMemberFunc(ctx, identity, teamID, req)
	}
	return &dto.MemberResponse{}, nil
}

func (m *MockTeamMemberService) UpdateTeamMember(ctx context.Context, identity domain.Identity, memberID uuid.UUID, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	if m.UpdateTeamMemberFunc != nil {
		return m.UpdateTeamMemberFunc(ctx, identity, memberID, req)
	}
	return &dto.MemberResponse{}, nil
}

func (m *MockTeamMemberService) RemoveMember(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, identity, memberID)
	}
	return nil
}

// MockInviteService is a mock implementation of InviteService
type MockInviteService struct {
	ResolveInviteFunc func(ctx context.Context, identity domain.Identity, hackathonID, teamID uuid.UUID) (*dto.InviteResolution, error)
	AcceptInviteFunc  func(ctx context.Context, identity domain.Identity, memberID uuid.UUID) (*dto.MemberResponse, error)
	DeclineInviteFunc func(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error
}

func (m *MockInviteService) ResolveInvite(ctx context.Context, identity domain.Identity, hackathonID, teamID uuid.UUID) (*dto.InviteResolution, error) {
	if m.ResolveInviteFunc != nil {
		return m.ResolveInviteFunc(ctx, identity, hackathonID, teamID)
	}
	return &dto.InviteResolution{Status: dto.InviteReady}, nil
}

func (m *MockInviteService) AcceptInvite(ctx context.Context, identity domain.Identity, memberID uuid.UUID) (*dto.MemberResponse, error) {
	if m.AcceptInviteFunc != nil {
		return m.AcceptInviteFunc(ctx, identity, memberID)
	}
	return &dto.MemberResponse{}, nil
}

func (m *MockInviteService) DeclineInvite(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error {
	if m.DeclineInviteFunc != nil {
		return m.DeclineInviteFunc(ctx, identity, memberID)
	}
	return nil
}

var testIdentity = domain.Identity{
	UserID:        uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	Email:         "lead@example.com",
	EmailVerified: true,
}

// withIdentity stands in for middleware.Auth
func withIdentity(identity domain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, identity.UserID)
		c.Set(middleware.ContextKeyUserEmail, identity.Email)
		c.Set(middleware.ContextKeyEmailVerified, identity.EmailVerified)
		c.Next()
	}
}
