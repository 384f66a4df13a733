package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/cache"
	"hackathon-team-api/internal/client"
	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/notify"
	"hackathon-team-api/internal/repository"
	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/saga"
)

// TeamMemberService manages the roster of an existing team
type TeamMemberService interface {
	AddTeamMember(ctx context.Context, identity domain.Identity, teamID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	UpdateTeamMember(ctx context.Context, identity domain.Identity, memberID uuid.UUID, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error
}

type teamMemberServiceImpl struct {
	teamRepo         repository.TeamRepository
	memberRepo       repository.MemberRepository
	registrationRepo repository.RegistrationRepository
	reconciler       Reconciler
	userClient       client.UserClient
	effects          sideEffects
	joinLinkBaseURL  string
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

func NewTeamMemberService(
	teamRepo repository.TeamRepository,
	memberRepo repository.MemberRepository,
	registrationRepo repository.RegistrationRepository,
	reconciler Reconciler,
	userClient client.UserClient,
	dispatcher notify.Dispatcher,
	teamCache cache.TeamCache,
	joinLinkBaseURL string,
	m *metrics.Metrics,
	logger *zap.Logger,
) TeamMemberService {
	if userClient == nil {
		userClient = client.NoOpUserClient{}
	}
	return &teamMemberServiceImpl{
		teamRepo:         teamRepo,
		memberRepo:       memberRepo,
		registrationRepo: registrationRepo,
		reconciler:       reconciler,
		userClient:       userClient,
		effects:          newSideEffects(dispatcher, teamCache, logger),
		joinLinkBaseURL:  joinLinkBaseURL,
		metrics:          m,
		logger:           logger,
	}
}

// AddTeamMember invites an email address to the leader's team. The member row
// is PENDING and does not count toward the team size until it is accepted.
func (s *teamMemberServiceImpl) AddTeamMember(ctx context.Context, identity domain.Identity, teamID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, validationError(err)
	}
	profile, err := domain.NewProfile(req.Profile.ToInput())
	if err != nil {
		return nil, validationError(err)
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Team not found")
	}
	if !team.IsLeader(identity.UserID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the team leader can invite members", "")
	}
	if team.IsCompleted {
		return nil, response.NewAppError(response.ErrCodeAlreadyCompleted, "Team is already completed", "")
	}
	if team.IsFull() {
		return nil, response.NewAppError(response.ErrCodeTeamFull, "Team is full", "")
	}

	if existing, err := s.memberRepo.FindByTeamAndEmail(ctx, team.ID, email); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyInvited, "This email is already on the team", string(existing.Status))
	} else if !repository.IsNotFound(err) {
		return nil, storageError("Failed to check existing members", err)
	}

	leaderID := identity.UserID
	member := &domain.Member{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		TeamID:    team.ID,
		Email:     email,
		Profile:   profile,
		Status:    domain.MemberPending,
		InvitedBy: &leaderID,
	}

	// a provisional link; the invitee's own login replaces it on resolve
	account, err := s.userClient.FindUserByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("User lookup failed, inviting without account link",
			zap.String("team_id", team.ID.String()),
			zap.Error(err),
		)
	} else if account != nil {
		accountID := account.ID
		member.UserID = &accountID
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, response.NewAppError(response.ErrCodeAlreadyInvited, "This email is already on the team", "")
		}
		return nil, storageError("Failed to create invitation", err)
	}

	s.metrics.IncrementInviteSent()
	s.effects.invalidate(ctx, team.ID)
	s.effects.notifyMember(ctx, domain.NotificationTeamInvite, team, member, map[string]string{
		"joinLink": notify.JoinLink(s.joinLinkBaseURL, team.HackathonID, team.ID),
		"memberId": member.ID.String(),
	})

	s.logger.Info("Team member invited",
		zap.String("team_id", team.ID.String()),
		zap.String("member_id", member.ID.String()),
	)
	return dto.NewMemberResponse(member), nil
}

// UpdateTeamMember edits a member's profile. Accepted members carry a copy of
// the profile on their registration, which is updated in the same saga.
func (s *teamMemberServiceImpl) UpdateTeamMember(ctx context.Context, identity domain.Identity, memberID uuid.UUID, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}
	profile, err := domain.NewProfile(req.Profile.ToInput())
	if err != nil {
		return nil, validationError(err)
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Member not found")
	}
	team, err := s.teamRepo.FindByID(ctx, member.TeamID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Team not found")
	}
	if !team.IsLeader(identity.UserID) && !member.IsLinkedTo(identity.UserID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You cannot edit this member", "")
	}

	var registration *domain.Registration
	if member.Status == domain.MemberAccepted {
		registration, err = s.registrationRepo.FindByTeamAndEmail(ctx, team.HackathonID, team.ID, member.Email)
		if err != nil {
			if !repository.IsNotFound(err) {
				return nil, storageError("Failed to load registration", err)
			}
			registration = nil
		}
	}

	previous := member.Profile
	sg := saga.New("update_member", s.logger, s.metrics)

	err = sg.Step(ctx, "update_member",
		func(ctx context.Context) error { return s.memberRepo.UpdateProfile(ctx, member.ID, profile) },
		func(ctx context.Context) error { return s.memberRepo.UpdateProfile(ctx, member.ID, previous) },
	)
	if err != nil {
		return nil, stepError(err, "Failed to update member")
	}

	if registration != nil {
		err = sg.Step(ctx, "update_registration",
			func(ctx context.Context) error { return s.registrationRepo.UpdateProfile(ctx, registration.ID, profile) },
			nil,
		)
		if err != nil {
			return nil, stepError(err, "Failed to update registration")
		}
	}

	member.Profile = profile
	s.effects.invalidate(ctx, team.ID)
	return dto.NewMemberResponse(member), nil
}

// RemoveMember takes a member off the team together with the registration
// they got through it. Removing an already removed member succeeds.
func (s *teamMemberServiceImpl) RemoveMember(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error {
	if !identity.IsAuthenticated() {
		return errNotAuthenticated
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return storageError("Failed to load member", err)
	}
	team, err := s.teamRepo.FindByID(ctx, member.TeamID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return storageError("Failed to load team", err)
	}
	if !team.IsLeader(identity.UserID) {
		return response.NewAppError(response.ErrCodeForbidden, "Only the team leader can remove members", "")
	}
	if member.IsLeader {
		return response.NewAppError(response.ErrCodeForbidden, "The team leader cannot be removed, cancel the registration instead", "")
	}

	registration, err := s.registrationRepo.FindByTeamAndEmail(ctx, team.HackathonID, team.ID, member.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return storageError("Failed to load registration", err)
		}
		registration = nil
	}

	snapshot := *member
	sg := saga.New("remove_member", s.logger, s.metrics)

	err = sg.Step(ctx, "delete_member",
		func(ctx context.Context) error { return s.memberRepo.Delete(ctx, member.ID) },
		func(ctx context.Context) error {
			restored := snapshot
			return s.memberRepo.Create(ctx, &restored)
		},
	)
	if err != nil {
		return stepError(err, "Failed to remove member")
	}

	if registration != nil {
		regSnapshot := *registration
		err = sg.Step(ctx, "delete_registration",
			func(ctx context.Context) error { return s.registrationRepo.Delete(ctx, registration.ID) },
			func(ctx context.Context) error {
				restored := regSnapshot
				return s.registrationRepo.Create(ctx, &restored)
			},
		)
		if err != nil {
			return stepError(err, "Failed to remove registration")
		}
	}

	err = sg.Step(ctx, "reconcile",
		func(ctx context.Context) error {
			_, err := s.reconciler.Reconcile(ctx, team.ID)
			return err
		},
		nil,
	)
	if err != nil {
		return stepError(err, "Failed to update team size")
	}

	s.metrics.IncrementMembershipTransition(metrics.TransitionRemoved)
	s.effects.invalidate(ctx, team.ID)
	s.effects.notifyMember(ctx, domain.NotificationTeamRemoval, team, member, map[string]string{"reason": "REMOVED_BY_LEADER"})

	s.logger.Info("Team member removed",
		zap.String("team_id", team.ID.String()),
		zap.String("member_id", member.ID.String()),
		zap.String("status", string(member.Status)),
	)
	return nil
}
