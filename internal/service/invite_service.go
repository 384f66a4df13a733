package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/cache"
	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/repository"
	"hackathon-team-api/internal/response"
)

// InviteService resolves join links and moves invitations out of PENDING
type InviteService interface {
	ResolveInvite(ctx context.Context, identity domain.Identity, hackathonID, teamID uuid.UUID) (*dto.InviteResolution, error)
	AcceptInvite(ctx context.Context, identity domain.Identity, memberID uuid.UUID) (*dto.MemberResponse, error)
	DeclineInvite(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error
}

type inviteServiceImpl struct {
	hackathonRepo        repository.HackathonRepository
	teamRepo             repository.TeamRepository
	memberRepo           repository.MemberRepository
	registrationRepo     repository.RegistrationRepository
	reconciler           Reconciler
	effects              sideEffects
	requireVerifiedEmail bool
	metrics              *metrics.Metrics
	logger               *zap.Logger
	now                  func() time.Time
}

func NewInviteService(
	hackathonRepo repository.HackathonRepository,
	teamRepo repository.TeamRepository,
	memberRepo repository.MemberRepository,
	registrationRepo repository.RegistrationRepository,
	reconciler Reconciler,
	teamCache cache.TeamCache,
	requireVerifiedEmail bool,
	m *metrics.Metrics,
	logger *zap.Logger,
) InviteService {
	return &inviteServiceImpl{
		hackathonRepo:        hackathonRepo,
		teamRepo:             teamRepo,
		memberRepo:           memberRepo,
		registrationRepo:     registrationRepo,
		reconciler:           reconciler,
		effects:              newSideEffects(nil, teamCache, logger),
		requireVerifiedEmail: requireVerifiedEmail,
		metrics:              m,
		logger:               logger,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// ResolveInvite tells the caller what the join link means for them. The only
// write it may perform is binding a pending invitation to the caller's account.
func (s *inviteServiceImpl) ResolveInvite(ctx context.Context, identity domain.Identity, hackathonID, teamID uuid.UUID) (*dto.InviteResolution, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Team not found")
	}
	if team.HackathonID != hackathonID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Team not found", "")
	}
	result := &dto.InviteResolution{Team: dto.NewTeamSummary(team)}

	registration, err := s.registrationRepo.FindByHackathonAndUser(ctx, team.HackathonID, identity.UserID)
	switch {
	case err == nil && !registration.IsForTeam(team.ID):
		return nil, response.NewAppError(response.ErrCodeAlreadyRegisteredElsewhere, "You are already registered for this hackathon", "")
	case err == nil:
		member, err := s.memberRepo.FindByTeamAndEmail(ctx, team.ID, registration.Email)
		if err != nil && !repository.IsNotFound(err) {
			return nil, storageError("Failed to load member", err)
		}
		if member != nil {
			result.Member = dto.NewMemberResponse(member)
		}
		result.Status = dto.InviteAlreadyMember
		return result, nil
	case !repository.IsNotFound(err):
		return nil, storageError("Failed to check registration", err)
	}

	email, err := domain.NormalizeEmail(identity.Email)
	if err != nil {
		result.Status = dto.InviteNotInvited
		return result, nil
	}
	member, err := s.memberRepo.FindByTeamAndEmail(ctx, team.ID, email)
	if err != nil {
		if repository.IsNotFound(err) {
			result.Status = dto.InviteNotInvited
			return result, nil
		}
		return nil, storageError("Failed to load invitation", err)
	}

	switch member.Status {
	case domain.MemberRejected:
		result.Status = dto.InviteDeclined
		result.Member = dto.NewMemberResponse(member)
		return result, nil
	case domain.MemberAccepted:
		result.Status = dto.InviteAlreadyMember
		result.Member = dto.NewMemberResponse(member)
		return result, nil
	}

	if s.requireVerifiedEmail && !identity.EmailVerified {
		return nil, response.NewAppError(response.ErrCodeEmailNotVerified, "Verify your email address to join this team", "")
	}

	if !member.IsLinkedTo(identity.UserID) {
		linked, err := s.memberRepo.LinkUser(ctx, member.ID, identity.UserID)
		if err != nil {
			return nil, storageError("Failed to link invitation", err)
		}
		if linked {
			userID := identity.UserID
			member.UserID = &userID
			s.effects.invalidate(ctx, team.ID)
			s.logger.Info("Invitation linked to account",
				zap.String("member_id", member.ID.String()),
				zap.String("user_id", identity.UserID.String()),
			)
		}
	}

	result.Member = dto.NewMemberResponse(member)
	if team.IsCompleted || team.IsFull() {
		result.Status = dto.InviteTeamFull
		return result, nil
	}
	result.Status = dto.InviteReady
	return result, nil
}

// AcceptInvite admits the caller to the team. Status change, slot claim and
// registration commit together, so the team can never exceed its maximum.
func (s *inviteServiceImpl) AcceptInvite(ctx context.Context, identity domain.Identity, memberID uuid.UUID) (*dto.MemberResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Invitation not found")
	}
	if !domain.SameEmail(member.Email, identity.Email) {
		return nil, response.NewAppError(response.ErrCodeNotInvited, "This invitation was sent to a different email address", "")
	}
	if s.requireVerifiedEmail && !identity.EmailVerified {
		return nil, response.NewAppError(response.ErrCodeEmailNotVerified, "Verify your email address to join this team", "")
	}

	switch member.Status {
	case domain.MemberAccepted:
		if member.IsLinkedTo(identity.UserID) {
			return dto.NewMemberResponse(member), nil
		}
		return nil, response.NewAppError(response.ErrCodeInvalidTransition, "Invitation has already been accepted", "")
	case domain.MemberRejected:
		return nil, response.NewAppError(response.ErrCodeInvalidTransition, "Invitation was declined", "")
	}

	team, err := s.teamRepo.FindByID(ctx, member.TeamID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Team not found")
	}
	hackathon, err := s.hackathonRepo.FindByID(ctx, team.HackathonID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeHackathonNotFound, "Hackathon not found")
	}
	if !hackathon.RegistrationOpen(s.now()) {
		return nil, response.NewAppError(response.ErrCodeRegistrationClosed, "Registration for this hackathon is closed", "")
	}

	var registration *domain.Registration
	existing, err := s.registrationRepo.FindByHackathonAndUser(ctx, team.HackathonID, identity.UserID)
	switch {
	case err == nil && !existing.IsForTeam(team.ID):
		return nil, response.NewAppError(response.ErrCodeAlreadyRegisteredElsewhere, "You are already registered for this hackathon", "")
	case err == nil:
		// left behind by an earlier attempt; keep it
	case repository.IsNotFound(err):
		registration = domain.NewRegistrationFromMember(team.HackathonID, identity.UserID, member)
	default:
		return nil, storageError("Failed to check registration", err)
	}

	if team.IsCompleted || team.IsFull() {
		return nil, response.NewAppError(response.ErrCodeTeamFull, "Team is full", "")
	}

	joinedAt := s.now()
	err = s.teamRepo.AdmitMember(ctx, repository.AdmitParams{
		TeamID:       team.ID,
		MemberID:     member.ID,
		UserID:       identity.UserID,
		JoinedAt:     joinedAt,
		Registration: registration,
	})
	switch {
	case errors.Is(err, repository.ErrTeamFull):
		return nil, response.NewAppError(response.ErrCodeTeamFull, "Team is full", "")
	case errors.Is(err, repository.ErrMemberNotPending):
		return s.settledAccept(ctx, identity, member.ID)
	case err != nil && repository.IsUniqueViolation(err):
		return nil, response.NewAppError(response.ErrCodeAlreadyRegisteredElsewhere, "You are already registered for this hackathon", "")
	case err != nil:
		return nil, storageError("Failed to accept invitation", err)
	}

	userID := identity.UserID
	member.UserID = &userID
	if err := member.Transition(domain.MemberAccepted, joinedAt); err != nil {
		s.logger.Warn("Accepted member had unexpected status", zap.String("member_id", member.ID.String()))
	}

	s.metrics.IncrementMembershipTransition(metrics.TransitionAccepted)
	if registration != nil {
		s.metrics.IncrementRegistrationCreated(metrics.ModeInvite)
	}
	s.effects.invalidate(ctx, team.ID)

	s.logger.Info("Invitation accepted",
		zap.String("team_id", team.ID.String()),
		zap.String("member_id", member.ID.String()),
		zap.String("user_id", identity.UserID.String()),
	)
	return dto.NewMemberResponse(member), nil
}

// settledAccept handles a member whose status changed under a concurrent call
func (s *inviteServiceImpl) settledAccept(ctx context.Context, identity domain.Identity, memberID uuid.UUID) (*dto.MemberResponse, error) {
	current, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Invitation not found")
	}
	if current.Status == domain.MemberAccepted && current.IsLinkedTo(identity.UserID) {
		return dto.NewMemberResponse(current), nil
	}
	return nil, response.NewAppError(response.ErrCodeInvalidTransition, "Invitation is no longer pending", string(current.Status))
}

// DeclineInvite rejects a pending invitation. The invitee or the leader may
// decline; declining twice succeeds.
func (s *inviteServiceImpl) DeclineInvite(ctx context.Context, identity domain.Identity, memberID uuid.UUID) error {
	if !identity.IsAuthenticated() {
		return errNotAuthenticated
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return lookupError(err, response.ErrCodeNotFound, "Invitation not found")
	}
	team, err := s.teamRepo.FindByID(ctx, member.TeamID)
	if err != nil {
		return lookupError(err, response.ErrCodeNotFound, "Team not found")
	}

	isInvitee := domain.SameEmail(member.Email, identity.Email)
	if !isInvitee && !team.IsLeader(identity.UserID) {
		return response.NewAppError(response.ErrCodeForbidden, "You cannot decline this invitation", "")
	}
	if member.IsLeader {
		return response.NewAppError(response.ErrCodeForbidden, "The team leader cannot decline", "")
	}
	// rejection is terminal; an unverified invitee may not trigger it
	if !team.IsLeader(identity.UserID) && s.requireVerifiedEmail && !identity.EmailVerified {
		return response.NewAppError(response.ErrCodeEmailNotVerified, "Verify your email address to decline this invitation", "")
	}

	switch member.Status {
	case domain.MemberRejected:
		return nil
	case domain.MemberAccepted:
		return response.NewAppError(response.ErrCodeInvalidTransition, "Accepted members must be removed by the team leader", "")
	}

	rejected, err := s.memberRepo.Reject(ctx, member.ID)
	if err != nil {
		return storageError("Failed to decline invitation", err)
	}
	if !rejected {
		current, err := s.memberRepo.FindByID(ctx, member.ID)
		if err != nil {
			return lookupError(err, response.ErrCodeNotFound, "Invitation not found")
		}
		if current.Status != domain.MemberRejected {
			return response.NewAppError(response.ErrCodeInvalidTransition, "Invitation is no longer pending", string(current.Status))
		}
		return nil
	}

	if _, err := s.reconciler.Reconcile(ctx, team.ID); err != nil {
		s.logger.Warn("Failed to reconcile team size after decline",
			zap.String("team_id", team.ID.String()),
			zap.Error(err),
		)
	}

	s.metrics.IncrementMembershipTransition(metrics.TransitionDeclined)
	s.effects.invalidate(ctx, team.ID)

	s.logger.Info("Invitation declined",
		zap.String("team_id", team.ID.String()),
		zap.String("member_id", member.ID.String()),
		zap.Bool("by_leader", !isInvitee),
	)
	return nil
}
