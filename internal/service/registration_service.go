package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-team-api/internal/cache"
	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/notify"
	"hackathon-team-api/internal/repository"
	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/saga"
)

// RegistrationService owns the registration lifecycle of a participant and,
// for team hackathons, of the team they lead.
type RegistrationService interface {
	Register(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID, req *dto.RegisterRequest) (*dto.RegistrationResponse, error)
	CancelRegistration(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) error
	GetMyTeam(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) (*dto.TeamResponse, error)
	CompleteTeam(ctx context.Context, identity domain.Identity, teamID uuid.UUID) (*dto.TeamResponse, error)
}

type registrationServiceImpl struct {
	hackathonRepo    repository.HackathonRepository
	teamRepo         repository.TeamRepository
	memberRepo       repository.MemberRepository
	registrationRepo repository.RegistrationRepository
	effects          sideEffects
	metrics          *metrics.Metrics
	logger           *zap.Logger
	now              func() time.Time
}

func NewRegistrationService(
	hackathonRepo repository.HackathonRepository,
	teamRepo repository.TeamRepository,
	memberRepo repository.MemberRepository,
	registrationRepo repository.RegistrationRepository,
	dispatcher notify.Dispatcher,
	teamCache cache.TeamCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		hackathonRepo:    hackathonRepo,
		teamRepo:         teamRepo,
		memberRepo:       memberRepo,
		registrationRepo: registrationRepo,
		effects:          newSideEffects(dispatcher, teamCache, logger),
		metrics:          m,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the caller's registration. For team hackathons it also
// creates the team with the caller as its accepted leader; the three inserts
// run as a saga so a failure part way leaves nothing behind.
func (s *registrationServiceImpl) Register(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID, req *dto.RegisterRequest) (*dto.RegistrationResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}
	email, err := domain.NormalizeEmail(identity.Email)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "Account email is missing or invalid", "")
	}
	profile, err := domain.NewProfile(req.Profile.ToInput())
	if err != nil {
		return nil, validationError(err)
	}

	hackathon, err := s.hackathonRepo.FindByID(ctx, hackathonID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeHackathonNotFound, "Hackathon not found")
	}
	if !hackathon.RegistrationOpen(s.now()) {
		return nil, response.NewAppError(response.ErrCodeRegistrationClosed, "Registration for this hackathon is closed", "")
	}

	if _, err := s.registrationRepo.FindByHackathonAndUser(ctx, hackathonID, identity.UserID); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyRegistered, "You are already registered for this hackathon", "")
	} else if !repository.IsNotFound(err) {
		return nil, storageError("Failed to check registration", err)
	}

	registration := &domain.Registration{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		HackathonID: hackathonID,
		UserID:      identity.UserID,
		Email:       email,
		Profile:     profile,
	}

	if !hackathon.IsTeamBased() {
		if err := s.registrationRepo.Create(ctx, registration); err != nil {
			return nil, registrationCreateError(err)
		}
		s.metrics.IncrementRegistrationCreated(metrics.ModeIndividual)
		s.logger.Info("Individual registration created",
			zap.String("hackathon_id", hackathonID.String()),
			zap.String("user_id", identity.UserID.String()),
		)
		return dto.NewRegistrationResponse(registration), nil
	}

	if req.Team == nil || strings.TrimSpace(req.Team.Name) == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Team name is required for team hackathons", "")
	}

	now := s.now()
	team := &domain.Team{
		BaseModel:           domain.BaseModel{ID: uuid.New()},
		HackathonID:         hackathonID,
		LeaderUserID:        identity.UserID,
		Name:                strings.TrimSpace(req.Team.Name),
		Description:         strings.TrimSpace(req.Team.Description),
		SizeCurrent:         1,
		SizeMax:             hackathon.TeamSizeMax,
		LookingForTeammates: req.Team.LookingForTeammates,
	}
	leaderID := identity.UserID
	leader := &domain.Member{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		TeamID:    team.ID,
		UserID:    &leaderID,
		Email:     email,
		Profile:   profile,
		Status:    domain.MemberAccepted,
		IsLeader:  true,
		JoinedAt:  &now,
	}
	registration.TeamID = &team.ID

	sg := saga.New("register", s.logger, s.metrics)

	err = sg.Step(ctx, "create_team",
		func(ctx context.Context) error { return s.teamRepo.Create(ctx, team) },
		func(ctx context.Context) error { return s.teamRepo.Delete(ctx, team.ID) },
	)
	if err != nil {
		if !compensationFailed(err) && repository.IsUniqueViolation(err) {
			return nil, response.NewAppError(response.ErrCodeTeamNameConflict, "A team with this name already exists in the hackathon", "")
		}
		return nil, stepError(err, "Failed to create team")
	}

	err = sg.Step(ctx, "create_leader",
		func(ctx context.Context) error { return s.memberRepo.Create(ctx, leader) },
		func(ctx context.Context) error { return s.memberRepo.Delete(ctx, leader.ID) },
	)
	if err != nil {
		return nil, stepError(err, "Failed to create team leader")
	}

	err = sg.Step(ctx, "create_registration",
		func(ctx context.Context) error { return s.registrationRepo.Create(ctx, registration) },
		nil,
	)
	if err != nil {
		if !compensationFailed(err) {
			return nil, registrationCreateError(err)
		}
		return nil, stepError(err, "Failed to create registration")
	}

	s.metrics.IncrementRegistrationCreated(metrics.ModeTeam)
	s.logger.Info("Team registration created",
		zap.String("hackathon_id", hackathonID.String()),
		zap.String("team_id", team.ID.String()),
		zap.String("leader_user_id", identity.UserID.String()),
	)
	return dto.NewRegistrationResponse(registration), nil
}

// CancelRegistration withdraws the caller. A leader's cancellation dissolves
// the team: members go with it, then every registration made through it.
func (s *registrationServiceImpl) CancelRegistration(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) error {
	if !identity.IsAuthenticated() {
		return errNotAuthenticated
	}

	registration, err := s.registrationRepo.FindByHackathonAndUser(ctx, hackathonID, identity.UserID)
	if err != nil {
		return lookupError(err, response.ErrCodeNotFound, "Registration not found")
	}

	if registration.TeamID == nil {
		if err := s.registrationRepo.Delete(ctx, registration.ID); err != nil {
			return storageError("Failed to cancel registration", err)
		}
		s.logger.Info("Registration cancelled",
			zap.String("hackathon_id", hackathonID.String()),
			zap.String("user_id", identity.UserID.String()),
		)
		return nil
	}

	team, err := s.teamRepo.FindByIDWithMembers(ctx, *registration.TeamID)
	if err != nil {
		if !repository.IsNotFound(err) {
			return storageError("Failed to load team", err)
		}
		// team already gone; only the dangling registration is left
		if err := s.registrationRepo.Delete(ctx, registration.ID); err != nil {
			return storageError("Failed to cancel registration", err)
		}
		return nil
	}

	if !team.IsLeader(identity.UserID) {
		return response.NewAppError(response.ErrCodeForbidden, "Only the team leader can cancel a team registration", "")
	}

	members := append([]domain.Member(nil), team.Members...)
	sg := saga.New("cancel_registration", s.logger, s.metrics)

	err = sg.Step(ctx, "delete_team",
		func(ctx context.Context) error { return s.teamRepo.Delete(ctx, team.ID) },
		func(ctx context.Context) error { return s.teamRepo.Restore(ctx, team, members) },
	)
	if err != nil {
		return stepError(err, "Failed to delete team")
	}

	var removed int64
	err = sg.Step(ctx, "delete_registrations",
		func(ctx context.Context) error {
			n, err := s.registrationRepo.DeleteByTeam(ctx, team.ID)
			removed = n
			return err
		},
		nil,
	)
	if err != nil {
		return stepError(err, "Failed to delete team registrations")
	}

	s.effects.invalidate(ctx, team.ID)
	for i := range members {
		m := &members[i]
		if m.IsLeader || m.Status != domain.MemberAccepted {
			continue
		}
		s.effects.notifyMember(ctx, domain.NotificationTeamRemoval, team, m, map[string]string{"reason": "TEAM_CANCELLED"})
	}

	s.logger.Info("Team registration cancelled",
		zap.String("hackathon_id", hackathonID.String()),
		zap.String("team_id", team.ID.String()),
		zap.Int64("registrations_removed", removed),
	)
	return nil
}

// GetMyTeam returns the roster of the team the caller registered through
func (s *registrationServiceImpl) GetMyTeam(ctx context.Context, identity domain.Identity, hackathonID uuid.UUID) (*dto.TeamResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}

	registration, err := s.registrationRepo.FindByHackathonAndUser(ctx, hackathonID, identity.UserID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Registration not found")
	}
	if registration.TeamID == nil {
		return nil, response.NewAppError(response.ErrCodeNotFound, "You are not part of a team in this hackathon", "")
	}

	if cached, ok := s.effects.teamCache.Get(ctx, *registration.TeamID); ok {
		return cached, nil
	}

	team, err := s.teamRepo.FindByIDWithMembers(ctx, *registration.TeamID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Team not found")
	}

	resp := dto.NewTeamResponse(team)
	s.effects.teamCache.Set(ctx, resp)
	return resp, nil
}

// CompleteTeam locks the roster. The completed flag flips at most once, so
// only the winning call sends the completion notifications.
func (s *registrationServiceImpl) CompleteTeam(ctx context.Context, identity domain.Identity, teamID uuid.UUID) (*dto.TeamResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, errNotAuthenticated
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeNotFound, "Team not found")
	}
	if !team.IsLeader(identity.UserID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the team leader can complete the team", "")
	}
	if team.IsCompleted {
		return nil, response.NewAppError(response.ErrCodeAlreadyCompleted, "Team is already completed", "")
	}

	hackathon, err := s.hackathonRepo.FindByID(ctx, team.HackathonID)
	if err != nil {
		return nil, lookupError(err, response.ErrCodeHackathonNotFound, "Hackathon not found")
	}
	if team.SizeCurrent < hackathon.TeamSizeMin {
		return nil, response.NewAppError(response.ErrCodeTeamTooSmall, "Team does not have enough accepted members", "")
	}

	completedAt := s.now()
	ok, err := s.teamRepo.MarkCompleted(ctx, team.ID, completedAt)
	if err != nil {
		return nil, storageError("Failed to complete team", err)
	}
	if !ok {
		return nil, response.NewAppError(response.ErrCodeAlreadyCompleted, "Team is already completed", "")
	}
	team.IsCompleted = true
	team.CompletedAt = &completedAt

	s.metrics.IncrementTeamCompleted()
	s.effects.invalidate(ctx, team.ID)

	accepted, err := s.memberRepo.FindByTeamAndStatus(ctx, team.ID, domain.MemberAccepted)
	if err != nil {
		s.logger.Warn("Failed to load members for completion notice",
			zap.String("team_id", team.ID.String()),
			zap.Error(err),
		)
	}
	for _, m := range accepted {
		s.effects.notifyMember(ctx, domain.NotificationTeamCompleted, team, m, nil)
	}

	s.logger.Info("Team completed",
		zap.String("team_id", team.ID.String()),
		zap.Int("size", team.SizeCurrent),
	)

	resp := dto.NewTeamResponse(team)
	for _, m := range accepted {
		resp.Members = append(resp.Members, *dto.NewMemberResponse(m))
	}
	return resp, nil
}

func registrationCreateError(err error) error {
	if repository.IsUniqueViolation(err) {
		return response.NewAppError(response.ErrCodeAlreadyRegistered, "You are already registered for this hackathon", "")
	}
	return storageError("Failed to create registration", err)
}
