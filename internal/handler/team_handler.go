package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/service"
)

type TeamHandler struct {
	registrationService service.RegistrationService
	memberService       service.TeamMemberService
	logger              *zap.Logger
}

func NewTeamHandler(registrationService service.RegistrationService, memberService service.TeamMemberService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		registrationService: registrationService,
		memberService:       memberService,
		logger:              logger,
	}
}

// AddTeamMember godoc
// @Summary      Invite a member
// @Description  Leader-only. Creates a pending member and queues an invitation email.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Param        request body dto.AddMemberRequest true "Invitee"
// @Success      201 {object} response.SuccessResponse{data=dto.MemberResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /teams/{teamId}/members [post]
func (h *TeamHandler) AddTeamMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	teamID, ok := uuidParam(c, "teamId", "team")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.memberService.AddTeamMember(c.Request.Context(), identity, teamID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, member)
}

// CompleteTeam godoc
// @Summary      Mark a team as completed
// @Tags         teams
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /teams/{teamId}/complete [post]
func (h *TeamHandler) CompleteTeam(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	teamID, ok := uuidParam(c, "teamId", "team")
	if !ok {
		return
	}

	team, err := h.registrationService.CompleteTeam(c.Request.Context(), identity, teamID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, team)
}

// UpdateTeamMember godoc
// @Summary      Update a member's profile
// @Description  Allowed for the leader and for the member themselves. Accepted members' registrations follow.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        memberId path string true "Member ID (UUID)"
// @Param        request body dto.UpdateMemberRequest true "Profile"
// @Success      200 {object} response.SuccessResponse{data=dto.MemberResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Router       /members/{memberId} [put]
func (h *TeamHandler) UpdateTeamMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "memberId", "member")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.memberService.UpdateTeamMember(c.Request.Context(), identity, memberID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// RemoveMember godoc
// @Summary      Remove a member from the team
// @Tags         members
// @Produce      json
// @Param        memberId path string true "Member ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Router       /members/{memberId} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "memberId", "member")
	if !ok {
		return
	}

	if err := h.memberService.RemoveMember(c.Request.Context(), identity, memberID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}
