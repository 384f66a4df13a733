package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/service"
)

type InviteHandler struct {
	inviteService service.InviteService
	logger        *zap.Logger
}

func NewInviteHandler(inviteService service.InviteService, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		logger:        logger,
	}
}

// ResolveInvite godoc
// @Summary      Resolve a join link
// @Description  Reports whether the caller can accept an invitation to the team and links their account to it.
// @Tags         invites
// @Produce      json
// @Param        hackathonId path string true "Hackathon ID (UUID)"
// @Param        teamId path string true "Team ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.InviteResolution}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /hackathons/{hackathonId}/join-team/{teamId} [get]
func (h *InviteHandler) ResolveInvite(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	hackathonID, ok := uuidParam(c, "hackathonId", "hackathon")
	if !ok {
		return
	}
	teamID, ok := uuidParam(c, "teamId", "team")
	if !ok {
		return
	}

	resolution, err := h.inviteService.ResolveInvite(c.Request.Context(), identity, hackathonID, teamID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, resolution)
}

// AcceptInvite godoc
// @Summary      Accept an invitation
// @Tags         invites
// @Produce      json
// @Param        memberId path string true "Member ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.MemberResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /members/{memberId}/accept [post]
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "memberId", "member")
	if !ok {
		return
	}

	member, err := h.inviteService.AcceptInvite(c.Request.Context(), identity, memberID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// DeclineInvite godoc
// @Summary      Decline an invitation
// @Tags         invites
// @Produce      json
// @Param        memberId path string true "Member ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /members/{memberId}/decline [post]
func (h *InviteHandler) DeclineInvite(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "memberId", "member")
	if !ok {
		return
	}

	if err := h.inviteService.DeclineInvite(c.Request.Context(), identity, memberID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}
