package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackathon-team-api/internal/dto"
	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/service"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
	logger              *zap.Logger
}

func NewRegistrationHandler(registrationService service.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Register godoc
// @Summary      Register for a hackathon
// @Description  Registers the caller. Team hackathons also create the team with the caller as leader.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        hackathonId path string true "Hackathon ID (UUID)"
// @Param        request body dto.RegisterRequest true "Profile and optional team"
// @Success      201 {object} response.SuccessResponse{data=dto.RegistrationResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /hackathons/{hackathonId}/registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	hackathonID, ok := uuidParam(c, "hackathonId", "hackathon")
	if !ok {
		return
	}

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	registration, err := h.registrationService.Register(c.Request.Context(), identity, hackathonID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, registration)
}

// CancelRegistration godoc
// @Summary      Cancel the caller's registration
// @Description  Leaders cancelling a team registration dissolve the team and release every member.
// @Tags         registrations
// @Produce      json
// @Param        hackathonId path string true "Hackathon ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /hackathons/{hackathonId}/registrations/me [delete]
func (h *RegistrationHandler) CancelRegistration(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	hackathonID, ok := uuidParam(c, "hackathonId", "hackathon")
	if !ok {
		return
	}

	if err := h.registrationService.CancelRegistration(c.Request.Context(), identity, hackathonID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// GetMyTeam godoc
// @Summary      Get the caller's team
// @Tags         registrations
// @Produce      json
// @Param        hackathonId path string true "Hackathon ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /hackathons/{hackathonId}/my-team [get]
func (h *RegistrationHandler) GetMyTeam(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	hackathonID, ok := uuidParam(c, "hackathonId", "hackathon")
	if !ok {
		return
	}

	team, err := h.registrationService.GetMyTeam(c.Request.Context(), identity, hackathonID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, team)
}
