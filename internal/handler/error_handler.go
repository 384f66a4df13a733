package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hackathon-team-api/internal/response"
)

// handleServiceError maps service layer errors to appropriate HTTP responses
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error("Service error",
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message),
				zap.String("details", appErr.Details),
				zap.String("path", c.FullPath()),
			)
		} else {
			logger.Debug("Request refused",
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message),
				zap.String("path", c.FullPath()),
			)
		}
		response.SendError(c, status, appErr.Code, appErr.Message)
		return
	}

	logger.Error("Unhandled service error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden, response.ErrCodeNotInvited, response.ErrCodeEmailNotVerified:
		return http.StatusForbidden
	case response.ErrCodeNotFound, response.ErrCodeHackathonNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyRegistered,
		response.ErrCodeAlreadyRegisteredElsewhere,
		response.ErrCodeRegistrationClosed,
		response.ErrCodeTeamFull,
		response.ErrCodeTeamTooSmall,
		response.ErrCodeTeamNameConflict,
		response.ErrCodeAlreadyCompleted,
		response.ErrCodeAlreadyInvited,
		response.ErrCodeInvalidTransition:
		return http.StatusConflict
	case response.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
