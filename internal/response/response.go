package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes shared by services and handlers
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeStorage      = "STORAGE_ERROR"

	ErrCodeHackathonNotFound          = "HACKATHON_NOT_FOUND"
	ErrCodeAlreadyRegistered          = "ALREADY_REGISTERED"
	ErrCodeAlreadyRegisteredElsewhere = "ALREADY_REGISTERED_ELSEWHERE"
	ErrCodeRegistrationClosed         = "REGISTRATION_CLOSED"
	ErrCodeTeamFull                   = "TEAM_FULL"
	ErrCodeTeamTooSmall               = "TEAM_TOO_SMALL"
	ErrCodeTeamNameConflict           = "TEAM_NAME_CONFLICT"
	ErrCodeAlreadyCompleted           = "ALREADY_COMPLETED"
	ErrCodeAlreadyInvited             = "ALREADY_INVITED"
	ErrCodeNotInvited                 = "NOT_INVITED"
	ErrCodeEmailNotVerified           = "EMAIL_NOT_VERIFIED"
	ErrCodeInvalidTransition          = "INVALID_TRANSITION"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// ErrorBody is the error part of the response envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse wraps successful payloads
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse wraps failures
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// SendError writes an error envelope
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message},
	})
}
