package service

import (
	"errors"

	"hackathon-team-api/internal/domain"
	"hackathon-team-api/internal/repository"
	"hackathon-team-api/internal/response"
	"hackathon-team-api/internal/saga"
)

var errNotAuthenticated = response.NewAppError(response.ErrCodeUnauthorized, "Authentication required", "")

func storageError(message string, err error) error {
	return response.NewAppError(response.ErrCodeStorage, message, err.Error())
}

func validationError(err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return response.NewAppError(response.ErrCodeValidation, "Invalid "+vErr.Field, vErr.Reason)
	}
	return response.NewAppError(response.ErrCodeValidation, "Invalid request", err.Error())
}

// lookupError maps a repository read failure: missing rows become code,
// anything else is a storage failure.
func lookupError(err error, code, message string) error {
	if repository.IsNotFound(err) {
		return response.NewAppError(code, message, "")
	}
	return storageError("Failed to load data", err)
}

// stepError maps a failed saga step. A failed rollback is always reported as
// a storage failure since the caller cannot assume the original state.
func stepError(err error, message string) error {
	if compensationFailed(err) {
		return response.NewAppError(response.ErrCodeStorage, message, err.Error())
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return storageError(message, err)
}

func compensationFailed(err error) bool {
	var cErr *saga.CompensationError
	return errors.As(err, &cErr)
}
