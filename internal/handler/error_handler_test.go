package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"hackathon-team-api/internal/response"
)

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{response.ErrCodeValidation, http.StatusBadRequest},
		{response.ErrCodeUnauthorized, http.StatusUnauthorized},
		{response.ErrCodeForbidden, http.StatusForbidden},
		{response.ErrCodeNotInvited, http.StatusForbidden},
		{response.ErrCodeEmailNotVerified, http.StatusForbidden},
		{response.ErrCodeNotFound, http.StatusNotFound},
		{response.ErrCodeHackathonNotFound, http.StatusNotFound},
		{response.ErrCodeAlreadyRegistered, http.StatusConflict},
		{response.ErrCodeAlreadyRegisteredElsewhere, http.StatusConflict},
		{response.ErrCodeRegistrationClosed, http.StatusConflict},
		{response.ErrCodeTeamFull, http.StatusConflict},
		{response.ErrCodeTeamTooSmall, http.StatusConflict},
		{response.ErrCodeTeamNameConflict, http.StatusConflict},
		{response.ErrCodeAlreadyCompleted, http.StatusConflict},
		{response.ErrCodeAlreadyInvited, http.StatusConflict},
		{response.ErrCodeInvalidTransition, http.StatusConflict},
		{response.ErrCodeStorage, http.StatusServiceUnavailable},
		{response.ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantLogged bool
	}{
		{"app error", response.NewAppError(response.ErrCodeTeamFull, "Team is full", ""), http.StatusConflict, response.ErrCodeTeamFull, false},
		{"wrapped app error", fmt.Errorf("accept: %w", response.NewAppError(response.ErrCodeNotInvited, "Not invited", "")), http.StatusForbidden, response.ErrCodeNotInvited, false},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, response.ErrCodeNotFound, false},
		{"storage error", response.NewAppError(response.ErrCodeStorage, "Failed to load data", "conn reset"), http.StatusServiceUnavailable, response.ErrCodeStorage, true},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, response.ErrCodeInternal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleServiceError(c, zap.New(core), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantLogged, logs.Len() > 0)
		})
	}
}
