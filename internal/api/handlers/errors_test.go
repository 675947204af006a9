package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "clientdesk-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	respondError(c, err)
	return recorder
}

// TestRespondErrorStatusCodes tests the error-kind to status-code mapping
func TestRespondErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"forbidden", apperrors.NewForbiddenError("manage_members", "organization"), http.StatusForbidden},
		{"not found", apperrors.ErrOrganizationNotFound, http.StatusNotFound},
		{"conflict", apperrors.ErrMembershipExists, http.StatusConflict},
		{"inconsistent tenant", apperrors.NewInconsistentTenantError("project"), http.StatusUnprocessableEntity},
		{"validation", apperrors.NewValidationError("slug", "must be url safe"), http.StatusBadRequest},
		{"authentication", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"rolled-back transaction", apperrors.NewTransactionError("delete organization", errors.New("deadlock detected")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := respond(t, tt.err)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

// TestRespondErrorTransactionSignalsRollback tests that a failed cascade is
// reported as rolled back rather than as an anonymous server error
func TestRespondErrorTransactionSignalsRollback(t *testing.T) {
	err := apperrors.NewTransactionError("delete organization", errors.New("deadlock detected"))
	recorder := respond(t, err)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "rolled back")
	assert.NotContains(t, recorder.Body.String(), "Internal server error")
}
