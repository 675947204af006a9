package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := ErrOrganizationNotFound
	assert.Equal(t, "organization not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, &NotFoundError{Entity: "organization"}))
	assert.False(t, errors.Is(err, &NotFoundError{Entity: "client"}))
}

func TestNotFoundErrorWrapped(t *testing.T) {
	err := fmt.Errorf("loading record: %w", ErrTaskNotFound)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestForbiddenError(t *testing.T) {
	err := NewForbiddenError("manage_members", "7f1c0d9a")
	assert.Contains(t, err.Error(), "manage_members")
	assert.True(t, IsForbidden(err))
	// Any ForbiddenError matches the sentinel regardless of detail
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestForbiddenErrorWithoutDetail(t *testing.T) {
	assert.Equal(t, "forbidden", ErrForbidden.Error())
	assert.True(t, IsForbidden(fmt.Errorf("denied: %w", ErrForbidden)))
}

func TestConflictError(t *testing.T) {
	err := ErrMembershipExists
	assert.Equal(t, "membership already exists for this identity in the organization", err.Error())
	assert.True(t, IsConflict(err))
	assert.True(t, errors.Is(err, &ConflictError{Entity: "membership"}))
	assert.False(t, errors.Is(err, &ConflictError{Entity: "organization"}))
}

func TestInconsistentTenantError(t *testing.T) {
	err := NewInconsistentTenantError("invoice line item")
	assert.Contains(t, err.Error(), "does not match its parent")
	assert.True(t, IsInconsistentTenant(err))
	assert.False(t, IsNotFound(err))
}

func TestTransactionError(t *testing.T) {
	cause := errors.New("constraint violated")
	err := NewTransactionError("delete organization", cause)
	assert.Contains(t, err.Error(), "delete organization failed")
	assert.True(t, IsTransaction(err))
	assert.True(t, errors.Is(err, cause))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "must be a valid address")
	assert.Equal(t, "validation error: email - must be a valid address", err.Error())
	assert.True(t, IsValidation(err))
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := NewValidationError("", "payload malformed")
	assert.Equal(t, "validation error: payload malformed", err.Error())
}

func TestAuthenticationError(t *testing.T) {
	assert.True(t, IsAuthentication(ErrInvalidCredentials))
	assert.True(t, IsAuthentication(ErrPasswordResetDue))
	assert.False(t, IsAuthentication(ErrForbidden))
}

func TestErrorKindsAreDistinguishable(t *testing.T) {
	// The presentation layer relies on each kind mapping to exactly one predicate.
	kinds := []struct {
		err  error
		want func(error) bool
	}{
		{ErrClientNotFound, IsNotFound},
		{ErrForbidden, IsForbidden},
		{ErrMembershipExists, IsConflict},
		{NewInconsistentTenantError("attachment"), IsInconsistentTenant},
		{NewTransactionError("cascade", errors.New("boom")), IsTransaction},
		{NewValidationError("role", "unknown role"), IsValidation},
	}
	preds := []func(error) bool{IsNotFound, IsForbidden, IsConflict, IsInconsistentTenant, IsTransaction, IsValidation}
	for _, k := range kinds {
		matches := 0
		for _, p := range preds {
			if p(k.err) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "error %v should match exactly one kind", k.err)
		assert.True(t, k.want(k.err))
	}
}
