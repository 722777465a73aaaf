package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation(t *testing.T) {
	e := Validation("email is required")
	assert.Equal(t, CodeValidation, e.Code)
	assert.Equal(t, "email is required", e.Message)
	assert.Nil(t, e.Inner)
	assert.True(t, IsValidation(e))
	assert.False(t, IsDuplicateEmail(e))
}

func TestService_WithInner(t *testing.T) {
	inner := errors.New("bcrypt failed")
	e := Service("could not register", inner)
	assert.Equal(t, CodeServiceError, e.Code)
	assert.Same(t, inner, e.Inner)
	assert.ErrorIs(t, e, inner)
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "forbidden: admins only", Forbidden("admins only").Error())
	e := Unauthorized("authentication failed", errors.New("expired"))
	assert.Equal(t, "unauthorized: authentication failed: expired", e.Error())
}

func TestAs_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", InvalidCredentials("invalid credentials", nil))
	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidCredentials, e.Code)
	assert.True(t, IsInvalidCredentials(wrapped))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "duplicate", err: DuplicateEmail("taken", nil), want: CodeDuplicateEmail},
		{name: "unavailable", err: ServiceUnavailable("no key"), want: CodeServiceUnavailable},
		{name: "unclassified", err: errors.New("boom"), want: CodeServiceError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestIsHelpers_Nil(t *testing.T) {
	assert.False(t, IsService(nil))
	assert.False(t, IsUnauthorized(nil))
	assert.False(t, IsForbidden(nil))
	assert.False(t, IsServiceUnavailable(nil))
}
