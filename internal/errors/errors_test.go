package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "tenant"}
		assert.Equal(t, "tenant not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "tenant"}
		err2 := &NotFoundError{Entity: "tenant"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "tenant"}
		err2 := &NotFoundError{Entity: "user"}
		assert.False(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is with predefined errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrTenantNotFound, ErrTenantNotFound))
		assert.False(t, errors.Is(ErrTenantNotFound, ErrUserNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrTenantNotFound))
		assert.False(t, IsNotFound(ErrInvalidResetToken))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "tenant", Context: "with this identifier"}
		assert.Equal(t, "tenant already exists with this identifier", err.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "tenant"}
		assert.Equal(t, "tenant already exists", err.Error())
	})

	t.Run("errors.Is comparison", func(t *testing.T) {
		err1 := &AlreadyExistsError{Entity: "user", Context: "with this email"}
		err2 := &AlreadyExistsError{Entity: "user", Context: "with this email"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrTenantIdentifierExists))
		assert.True(t, IsAlreadyExists(ErrUserEmailExists))
		assert.False(t, IsAlreadyExists(ErrTenantNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "email", Message: "invalid format"}
		assert.Equal(t, "validation error: email - invalid format", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		err := NewValidationError("email", "invalid")
		assert.True(t, IsValidation(err))
		assert.False(t, IsValidation(ErrTenantNotFound))
	})
}

func TestAuthenticationError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		assert.Equal(t, "invalid credentials", ErrInvalidCredentials.Error())
	})

	t.Run("errors.Is comparison", func(t *testing.T) {
		assert.True(t, errors.Is(ErrAccountLocked, ErrAccountLocked))
		assert.False(t, errors.Is(ErrAccountLocked, ErrInvalidCredentials))
	})

	t.Run("IsAuthentication helper", func(t *testing.T) {
		assert.True(t, IsAuthentication(ErrInvalidCredentials))
		assert.True(t, IsAuthentication(ErrAccountLocked))
		assert.True(t, IsAuthentication(ErrTenantInactive))
		assert.False(t, IsAuthentication(ErrInvalidRefreshToken))
	})

	t.Run("wrapped authentication error", func(t *testing.T) {
		wrapped := NewAuthenticationError("session revoked")
		assert.True(t, IsAuthentication(wrapped))
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("NewNotFoundError", func(t *testing.T) {
		err := NewNotFoundError("custom entity")
		assert.Equal(t, "custom entity not found", err.Error())
		assert.True(t, IsNotFound(err))
	})

	t.Run("NewAlreadyExistsError", func(t *testing.T) {
		err := NewAlreadyExistsError("custom", "in scope")
		assert.Equal(t, "custom already exists in scope", err.Error())
		assert.True(t, IsAlreadyExists(err))
	})

	t.Run("NewValidationError", func(t *testing.T) {
		err := NewValidationError("field", "message")
		assert.Equal(t, "validation error: field - message", err.Error())
		assert.True(t, IsValidation(err))
	})
}

func TestBusinessLogicErrors(t *testing.T) {
	t.Run("Token errors", func(t *testing.T) {
		assert.Error(t, ErrInvalidRefreshToken)
		assert.Error(t, ErrRefreshTokenExpired)
		assert.Error(t, ErrInvalidResetToken)
	})
}
