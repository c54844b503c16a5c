package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesSentinels(t *testing.T) {
	err := fmt.Errorf("service: %w", NewValidationError("rate must be positive"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "rate must be positive")

	err = NewNotFoundError("currency XXX not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrValidation))

	err = NewConfigurationError("no api rate")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewAppError(500, "boom", nil)
	assert.Equal(t, "boom", err.Error())
	assert.Nil(t, err.Unwrap())
}
