package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeAndMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "subject not found")

	assert.Equal(t, "subject not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	raw := fmt.Errorf("boom")
	appErr := FromError(raw)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, raw)
	assert.Nil(t, FromError(nil))
}

func TestFromErrorUnwrapsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", Clone(ErrConflict, "timer already running"))
	appErr := FromError(wrapped)

	assert.Equal(t, ErrConflict.Code, appErr.Code)
	assert.Equal(t, "timer already running", appErr.Message)
	assert.Equal(t, "timer already running: boom", Wrap(errors.New("boom"), "X", 500, "timer already running").Error())
}
