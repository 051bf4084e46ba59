package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("order not found"), http.StatusNotFound},
		{Forbidden("not yours"), http.StatusForbidden},
		{Conflict("already active"), http.StatusConflict},
		{Invalid("empty items"), http.StatusBadRequest},
		{Unauthorized("bad token"), http.StatusUnauthorized},
		{Internal("boom", errors.New("driver error")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, Status(tc.err), "error: %v", tc.err)
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "order not found", Message(NotFound("order not found")))
	assert.Equal(t, "Internal Server Error", Message(Internal("db exploded", errors.New("secret dsn"))))
	assert.Equal(t, "Internal Server Error", Message(errors.New("raw driver error")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := Conflict("user already has an active order")
	wrapped := fmt.Errorf("create order: %w", inner)

	assert.True(t, IsConflict(wrapped))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "user already has an active order", Message(wrapped))
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("unique constraint failed")
	err := Wrap(Conflict("user already has an active order"), cause)

	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unique constraint failed")
	assert.Equal(t, "user already has an active order", Message(err))
}
