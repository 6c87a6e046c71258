package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{AccountDisabled("disabled"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusBadRequest},
		{Unprocessable("invalid"), http.StatusUnprocessableEntity},
		{Internal("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), "kind %s", tc.err.Kind())
	}
}

func TestConflictKeepsDistinctKind(t *testing.T) {
	err := Conflict("username already registered", WithDetail("field", "username"))

	assert.Equal(t, KindConflict, err.Kind())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("driver failure")
	err := Internal("query failed", WithCause(cause))

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "driver failure")
}

func TestWithDetail(t *testing.T) {
	err := Conflict("email already in use", WithDetail("field", "email"))

	require.NotNil(t, err.Details())
	assert.Equal(t, "email", err.Details()["field"])
}

func TestFrom(t *testing.T) {
	appErr := NotFound("gone")
	assert.Same(t, appErr, From(appErr))

	wrapped := fmt.Errorf("context: %w", appErr)
	assert.Same(t, appErr, From(wrapped))

	plain := From(errors.New("plain"))
	assert.Equal(t, KindInternal, plain.Kind())
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode())

	assert.Nil(t, From(nil))
}

func TestEmptyMessageFallsBackToKind(t *testing.T) {
	err := New(KindBadRequest, "")
	assert.Equal(t, string(KindBadRequest), err.Message())
}
