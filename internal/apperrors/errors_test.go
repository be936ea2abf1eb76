package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(BadRequest("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("x")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestPublicMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "menu item not found", PublicMessage(NotFound("menu item not found")))
	assert.Equal(t, "internal server error", PublicMessage(Internal("db exploded", errors.New("connection refused"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("plain")))
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	inner := Conflict("email is already registered")
	wrapped := fmt.Errorf("register: %w", inner)

	assert.True(t, IsKind(wrapped, KindConflict))
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.Equal(t, "email is already registered", PublicMessage(wrapped))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to reach gateway", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
