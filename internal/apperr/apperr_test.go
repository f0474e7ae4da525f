package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMapping(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		wantType string
		wantCode int
	}{
		{"validation", KindValidation, "ValidationError", http.StatusBadRequest},
		{"bad request", KindBadRequest, "BadRequestError", http.StatusBadRequest},
		{"not found", KindNotFound, "NotFoundError", http.StatusNotFound},
		{"duplicate", KindDuplicate, "DuplicateError", http.StatusConflict},
		{"server", KindServer, "ServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.kind.String())
			assert.Equal(t, tt.wantCode, tt.kind.HTTPStatus())
		})
	}
}

func TestNormalizePassesTypedErrorsThrough(t *testing.T) {
	orig := NotFound("user with id %s not found", "abc")
	got := Normalize(orig)
	assert.Same(t, orig, got)
}

func TestNormalizeFindsWrappedTypedErrors(t *testing.T) {
	orig := Duplicate("email %s is already in use", "a@b.co")
	wrapped := fmt.Errorf("create user: %w", orig)

	got := Normalize(wrapped)
	assert.Same(t, orig, got)
}

func TestNormalizeDefaultsToServer(t *testing.T) {
	cause := errors.New("connection reset by peer")
	got := Normalize(cause)

	require.NotNil(t, got)
	assert.Equal(t, KindServer, got.Kind)
	assert.Equal(t, "Internal server error", got.Message)
	// the raw message survives only as a detail
	assert.Equal(t, []string{"connection reset by peer"}, got.Details)
	assert.ErrorIs(t, got, cause)
}

func TestValidationCarriesOrderedDetails(t *testing.T) {
	details := []string{"name is required", "email is required"}
	err := Validation(details)

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, details, err.Details)
	assert.Contains(t, err.Error(), "name is required; email is required")
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", BadRequest("invalid task status %q", "bogus"))

	assert.True(t, IsKind(err, KindBadRequest))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindBadRequest))
}
