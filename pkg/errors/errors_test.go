package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("review", "42")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "review with id 42 not found")
}

func TestAppError_Unwrap(t *testing.T) {
	err := NotFound("review", "42")
	assert.ErrorIs(t, err, ErrNotFound)

	wrapped := Internal(fmt.Errorf("pool exhausted"))
	assert.Contains(t, wrapped.Err.Error(), "pool exhausted")
}

func TestInternal_DoesNotLeakDetail(t *testing.T) {
	err := Internal(fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))
	assert.Equal(t, "an internal error occurred", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error not found", NotFound("review", "1"), http.StatusNotFound},
		{"app error invalid input", InvalidInput("rating out of range"), http.StatusBadRequest},
		{"sentinel not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"sentinel invalid input", fmt.Errorf("decode: %w", ErrInvalidInput), http.StatusBadRequest},
		{"sentinel conflict", ErrConflict, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
