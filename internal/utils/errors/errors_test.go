package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns message", func(t *testing.T) {
		err := &AppError{Code: "TEST_ERROR", Message: "test error message"}
		assert.Equal(t, "test error message", err.Error())
	})

	t.Run("Error includes wrapped error", func(t *testing.T) {
		err := &AppError{Code: "TEST_ERROR", Message: "test error message", Err: errors.New("wrapped error")}
		assert.Contains(t, err.Error(), "test error message")
		assert.Contains(t, err.Error(), "wrapped error")
	})

	t.Run("Unwrap returns wrapped error", func(t *testing.T) {
		wrapped := errors.New("wrapped error")
		err := &AppError{Code: "TEST_ERROR", Message: "test message", Err: wrapped}
		assert.Equal(t, wrapped, err.Unwrap())
	})

	t.Run("Is matches by code", func(t *testing.T) {
		err := QuotaExceeded("INSUFFICIENT_CREDITS", "not enough")
		assert.True(t, errors.Is(err, &AppError{Code: "INSUFFICIENT_CREDITS"}))
		assert.False(t, errors.Is(err, &AppError{Code: "OTHER"}))
		assert.True(t, errors.Is(err, ErrQuotaExceeded))
	})

	t.Run("WithError replaces cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := Internal("", nil).WithError(cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("page"), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", Unauthorized(""), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", Forbidden("DEVICE_MISMATCH", "x"), "DEVICE_MISMATCH", http.StatusForbidden},
		{"forbidden default", Forbidden("", ""), "FORBIDDEN", http.StatusForbidden},
		{"bad request", BadRequest("", "x"), "BAD_REQUEST", http.StatusBadRequest},
		{"quota", QuotaExceeded("", "x"), "QUOTA_EXCEEDED", http.StatusPaymentRequired},
		{"rate limited", RateLimited(""), "RATE_LIMITED", http.StatusTooManyRequests},
		{"bad gateway", BadGateway("", "x"), "BAD_GATEWAY", http.StatusBadGateway},
		{"unavailable", ServiceUnavailable(""), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"internal", Internal("", nil), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", BadGateway("", "x"), http.StatusBadGateway},
		{"wrapped app error", fmt.Errorf("ctx: %w", Unauthorized("")), http.StatusUnauthorized},
		{"sentinel", fmt.Errorf("ctx: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{"quota sentinel", ErrQuotaExceeded, http.StatusPaymentRequired},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStatusCode(tt.err))
		})
	}
}
