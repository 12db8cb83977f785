package api

import (
	"errors"
	"fmt"
)

// ErrCode is a typed error code enum matching the server's error envelope.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"
	ErrInvalidOTP    ErrCode = "INVALID_OTP"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden            ErrCode = "FORBIDDEN"
	ErrSubscriptionRequired ErrCode = "SUBSCRIPTION_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Attempt-specific ──────────────────────────────────────────────
	ErrTestNotAvailable ErrCode = "TEST_NOT_AVAILABLE"
	ErrAttemptSubmitted ErrCode = "ATTEMPT_ALREADY_SUBMITTED"
	ErrAttemptExpired   ErrCode = "ATTEMPT_EXPIRED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    ErrCode
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s (%d)", e.Code, e.Status)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code ErrCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
