package errors

import (
	"fmt"
	"net/http"
)

type StatusError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func NewStatusError(code int, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

// WithReason returns a copy carrying the given reason, so the shared
// sentinels below are never mutated.
func (e *StatusError) WithReason(reason string) *StatusError {
	return &StatusError{
		Code:    e.Code,
		Message: e.Message,
		Reason:  reason,
	}
}

// Is makes errors.Is match sentinels regardless of the attached reason.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

var (
	// Authentication errors
	ErrInvalidToken = NewStatusError(http.StatusUnauthorized, "invalid token")
	ErrTokenExpired = NewStatusError(http.StatusUnauthorized, "token expired")

	// Resource errors
	ErrBlockNotFound     = NewStatusError(http.StatusNotFound, "block not found")
	ErrBlockTypeNotFound = NewStatusError(http.StatusNotFound, "block type not registered")
	ErrBlockTypeExists   = NewStatusError(http.StatusConflict, "block type already registered")

	// Validation errors
	ErrInvalidRequest = NewStatusError(http.StatusBadRequest, "invalid request")
	ErrInvalidInput   = NewStatusError(http.StatusBadRequest, "invalid input")
	ErrInvalidValue   = NewStatusError(http.StatusBadRequest, "value cannot be encoded")

	// Server errors
	ErrInternal = NewStatusError(http.StatusInternalServerError, "internal server error")

	// Generic store errors
	ErrNotFound      = NewStatusError(http.StatusNotFound, "resource not found")
	ErrAlreadyExists = NewStatusError(http.StatusConflict, "resource already exists")

	// Store operation errors
	ErrStorageOperation  = NewStatusError(http.StatusInternalServerError, "storage operation failed")
	ErrTransactionFailed = NewStatusError(http.StatusInternalServerError, "transaction failed")

	// Database specific errors
	ErrUniqueViolation    = NewStatusError(http.StatusConflict, "unique constraint violation")
	ErrDatabaseConnection = NewStatusError(http.StatusInternalServerError, "database connection failed")

	// Cache errors
	ErrCacheUnavailable = NewStatusError(http.StatusServiceUnavailable, "cache backend unavailable")
)
