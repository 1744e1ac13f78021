// Package apperror defines the typed errors returned by the service layer.
// Handlers map them to HTTP responses; anything that is not an *AppError is
// treated as an internal error and the underlying message is never sent to
// the client.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status code, a machine-readable type and a
// message that is safe to show to the client. Internal holds the wrapped
// cause for logging only.
type AppError struct {
	Code     int    `json:"-"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap supports errors.Is / errors.As on the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewNotFound reports a missing or soft-deleted entity. Ownership
// mismatches are also reported as not-found so that existence of other
// users' polls is not leaked.
func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Type: "not_found", Message: message}
}

// NewValidation reports malformed or incomplete input.
func NewValidation(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: "validation_error", Message: message}
}

// NewUnauthorized reports a request with no resolved identity.
func NewUnauthorized(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Type: "unauthorized", Message: message}
}

// NewForbidden reports a request whose identity is resolved but not allowed.
func NewForbidden(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Type: "forbidden", Message: message}
}

// NewConflict reports a uniqueness violation that could not be absorbed by
// an upsert.
func NewConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Type: "conflict", Message: message}
}

// NewInternal wraps an unexpected error. The client sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "an unexpected error occurred",
		Internal: err,
	}
}

// Code returns the HTTP status for err, defaulting to 500 for errors that
// are not *AppError.
func Code(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// SafeMessage returns the client-safe message for err. Non-AppError causes
// collapse to a generic message so table names and query text never leak.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}
