// Package apperr defines the expected, user-recoverable errors of the claim
// workflow. Anything that is not an *Error is treated as an internal failure.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeForbidden    Code = "FORBIDDEN"
	CodeInvalidState Code = "INVALID_STATE"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
)

// HTTPStatus maps the code to the status the transport responds with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidState, CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is an expected domain error with a stable code and a message that is
// safe to show to the caller.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that keeps the underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func InvalidState(message string) *Error { return New(CodeInvalidState, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }
func RateLimited(message string) *Error  { return New(CodeRateLimited, message) }
func Validation(message string) *Error   { return New(CodeValidation, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }

// Sentinels for errors.Is checks; only the code is compared.
var (
	ErrNotFound     = New(CodeNotFound, "not found")
	ErrForbidden    = New(CodeForbidden, "forbidden")
	ErrInvalidState = New(CodeInvalidState, "invalid state")
	ErrConflict     = New(CodeConflict, "conflict")
	ErrRateLimited  = New(CodeRateLimited, "rate limited")
	ErrValidation   = New(CodeValidation, "validation failed")
	ErrUnauthorized = New(CodeUnauthorized, "unauthorized")
)

// As returns the domain error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
