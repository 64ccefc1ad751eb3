package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for transport mapping. REST maps kinds to
// status codes; the websocket gateway maps them to error event codes.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNotFound
	KindForbidden
	KindValidation
	KindConflict
)

type AppError struct {
	Kind    Kind
	Code    string // stable machine-readable code, e.g. "FORBIDDEN"
	Message string // safe for clients
	Err     error  // underlying cause, never sent to clients
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Status() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

func NewValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

// NewInternal wraps an unexpected failure. The client only ever sees the
// generic message; err stays server-side for logging.
func NewInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "something went wrong", Err: err}
}

// From extracts an *AppError from err, or nil if err is not one.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
