// Package apperr classifies service failures so the HTTP layer can pick a
// status code without knowing where an error came from.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid         = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
)

// Error carries a user-facing message next to its kind and cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Invalid(msg string) error     { return newError(ErrInvalid, msg, nil) }
func NotFound(msg string) error    { return newError(ErrNotFound, msg, nil) }
func Forbidden(msg string) error   { return newError(ErrForbidden, msg, nil) }
func Conflict(msg string) error    { return newError(ErrConflict, msg, nil) }
func Unavailable(msg string) error { return newError(ErrUnavailable, msg, nil) }

// Wrap attaches kind and a user-facing message to cause.
func Wrap(kind error, msg string, cause error) error {
	return newError(kind, msg, cause)
}

// Message returns the user-facing message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
