package matchmaking

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a matchmaking failure so callers can map it to a
// transport-level response without string matching.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConflict      ErrorKind = "conflict"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindState         ErrorKind = "state"
)

// Error is a matchmaking failure with a kind and a human-readable reason.
// Every expected failure from this package is of this type; anything else is
// an infrastructure error (database, I/O).
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input such as a bad court number or an
// unknown player id.
func ValidationError(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// ConflictError reports a resource that is not in a usable state, such as an
// occupied court or an already queued player.
func ConflictError(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// AuthorizationError reports a non-host attempting a host-only action.
func AuthorizationError(format string, args ...any) *Error {
	return newError(KindAuthorization, format, args...)
}

// NotFoundError reports an unknown event, match, or court.
func NotFoundError(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// StateError reports an operation that is invalid for the match's current
// state, including double completion.
func StateError(format string, args ...any) *Error {
	return newError(KindState, format, args...)
}

// KindOf extracts the error kind, or an empty string for non-matchmaking errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
