// Package apperr defines the operational error taxonomy for Bazaar.
//
// Services return *apperr.Error for expected business-rule failures so that
// pkg/response can map them to stable HTTP statuses. Anything else that
// bubbles up (driver errors, bugs) is treated as an internal fault and
// surfaced as a generic 500.
//
//	if order.UserID != userID {
//	    return nil, apperr.Forbidden("you do not own this order")
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operational error.
type Kind int

const (
	// KindInternal is an unexpected system fault (default).
	KindInternal Kind = iota
	// KindNotFound — order / item / product missing.
	KindNotFound
	// KindForbidden — ownership mismatch.
	KindForbidden
	// KindConflict — invalid state: active order exists, completed order mutated.
	KindConflict
	// KindInvalid — validation failure: empty item list, malformed identifier.
	KindInvalid
	// KindUnauthorized — missing or bad credentials.
	KindUnauthorized
)

// Error is an operational error with a stable, user-visible message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────────────

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Invalid(msg string) *Error      { return &Error{Kind: KindInvalid, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Internal wraps an unexpected cause with a safe message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Wrap attaches a cause to an operational error.
func Wrap(e *Error, err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// ── Inspection ───────────────────────────────────────────────────────────────

// KindOf extracts the Kind from any error chain. Non-apperr errors are
// KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound apperr.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a KindConflict apperr.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// Status maps an error chain to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible message for err. Internal faults get a
// generic message so no detail leaks.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal Server Error"
}
