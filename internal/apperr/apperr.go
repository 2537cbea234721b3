// Package apperr carries a small error taxonomy across the HTTP boundary so
// the sync client can react to failure classes (conflict vs. missing vs.
// unreachable) instead of string-matching messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Unavailable covers transient transport failures. Never retried
	// automatically; the user retries by re-triggering the action.
	Unavailable Kind = iota
	// Conflict covers state that already exists: duplicate pending invite,
	// username taken, invite no longer pending.
	Conflict
	NotFound
	Unauthorized
	// Invalid covers rejected input (self-invite, missing fields, bad kind).
	Invalid
	// Invariant marks a broken server-side guarantee. Fatal to the operation
	// and always logged, never swallowed.
	Invariant
)

// Stable machine-readable codes for failures the UI must tell apart.
const (
	CodeSelfInvite      = "self_invite"
	CodeAlreadyMember   = "already_member"
	CodeDuplicateInvite = "duplicate_invite"
	CodeUserNotFound    = "user_not_found"
)

type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func NewCode(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err if it carries one, defaulting to Unavailable
// for plain errors (transport failures arrive unwrapped).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unavailable
}

// CodeOf returns the stable code of err, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool  { return KindOf(err) == NotFound }
func IsConflict(err error) bool  { return KindOf(err) == Conflict }
func IsDuplicate(err error) bool { return CodeOf(err) == CodeDuplicateInvite }

// HTTPStatus maps a kind to the status the API responds with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusForbidden
	case Invalid:
		return http.StatusBadRequest
	case Invariant:
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

// FromStatus maps a response status back to a kind on the client side.
func FromStatus(status int) Kind {
	switch status {
	case http.StatusConflict:
		return Conflict
	case http.StatusNotFound:
		return NotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return Unauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return Invalid
	default:
		return Unavailable
	}
}
