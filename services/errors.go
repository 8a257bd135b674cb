package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindEmptyCart
	KindAuth
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindEmptyCart:
		return "empty cart"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

// Error is the failure type every service returns for expected outcomes.
// Anything that is not an *Error is an internal failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind so callers can compare against the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrEmptyCart  = &Error{Kind: KindEmptyCart, Message: "cart is empty"}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrNotFound   = &Error{Kind: KindNotFound}

	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "user with this email already exists"}
	ErrUsernameTaken      = &Error{Kind: KindConflict, Message: "username already taken"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "invalid email or password"}
	ErrTokenInvalid       = &Error{Kind: KindAuth, Message: "invalid authentication credentials"}
	ErrTokenMalformed     = &Error{Kind: KindAuth, Message: "malformed authentication token"}
	ErrTokenRevoked       = &Error{Kind: KindAuth, Message: "token has been revoked"}
)

// KindOf reports the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
