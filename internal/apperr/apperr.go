// Package apperr carries the error taxonomy shared across features.
//
// Kinds map one-to-one onto how a failure is surfaced: validation and
// authorization failures never reach the network, policy failures force a
// sign-out, auth and persistence failures are reported as-is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: input rejected before any provider call.
	KindValidation
	// KindPolicy: the provider succeeded but organizational policy rejected
	// the result (wrong domain, unverified email).
	KindPolicy
	// KindAuth: the provider rejected the credentials or sign-in.
	KindAuth
	// KindPersistence: a document-store read or write failed.
	KindPersistence
	// KindAuthorization: an admin-only action attempted without the role.
	KindAuthorization
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %v", e.Msg, e.Err)
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func Policy(msg string) error { return &Error{Kind: KindPolicy, Msg: msg} }
func Authorization(msg string) error { return &Error{Kind: KindAuthorization, Msg: msg} }

func Auth(msg string, err error) error {
	return &Error{Kind: KindAuth, Msg: msg, Err: err}
}

func Persistence(msg string, err error) error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// KindOf returns the taxonomy kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err belongs to the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// HTTPStatus maps an error to the status its handler should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindPolicy, KindAuthorization:
		return http.StatusForbidden
	case KindPersistence:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for err without internal detail.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "unexpected error"
}
