// Package apperr defines the typed errors returned by application services.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of the transport.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindDependency Kind = "dependency"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, err error) *Error { return New(KindValidation, message, err) }
func NotFound(message string, err error) *Error { return New(KindNotFound, message, err) }
func Forbidden(message string) *Error { return New(KindForbidden, message, nil) }
func Conflict(message string, err error) *Error { return New(KindConflict, message, err) }
func Dependency(message string, err error) *Error { return New(KindDependency, message, err) }

// WithDetails attaches field-level messages.
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
