// Package apperr defines the error kinds shared by usecases and the HTTP surface.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindForbidden       Kind = "FORBIDDEN"
	KindInvalidState    Kind = "INVALID_STATE"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindValidation      Kind = "VALIDATION_FAILED"
	KindInternal        Kind = "INTERNAL"
)

// Error is a classified error. Field is set for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Field   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on kind, so errors.Is(err, apperr.NotFound("")) works for any message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Message: msg} }

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Field: field}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
