// Package apperror defines the error kinds the API distinguishes and how a
// kind is carried through the service layers.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvariant    Kind = "INVARIANT_VIOLATION"
	KindConflict     Kind = "CONFLICT"
	KindTransient    Kind = "TRANSIENT_FAILURE"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an error with a kind, a user-safe message and optional field detail
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches two *Error values of the same kind and message, so sentinel
// errors survive being rebuilt with extra field detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// WithField returns a copy of e carrying one more field error
func (e *Error) WithField(field, message string) *Error {
	fields := make([]FieldError, len(e.Fields), len(e.Fields)+1)
	copy(fields, e.Fields)
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Fields:  append(fields, FieldError{Field: field, Message: message}),
		cause:   e.cause,
	}
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error   { return newError(KindValidation, message) }
func NotFound(message string) *Error     { return newError(KindNotFound, message) }
func Unauthorized(message string) *Error { return newError(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return newError(KindForbidden, message) }
func Invariant(message string) *Error    { return newError(KindInvariant, message) }
func Conflict(message string) *Error     { return newError(KindConflict, message) }
func Transient(message string) *Error    { return newError(KindTransient, message) }

// Wrap attaches cause to a copy of e
func Wrap(e *Error, cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Fields: e.Fields, cause: cause}
}

// KindOf reports the kind of err, or KindInternal when err carries none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
