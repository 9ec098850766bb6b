// Package apperr defines the typed error taxonomy shared by all engines.
// Engines validate and return these; only the HTTP handlers translate them
// into transport-level responses.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an engine failure.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidArgument
	CodeUnauthenticated
	CodeForbidden
	CodeNotFound
	CodeAlreadyExists
	CodeDuplicateKey
	CodeConflict
)

// Error carries a code, a caller-safe message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a coded error. The cause is kept for logs but
// never rendered to the caller.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }

func Forbidden(message string) *Error { return New(CodeForbidden, message) }

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }

func DuplicateKey(message string) *Error { return New(CodeDuplicateKey, message) }

func Conflict(message string) *Error { return New(CodeConflict, message) }

func Internal(err error) *Error { return Wrap(CodeInternal, "internal error", err) }

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for anything untyped.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
