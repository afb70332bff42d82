package apperr

import (
	"errors"
	"fmt"
)

// Error is a domain error. Args are the message arguments, in the order the
// catalog messages for Code expect them.
type Error struct {
	Code  Code
	Args  []any
	Cause error
}

// New creates a domain error.
func New(code Code, args ...any) *Error {
	return &Error{Code: code, Args: args}
}

// Wrap creates a domain error caused by err.
func Wrap(code Code, cause error, args ...any) *Error {
	return &Error{Code: code, Args: args, Cause: cause}
}

// Error returns the English message, for logs.
func (e *Error) Error() string {
	msg := Message(DefaultTag, e)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is works against the
// sentinel values returned by New.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// Kind returns the kind of the error's code.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// KindOf returns the kind of err, KindInternal for non-domain errors.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}
