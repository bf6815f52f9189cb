package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeNotFound  ErrorType = "NOT_FOUND"
	ErrorTypeIO        ErrorType = "IO_FAILURE"
	ErrorTypeMalformed ErrorType = "MALFORMED_STATE"
)

type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a digest, commit, or path that does not exist in the
// store or history. The id is included verbatim so the CLI can name it.
func NotFound(kind, id string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, id),
	}
}

func IO(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

// Malformed marks repository state that fails to parse (corrupted index or
// commit record). Fatal for the current command, no auto-repair.
func Malformed(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeMalformed,
		Message: message,
		Err:     err,
	}
}

func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}
