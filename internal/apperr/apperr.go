// Package apperr defines the domain validation error shared by grip's
// collaborators.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a semantically invalid request, such as a missing
// README or a cache that does not exist. The command line maps it to exit
// code 1 and prints its message after "Error:".
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid returns a ValidationError with a formatted message.
func Invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Wrap marks err as a validation failure, keeping it reachable through
// errors.Is and errors.As.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Msg: msg, Err: err}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
