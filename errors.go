package casescrape

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFIG    = "config"    // fatal configuration error, aborts the run
	EFETCH     = "fetch"     // rendering or asset collaborator failed
	EINTERNAL  = "internal"  // unexpected internal error
	EINVALID   = "invalid"   // input cannot be processed at all
	EMALFORMED = "malformed" // embedded data could not be interpreted
	ENOTFOUND  = "not_found" // expected structure absent from the page
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("casescrape error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the error wrapped with %w, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message. A %w verb in format is honoured for unwrapping.
func Errorf(code string, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: err.Error(),
		err:     errors.Unwrap(err),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsFatal reports whether err must abort a run rather than skip a node.
// Cancellation of the run itself is detected by the caller from its own
// context; a per-request timeout is only a failed fetch.
func IsFatal(err error) bool {
	return err != nil && ErrorCode(err) == ECONFIG
}
