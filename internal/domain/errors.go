package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/DukeRupert/pagedlist"
)

// Application error codes
const (
	EINVALID     = "invalid"     // Invalid input or validation failure
	ENOTFOUND    = "not_found"   // Resource not found
	ERATELIMIT   = "rate_limit"  // Rate limit exceeded
	ETIMEOUT     = "timeout"     // Upstream did not answer in time
	EUNAVAILABLE = "unavailable" // Upstream store unreachable
	EINTERNAL    = "internal"    // Internal server error
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "items.list")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code, op, message string) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error. Internal
// errors get a generic message so details do not leak to clients.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// NotFound creates a not found error.
func NotFound(op, message string) *Error {
	return &Error{Code: ENOTFOUND, Op: op, Message: message}
}

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}

// RateLimit creates a rate limit error.
func RateLimit(op string) *Error {
	return &Error{
		Code:    ERATELIMIT,
		Op:      op,
		Message: "Too many requests. Please try again later.",
	}
}

// FromPaging classifies an error returned by the pagedlist package.
func FromPaging(err error, op string) *Error {
	if err == nil {
		return nil
	}

	switch pagedlist.ErrorCode(err) {
	case pagedlist.CodePageNumberTooSmall:
		return Wrap(err, EINVALID, op, "Page number must be 1 or greater.")
	case pagedlist.CodePageSizeTooSmall:
		return Wrap(err, EINVALID, op, "Page size must be 1 or greater.")
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ETIMEOUT, op, "The item store took too long to respond.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, EUNAVAILABLE, op, "The request was cancelled.")
	case pagedlist.ErrorCode(err) == pagedlist.CodeSource:
		return Wrap(err, EUNAVAILABLE, op, "The item store is unavailable.")
	}
	return Internal(err, op, "Failed to load items")
}
