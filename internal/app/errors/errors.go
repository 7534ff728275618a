package errors

import (
	"fmt"
	"strings"
)

// Transcript data errors. These describe bad or incompatible content and are never retried.
var (
	ErrMalformedInput     = New("malformed input")
	ErrUnalignableOverlap = New("unalignable overlap")
	ErrExhaustedSearch    = New("exhausted search")
)

// Configuration errors
var (
	ErrMissingConfig = New("configuration is required")
	ErrInvalidConfig = New("invalid configuration")
)

// Storage errors
var (
	ErrObjectNotFound  = New("object not found")
	ErrQueryFailed     = New("query failed")
	ErrScanFailed      = New("scan failed")
	ErrInsertFailed    = New("insert failed")
	ErrFileReadFailed  = New("file read failed")
	ErrFileWriteFailed = New("file write failed")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Malformed wraps ErrMalformedInput with a description of the offending payload.
func Malformed(format string, args ...interface{}) error {
	return Wrap(ErrMalformedInput, fmt.Sprintf(format, args...))
}

// IsDataError reports whether err is caused by transcript content rather than by a
// collaborator (network, storage). Data errors must not be retried.
func IsDataError(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrMalformedInput) || Is(err, ErrUnalignableOverlap) || Is(err, ErrExhaustedSearch)
}

// Is walks the chain of err like the standard library's errors.Is.
func Is(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		if x, ok := err.(interface{ Is(error) bool }); ok && x.Is(target) {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}

// OutOfRange returns an error for values outside acceptable range
func OutOfRange(field string, min, max interface{}) error {
	return Newf("%s out of range (must be between %v and %v)", field, min, max)
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Wrap(ErrObjectNotFound, fmt.Sprintf("%s %s", itemType, identifier))
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "out of range")
}
