// Package errors provides structured error types for pomwalk.
//
// This package defines error codes and types that enable:
//   - Branch-level failure accounting in the closure walk
//   - Machine-readable error codes for tests and exit-status mapping
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure kinds a walk can run into:
//   - USAGE: the command line was incomplete
//   - DESCRIPTOR_*: a pom.xml could not be read or decoded
//   - UNRESOLVED_VERSION: no explicit, managed or interpolated version exists
//   - ARTIFACT_NOT_FOUND, TRANSPORT: remote repository failures
//   - INVALID_*: configuration and input validation failures
//
// Only USAGE and the DESCRIPTOR_* codes on the root descriptor are fatal; every
// other code marks a skipped branch.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnresolvedVersion, "no version for %s", coord)
//	if errors.Is(err, errors.ErrCodeUnresolvedVersion) {
//	    // record the skip and continue with the next dependency
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Command line errors
	ErrCodeUsage Code = "USAGE"

	// Descriptor errors
	ErrCodeDescriptorUnreadable Code = "DESCRIPTOR_UNREADABLE"
	ErrCodeDescriptorMalformed  Code = "DESCRIPTOR_MALFORMED"

	// Resolution errors
	ErrCodeUnresolvedVersion Code = "UNRESOLVED_VERSION"

	// Repository errors
	ErrCodeArtifactNotFound Code = "ARTIFACT_NOT_FOUND"
	ErrCodeTransport        Code = "TRANSPORT"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets the standard errors.Is match on code alone:
//
//	errors.Is(err, &Error{Code: ErrCodeTransport})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err without code prefixes, for terminal output.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// Fatal reports whether err must abort the whole walk rather than a branch.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUsage, ErrCodeDescriptorUnreadable, ErrCodeDescriptorMalformed, ErrCodeInvalidConfig:
		return true
	}
	return false
}
