// Package errors provides structured error types for depreport.
//
// This package defines error codes and types that enable:
//   - Consistent handling of fatal and recoverable failures
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the failure kinds of a report run:
//   - INVALID_CONFIG: malformed registry configuration, fatal before any fetch
//   - PACKAGE_NOT_FOUND, NETWORK_ERROR: registry had no usable answer, reported as a warning
//   - PROVENANCE_UNAVAILABLE: the package manager could not explain a dependency, reported as a warning
//   - DIFF_READ: a manifest could not be diffed, returned after partial output is flushed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "registry must be a string, got %T", v)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDiffRead, origErr, "diff %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Lookup errors, recovered locally as warnings
	ErrCodePackageNotFound       Code = "PACKAGE_NOT_FOUND"
	ErrCodeNetwork               Code = "NETWORK_ERROR"
	ErrCodeProvenanceUnavailable Code = "PROVENANCE_UNAVAILABLE"

	// Manifest errors
	ErrCodeDiffRead Code = "DIFF_READ"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err must abort a run. Lookup failures are
// recoverable; everything else is not.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodePackageNotFound, ErrCodeNetwork, ErrCodeProvenanceUnavailable:
		return false
	}
	return err != nil
}
