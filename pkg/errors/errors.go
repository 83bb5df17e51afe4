// Package errors defines the structured error type returned across modreg.
//
// Every error carries a stable ErrorCode so callers and tests can branch on
// the kind of failure without matching message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Module registry errors
	ErrDependencyNotLoaded ErrorCode = "DEPENDENCY_NOT_LOADED"
	ErrModuleExists        ErrorCode = "MODULE_EXISTS"
	ErrModuleNotBuilt      ErrorCode = "MODULE_NOT_BUILT"
	ErrFactoryFailed       ErrorCode = "FACTORY_FAILED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestLoad    ErrorCode = "MANIFEST_LOAD"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"
)

// ModregError is a structured error with a code and optional details
type ModregError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *ModregError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ModregError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ModregError with the same code
func (e *ModregError) Is(target error) bool {
	var targetErr *ModregError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModregError with the given code and message
func New(code ErrorCode, message string) *ModregError {
	return &ModregError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModregError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModregError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *ModregError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModregError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *ModregError) WithDetail(key string, value interface{}) *ModregError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var modErr *ModregError
	if errors.As(err, &modErr) {
		return modErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ModregError
func GetErrorCode(err error) ErrorCode {
	var modErr *ModregError
	if errors.As(err, &modErr) {
		return modErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ModregError
func GetErrorDetails(err error) map[string]interface{} {
	var modErr *ModregError
	if errors.As(err, &modErr) {
		return modErr.Details
	}
	return nil
}
