package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrConfigLocked  ErrorCode = "CONFIG_LOCKED"
	ErrConfigMissing ErrorCode = "CONFIG_MISSING"

	// Adapter errors (preference and package stores)
	ErrDomainMissing   ErrorCode = "DOMAIN_MISSING"
	ErrPreferenceRead  ErrorCode = "PREFERENCE_READ"
	ErrPreferenceSet   ErrorCode = "PREFERENCE_SET"
	ErrPreferenceUnset ErrorCode = "PREFERENCE_UNSET"
	ErrPackageList     ErrorCode = "PACKAGE_LIST"
	ErrPackageInstall  ErrorCode = "PACKAGE_INSTALL"

	// Snapshot errors
	ErrSnapshotMissing ErrorCode = "SNAPSHOT_MISSING"
	ErrSnapshotCorrupt ErrorCode = "SNAPSHOT_CORRUPT"
	ErrSnapshotWrite   ErrorCode = "SNAPSHOT_WRITE"

	// Command errors
	ErrVariableUnresolved ErrorCode = "VARIABLE_UNRESOLVED"
	ErrCommandNotFound    ErrorCode = "COMMAND_NOT_FOUND"
	ErrCommandFailed      ErrorCode = "COMMAND_FAILED"
)

// PrefsyncError represents a structured error with code and details
type PrefsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PrefsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PrefsyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PrefsyncError) Is(target error) bool {
	var targetErr *PrefsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PrefsyncError with the given code and message
func New(code ErrorCode, message string) *PrefsyncError {
	return &PrefsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PrefsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PrefsyncError {
	return &PrefsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PrefsyncError
func Wrap(err error, code ErrorCode, message string) *PrefsyncError {
	if err == nil {
		return nil
	}
	return &PrefsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PrefsyncError {
	if err == nil {
		return nil
	}
	return &PrefsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PrefsyncError) WithDetail(key string, value interface{}) *PrefsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var perr *PrefsyncError
	if errors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PrefsyncError
func GetErrorCode(err error) ErrorCode {
	var perr *PrefsyncError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ErrUnknown
}
