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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Command construction errors
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrProjection      ErrorCode = "PROJECTION"

	// Execution errors
	ErrExecutionFailed ErrorCode = "EXECUTION_FAILED"
	ErrSpawn           ErrorCode = "SPAWN"

	// Download errors
	ErrDownload ErrorCode = "DOWNLOAD"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// BachError represents a structured error with code and details
type BachError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BachError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BachError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BachError) Is(target error) bool {
	var targetErr *BachError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BachError with the given code and message
func New(code ErrorCode, message string) *BachError {
	return &BachError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BachError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BachError {
	return &BachError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BachError
func Wrap(err error, code ErrorCode, message string) *BachError {
	if err == nil {
		return nil
	}
	return &BachError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BachError {
	if err == nil {
		return nil
	}
	return &BachError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BachError) WithDetail(key string, value interface{}) *BachError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var bachErr *BachError
	if errors.As(err, &bachErr) {
		return bachErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BachError
func GetErrorCode(err error) ErrorCode {
	var bachErr *BachError
	if errors.As(err, &bachErr) {
		return bachErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BachError
func GetErrorDetails(err error) map[string]interface{} {
	var bachErr *BachError
	if errors.As(err, &bachErr) {
		return bachErr.Details
	}
	return nil
}
