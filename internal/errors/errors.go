package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Predefined error codes covering the engine's error taxonomy
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatasetNotFound   = "DATASET_NOT_FOUND"
	CodeDatasetUnreadable = "DATASET_UNREADABLE"
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeJobNotFound       = "JOB_NOT_FOUND"
	CodeNotAnalyzed       = "NOT_ANALYZED"
	CodeStoreError        = "STORE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatasetNotFound(id string) *AppError {
	return New(CodeDatasetNotFound, fmt.Sprintf("dataset '%s' not found", id))
}

func DatasetUnreadable(id string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatasetUnreadable,
		Message: fmt.Sprintf("dataset '%s' could not be read", id),
		Cause:   cause,
	}
}

func InvalidParameter(message string) *AppError {
	return New(CodeInvalidParameter, message)
}

func JobNotFound(id string) *AppError {
	return New(CodeJobNotFound, fmt.Sprintf("job '%s' not found or expired", id))
}

func NotAnalyzed(id string) *AppError {
	return New(CodeNotAnalyzed, fmt.Sprintf("no completed analysis for dataset '%s'", id))
}

func StoreError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeStoreError,
		Message: message,
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
