package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeSchema: an input table lacks a column it cannot do without
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypeReadFailure: a workbook exists but could not be read
	ErrTypeReadFailure ErrorType = "READ_FAILURE"
	// ErrTypeNoInput: a merge resolved to zero readable inputs
	ErrTypeNoInput ErrorType = "NO_INPUT"
	// ErrTypeValidationGap: an optional column was absent and filled with defaults
	ErrTypeValidationGap ErrorType = "VALIDATION_GAP"

	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeConflict   ErrorType = "CONFLICT"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// NewSchemaError reports a required column missing from a table
func NewSchemaError(column, source string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("required column %q missing", column), nil).
		WithContext("column", column).
		WithContext("source", source)
}

// NewReadFailure reports a workbook that exists but could not be read
func NewReadFailure(source string, cause error) *AppError {
	return NewAppError(ErrTypeReadFailure, fmt.Sprintf("failed to read %s", source), cause).
		WithContext("source", source)
}

// NewNoInputError reports a merge with nothing to merge
func NewNoInputError(message string) *AppError {
	return NewAppError(ErrTypeNoInput, message, nil)
}

// NewValidationGap records defaults filled in for an absent optional column
func NewValidationGap(column, source string) *AppError {
	return NewAppError(ErrTypeValidationGap, fmt.Sprintf("optional column %q absent, using defaults", column), nil).
		WithContext("column", column).
		WithContext("source", source)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConflictError creates a conflict error
func NewConflictError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConflict, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
