package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchema      ErrorType = "SCHEMA"
	ErrTypeParse       ErrorType = "PARSE"
	ErrTypeDataQuality ErrorType = "DATA_QUALITY"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
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

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type. The whole cause chain is searched, so a wrapped cause of a
// different kind still matches.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errType {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// Helper constructors for the error kinds the pipeline produces.

// NewSchemaError creates an error for a missing or malformed input schema.
// Schema errors are fatal: the load aborts before any row is processed.
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewParseError creates a recoverable single-row parse error.
func NewParseError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParse, message, cause)
}

// NewDataQualityError creates a fatal error raised when too many rows fail
// to parse. It wraps a parse error as the cause, so callers can see what
// kind of failure tripped the threshold. The failure count travels in the
// error context.
func NewDataQualityError(message string, failedRows int) *AppError {
	cause := NewParseError(fmt.Sprintf("%d rows failed to parse", failedRows), nil)
	return NewAppError(ErrTypeDataQuality, message, cause).
		WithContext("failed_rows", failedRows)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// IsSchema reports whether err is a schema error.
func IsSchema(err error) bool { return IsType(err, ErrTypeSchema) }

// IsParse reports whether err is a row parse error.
func IsParse(err error) bool { return IsType(err, ErrTypeParse) }

// IsDataQuality reports whether err is a data quality error.
func IsDataQuality(err error) bool { return IsType(err, ErrTypeDataQuality) }
