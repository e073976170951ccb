// Package errors provides structured error types for the catalog tooling.
//
// Engine, loader and adapter failures all use these types so the CLI and
// the cloud function can log, classify and surface them the same way.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

const (
	// Catalog errors
	CodeInvalidRecord     ErrorCode = "INVALID_RECORD"
	CodeCatalogLoadError  ErrorCode = "CATALOG_LOAD_ERROR"
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// Engine errors
	CodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"

	// Infrastructure errors
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodePubSubError  ErrorCode = "PUBSUB_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeTimeoutError    ErrorCode = "TIMEOUT_ERROR"
)

// FitGlueError is the base error type.
// It carries a code for categorization, retry semantics and metadata
// identifying the offending record or setting.
type FitGlueError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *FitGlueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *FitGlueError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a FitGlueError with the same code, so
// derived errors still match their sentinel.
func (e *FitGlueError) Is(target error) bool {
	t, ok := target.(*FitGlueError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause wraps an underlying error.
func (e *FitGlueError) WithCause(cause error) *FitGlueError {
	return &FitGlueError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMessage adds a custom message.
func (e *FitGlueError) WithMessage(msg string) *FitGlueError {
	return &FitGlueError{
		Code:      e.Code,
		Message:   msg,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *FitGlueError) WithMetadata(key, value string) *FitGlueError {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &FitGlueError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or derive from them with the With* helpers.
var (
	ErrInvalidRecord     = &FitGlueError{Code: CodeInvalidRecord, Message: "invalid catalog record", Retryable: false}
	ErrCatalogLoad       = &FitGlueError{Code: CodeCatalogLoadError, Message: "failed to load catalog", Retryable: false}
	ErrUnsupportedFormat = &FitGlueError{Code: CodeUnsupportedFormat, Message: "unsupported catalog format", Retryable: false}

	ErrConfiguration = &FitGlueError{Code: CodeConfigurationError, Message: "invalid configuration", Retryable: false}

	ErrStorageError = &FitGlueError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrPubSubError  = &FitGlueError{Code: CodePubSubError, Message: "pubsub error", Retryable: true}

	ErrValidation = &FitGlueError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &FitGlueError{Code: CodeInternalError, Message: "internal error", Retryable: false}
	ErrTimeout    = &FitGlueError{Code: CodeTimeoutError, Message: "timeout", Retryable: true}
)

// New creates a new FitGlueError with the given code and message.
func New(code ErrorCode, message string) *FitGlueError {
	return &FitGlueError{
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// Wrap wraps an error with a FitGlueError.
func Wrap(cause error, code ErrorCode, message string) *FitGlueError {
	return &FitGlueError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// WrapRetryable wraps an error with a retryable FitGlueError.
func WrapRetryable(cause error, code ErrorCode, message string) *FitGlueError {
	return &FitGlueError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var fgErr *FitGlueError
	if stderrors.As(err, &fgErr) {
		return fgErr.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var fgErr *FitGlueError
	if stderrors.As(err, &fgErr) {
		return fgErr.Code
	}
	return CodeInternalError
}

// GetMetadata returns a metadata value from the first FitGlueError in the chain.
func GetMetadata(err error, key string) string {
	var fgErr *FitGlueError
	if stderrors.As(err, &fgErr) {
		return fgErr.Metadata[key]
	}
	return ""
}
