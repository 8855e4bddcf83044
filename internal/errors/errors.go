// Package errors provides a lightweight structured error type (PackagingError)
// for category-based classification across the packaging pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a packaging error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Pre-flight and environment errors
	CategoryToolCheck ErrorCategory = "toolcheck"
	CategoryVersion   ErrorCategory = "version"

	// Emission and bundling errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryMetadata   ErrorCategory = "metadata"
	CategoryArchive    ErrorCategory = "archive"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the packaging run
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// PackagingError is a structured error with category, severity, and context
type PackagingError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PackagingError
type ContextFields map[string]any

// Error implements the error interface
func (e *PackagingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PackagingError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PackagingError) WithContext(key string, value any) *PackagingError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new PackagingError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PackagingError {
	return &PackagingError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new PackagingError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PackagingError {
	return &PackagingError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
