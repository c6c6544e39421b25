// Package errors provides a lightweight structured error type (MigrateError)
// for category-based classification in the migration and import workflows.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a migration error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Document processing errors
	CategoryFrontmatter ErrorCategory = "frontmatter"
	CategoryNaming      ErrorCategory = "naming"
	CategoryAsset       ErrorCategory = "asset"
	CategoryFileSystem  ErrorCategory = "filesystem"

	// External source errors
	CategoryGit ErrorCategory = "git"

	// Runtime and infrastructure errors
	CategoryJournal  ErrorCategory = "journal"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the run before processing begins
	SeverityError   ErrorSeverity = "error"   // Fails one document, run continues
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// MigrateError is a structured error with category, severity, and context
type MigrateError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for MigrateError
type ContextFields map[string]any

// Error implements the error interface
func (e *MigrateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *MigrateError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *MigrateError) WithContext(key string, value any) *MigrateError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether the error should abort the whole run.
func (e *MigrateError) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// New creates a new MigrateError
func New(category ErrorCategory, severity ErrorSeverity, message string) *MigrateError {
	return &MigrateError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new MigrateError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *MigrateError {
	return &MigrateError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
