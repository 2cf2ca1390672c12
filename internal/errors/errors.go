// Package errors provides centralized error handling with component and
// category metadata for structured logging and failure triage.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCategory represents the type of error for better categorization.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryDatabase      ErrorCategory = "database"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryState         ErrorCategory = "state"
	CategoryFileIO        ErrorCategory = "file-io"

	// Detection pipeline categories.
	CategoryClassifier   ErrorCategory = "classifier"       // face/object classifier call failed
	CategoryCapture      ErrorCategory = "capture"          // audio/video source not accessible
	CategorySinkDelivery ErrorCategory = "sink-delivery"    // event could not be persisted
	CategoryAudio        ErrorCategory = "audio-processing" // audio buffer analysis
	CategoryCancellation ErrorCategory = "cancellation"     // cancelled operations
	CategoryGeneric      ErrorCategory = "generic"
)

// EnhancedError wraps an error with component, category and context metadata.
type EnhancedError struct {
	Err       error
	Component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
}

// Error implements the error interface.
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface.
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches other enhanced errors by category, otherwise defers to the
// wrapped error chain.
func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return stderrors.Is(ee.Err, target)
}

// LogAttrs returns the metadata as alternating key/value pairs suitable for
// slog calls.
func (ee *EnhancedError) LogAttrs() []any {
	attrs := []any{
		"component", ee.Component,
		"category", string(ee.Category),
	}
	for k, v := range ee.Context {
		attrs = append(attrs, k, v)
	}
	return attrs
}

// ErrorBuilder provides a fluent interface for creating enhanced errors.
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error builder wrapping err.
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new builder wrapping a formatted error.
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name.
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category for grouping.
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds a context key/value to the error.
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build finalizes the enhanced error.
func (eb *ErrorBuilder) Build() error {
	category := eb.category
	if category == "" {
		category = CategoryGeneric
	}
	return &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// CategoryOf returns the category of err if it is an enhanced error,
// CategoryGeneric otherwise.
func CategoryOf(err error) ErrorCategory {
	var ee *EnhancedError
	if stderrors.As(err, &ee) {
		return ee.Category
	}
	return CategoryGeneric
}

// IsNotFound reports whether err carries the not-found category.
func IsNotFound(err error) bool {
	return CategoryOf(err) == CategoryNotFound
}
