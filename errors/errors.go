// Package errors provides unified error handling for dependkit.
// It implements structured error types with machine-readable codes so
// callers can tell a misconfigured dependency graph (programmer error)
// apart from bad external configuration data (data error).
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type for all dependkit failures.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsDataError reports whether the error carries bad external data rather
// than a misconfigured dependency graph.
func (e *AppError) IsDataError() bool { return IsDataCode(e.Code) }

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// Resolution creates a new AppError for a dependency whose factory or
// loader failed. dependency names the failing dependency.
func Resolution(dependency string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeResolution, Message: fmt.Sprintf("failed to resolve dependency %q", dependency),
		Cause:   cause,
		Details: map[string]any{"dependency": dependency},
	}
}

// Validation creates a new AppError for data that failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// UnsupportedType creates a new AppError for a type with no validation path.
func UnsupportedType(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedType, Message: fmt.Sprintf("type %s is not supported by the adapter or any tag convention", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// Discriminator creates a new AppError for a discriminated union whose
// discriminant value is missing or matches no candidate.
func Discriminator(message string) *AppError {
	return &AppError{Code: ErrCodeDiscriminator, Message: message}
}

// Alias creates a new AppError for candidate type names with no common
// naming overlap.
func Alias(names []string) *AppError {
	return &AppError{
		Code: ErrCodeAlias, Message: fmt.Sprintf("unable to compute an alias for types %v: ensure there is a naming overlap between each of the types", names),
		Details: map[string]any{"types": names},
	}
}

// Source creates a new AppError for a configuration source read failure.
// The source name and key give the caller data-error context.
func Source(source, key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSource, Message: fmt.Sprintf("source %q failed for key %q", source, key),
		Cause:   cause,
		Details: map[string]any{"source": source, "key": key},
	}
}

// InvalidBinding creates a new AppError for injector misuse.
func InvalidBinding(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidBinding, Message: message}
}

// --- Inspection helpers ---

// AsAppError extracts an *AppError from err's chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the ErrorCode of err, or "" if err carries no AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsDataError reports whether err (anywhere in its chain) is a data error.
func IsDataError(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsDataError()
}
