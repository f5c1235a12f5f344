// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates a malformed domain record rejected at construction
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeUnknownProvider indicates a provider with no registered capacity checker
	TypeUnknownProvider Type = "UNKNOWN_PROVIDER"

	// TypeCapacity indicates a capacity probe failure (rate limit, API error)
	TypeCapacity Type = "CAPACITY_ERROR"

	// TypeBudget indicates a plan cannot be built within the requested budget
	TypeBudget Type = "BUDGET_INFEASIBLE"

	// TypeQuota indicates a strict free-tier requirement cannot be met
	TypeQuota Type = "QUOTA_INFEASIBLE"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(TypeValidation, message)
}

// Validationf creates a formatted validation error
func Validationf(format string, args ...interface{}) *Error {
	return Newf(TypeValidation, format, args...)
}

// UnknownProvider creates an unknown-provider error
func UnknownProvider(provider string) *Error {
	return Newf(TypeUnknownProvider, "no capacity checker registered for provider: %s", provider)
}

// Capacity wraps a capacity probe failure
func Capacity(message string, cause error) *Error {
	return Wrap(TypeCapacity, message, cause)
}

// Budget creates a budget-infeasible error
func Budget(message string) *Error {
	return New(TypeBudget, message)
}

// Quota creates a quota-infeasible error
func Quota(message string) *Error {
	return New(TypeQuota, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
