package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicateKey       = NewDomainError("DUPLICATE_KEY", "A record with the same unique key already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrTransactionAborted = NewDomainError("TRANSACTION_ABORTED", "The operation could not be completed and was rolled back")
	ErrUnavailable        = NewDomainError("UNAVAILABLE", "The data store is currently unavailable")
)

// AbortTransaction classifies an error returned from inside a transaction.
// Business outcomes (domain and validation errors) pass through unchanged;
// anything else is wrapped with ErrTransactionAborted.
func AbortTransaction(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	var validationErrs *ValidationErrors
	if errors.As(err, &domainErr) || errors.As(err, &validationErrs) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
}

// ValidationFailedCode is the error code carried by ValidationErrors
const ValidationFailedCode = "VALIDATION_FAILED"

// FieldError is a single field-attributed validation problem.
// Field uses the request's JSON names, e.g. "members[2].national_id".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field-level problem found while validating
// one command. A non-empty value means nothing was written.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrors creates an empty collector
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]FieldError, 0)}
}

// NewFieldValidationError is a shortcut for a batch holding a single problem
func NewFieldValidationError(field, message string) *ValidationErrors {
	v := NewValidationErrors()
	v.Add(field, message)
	return v
}

// Add appends a problem for field
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Addf appends a formatted problem for field
func (v *ValidationErrors) Addf(field, format string, args ...any) {
	v.Add(field, fmt.Sprintf(format, args...))
}

// Merge appends all problems of other
func (v *ValidationErrors) Merge(other *ValidationErrors) {
	if other == nil {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
}

// HasErrors reports whether at least one problem was collected
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// HasField reports whether a problem was collected for field
func (v *ValidationErrors) HasField(field string) bool {
	if v == nil {
		return false
	}
	for _, e := range v.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Err returns v as an error, or nil when nothing was collected.
// Always use this instead of returning v directly to avoid typed-nil errors.
func (v *ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Code returns the error code used by the HTTP layer
func (v *ValidationErrors) Code() string {
	return ValidationFailedCode
}
