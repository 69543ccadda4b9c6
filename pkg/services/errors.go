package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a contract code has no matching row
	ErrNotFound = errors.New("contract not found")

	// ErrDatabaseUnavailable is returned when the database cannot be reached
	ErrDatabaseUnavailable = errors.New("database unavailable")

	// ErrQueryFailed is returned when the contracts table is missing or malformed
	ErrQueryFailed = errors.New("query failed")

	// ErrLLMUnavailable is returned when the LLM service rejects or cannot be reached
	ErrLLMUnavailable = errors.New("llm service unavailable")

	// ErrLLMTimeout is returned when the LLM call exceeds its deadline
	ErrLLMTimeout = errors.New("llm request timed out")
)

// ValidationError wraps field-specific validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
