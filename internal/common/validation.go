package common

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/bl-generator/constants"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Validator provides validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
			// later rules usually assume the earlier ones held
			break
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		if err.Message == "" {
			continue
		}
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value any) *ValidationError

// Required rejects nil values and blank strings.
func Required(fieldName string, value any) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	return nil
}

// NonEmptySize rejects zero-length payloads.
func NonEmptySize(fieldName string, value any) *ValidationError {
	if n, ok := value.(int64); !ok || n <= 0 {
		return &ValidationError{Field: fieldName, Value: value, Message: "is empty"}
	}
	return nil
}

// MaxSize rejects payloads larger than limit bytes. A limit <= 0 disables the check.
func MaxSize(limit int64) ValidationRule {
	return func(fieldName string, value any) *ValidationError {
		n, ok := value.(int64)
		if ok && (limit <= 0 || n <= limit) {
			return nil
		}
		return &ValidationError{
			Field:   fieldName,
			Value:   value,
			Message: fmt.Sprintf("exceeds the %d byte limit", limit),
		}
	}
}

// ValidateUpload checks an uploaded invoice before any extraction runs.
func ValidateUpload(filename string, size int64, maxBytes int64) error {
	if !constants.IsPDFName(filename) {
		return InvalidInputError("Only PDF files are accepted")
	}
	v := NewValidator().
		Field("file", size, NonEmptySize, MaxSize(maxBytes))
	return ValidateAndReturnError(v)
}

// ValidateAndReturnError validates and returns InvalidInputError if validation fails
func ValidateAndReturnError(validator *Validator) error {
	if validator.HasErrors() {
		return InvalidInputError(validator.ErrorMessage())
	}
	return nil
}
