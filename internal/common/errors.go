package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrMissingMetadata    = errors.New("missing metadata")
	ErrCorruptMetadata    = errors.New("corrupt metadata")
	ErrInternal           = errors.New("internal error")
)

// Error codes carried by AppError.Code.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnreadableDocument = "UNREADABLE_DOCUMENT"
	CodeMissingMetadata    = "MISSING_METADATA"
	CodeCorruptMetadata    = "CORRUPT_METADATA"
	CodeConfig             = "CONFIG_ERROR"
	CodeInternal           = "INTERNAL"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// InvalidInputError is returned for uploads rejected before any processing.
func InvalidInputError(message string) error {
	return NewAppError(CodeInvalidInput, message, ErrInvalidInput)
}

func InvalidInputErrorf(format string, args ...any) error {
	return InvalidInputError(fmt.Sprintf(format, args...))
}

// UnreadableDocumentError is returned when neither the text layer nor OCR yields text.
func UnreadableDocumentError(message string, cause error) error {
	return NewAppError(CodeUnreadableDocument, message, joinCause(ErrUnreadableDocument, cause))
}

func MissingMetadataError(message string, cause error) error {
	return NewAppError(CodeMissingMetadata, message, joinCause(ErrMissingMetadata, cause))
}

func CorruptMetadataError(message string, cause error) error {
	return NewAppError(CodeCorruptMetadata, message, joinCause(ErrCorruptMetadata, cause))
}

func InternalError(message string, cause error) error {
	return NewAppError(CodeInternal, message, joinCause(ErrInternal, cause))
}

func joinCause(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// HTTPStatus maps an error chain to the status code the HTTP surface answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnreadableDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text put in an error response body.
// Metadata failures carry their cause so the caller can see what was wrong.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	switch appErr.Code {
	case CodeMissingMetadata, CodeCorruptMetadata:
		if appErr.Cause != nil && !isSentinel(appErr.Cause) {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	case CodeInternal:
		return "internal server error"
	default:
		return appErr.Message
	}
}

func isSentinel(err error) bool {
	switch err {
	case ErrInvalidInput, ErrUnreadableDocument, ErrMissingMetadata, ErrCorruptMetadata, ErrInternal:
		return true
	}
	return false
}
