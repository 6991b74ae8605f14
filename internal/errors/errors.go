// Package errors provides structured error handling with HTTP status code
// mapping and the `{"errors": {...}}` response bodies the API contract uses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates a missing or malformed request parameter (HTTP 422)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
	// TypeExternal indicates a storage or other backend failure (HTTP 502)
	TypeExternal ErrorType = "external"
)

// Error represents a structured error with type, message, and field context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusUnprocessableEntity
	case TypeNotFound:
		return http.StatusNotFound
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 422).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message, Fields: make(map[string]string)}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message, Fields: make(map[string]string)}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause, Fields: make(map[string]string)}
}

// ExternalError creates a new backend error (HTTP 502).
func ExternalError(message string, cause error) *Error {
	return &Error{Type: TypeExternal, Message: message, Cause: cause, Fields: make(map[string]string)}
}

// WithField names an offending field (chainable). Fields appear in the
// response body for validation errors and in logs for all types.
func (e *Error) WithField(key, value string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[key] = value
	return e
}

// ErrorResponse is the JSON structure sent to clients. Internal causes and
// storage paths are never included.
type ErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// ToResponse converts an Error to its client-facing JSON form. Validation
// errors expose the offending fields; everything else gets an opaque message.
func (e *Error) ToResponse() ErrorResponse {
	if e.Type == TypeValidation && len(e.Fields) > 0 {
		return ErrorResponse{Errors: e.Fields}
	}
	return ErrorResponse{Errors: map[string]string{"server": e.Message}}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
