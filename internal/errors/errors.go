// Package errors provides the domain error taxonomy shared by the engine,
// the services and the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidInput indicates a message volume or week count that is not a positive integer
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeUnknownService indicates an add-on service missing from the catalog
	TypeUnknownService Type = "UNKNOWN_SERVICE"

	// TypeValidation indicates a request that failed schema validation
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict indicates a uniqueness violation
	TypeConflict Type = "CONFLICT"

	// TypeUnauthorized indicates a missing or invalid credential
	TypeUnauthorized Type = "UNAUTHORIZED"

	// TypeForbidden indicates an authenticated caller without access
	TypeForbidden Type = "FORBIDDEN"

	// TypeRateLimited indicates a caller over its request budget
	TypeRateLimited Type = "RATE_LIMITED"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeStorage indicates a persistence failure
	TypeStorage Type = "STORAGE_ERROR"

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

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if any error in the chain is of a specific type
func IsType(err error, t Type) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

// TypeOf returns the type of the first domain error in the chain, or
// TypeInternal for foreign errors.
func TypeOf(err error) Type {
	if e, ok := As(err); ok {
		return e.Type
	}
	return TypeInternal
}

// InvalidInput creates an invalid input error
func InvalidInput(message string) *Error {
	return New(TypeInvalidInput, message)
}

// UnknownService creates an unknown add-on service error naming the key
func UnknownService(name string) *Error {
	return Newf(TypeUnknownService, "unknown add-on service: %s", name).WithContext("service_name", name)
}

// Validation creates a schema validation error
func Validation(message string, cause error) *Error {
	return Wrap(TypeValidation, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType string, identifier interface{}) *Error {
	return Newf(TypeNotFound, "%s not found: %v", resourceType, identifier)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(TypeConflict, message)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *Error {
	return New(TypeUnauthorized, message)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *Error {
	return New(TypeForbidden, message)
}

// Storage wraps a persistence failure
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
