package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so wrapped
// copies of the sentinels below still match errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not signed in")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnknown       = NewDomainError("UNKNOWN", "An unexpected error occurred")
)

// ErrorCategory is the coarse classification surfaced to API clients.
type ErrorCategory string

const (
	CategoryNotFound  ErrorCategory = "not_found"
	CategoryForbidden ErrorCategory = "forbidden"
	CategoryDomain    ErrorCategory = "domain"
	CategoryUnknown   ErrorCategory = "unknown"
)

// Categorize maps an error onto one of the error categories.
// Records that belong to another user are reported as not found.
func Categorize(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	var de *DomainError
	if !errors.As(err, &de) {
		return CategoryUnknown
	}
	switch de.Code {
	case ErrNotFound.Code:
		return CategoryNotFound
	case ErrForbidden.Code, ErrUnauthorized.Code:
		return CategoryForbidden
	case ErrUnknown.Code:
		return CategoryUnknown
	default:
		return CategoryDomain
	}
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
