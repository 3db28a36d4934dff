package model

import "errors"

// Standard error codes for domain failures.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// DomainError is a failure detected by the service itself rather than by the store.
type DomainError struct {
	Code    string
	Message string
}

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

// NewValidationError creates a validation error carrying the given detail.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrInvalidInput      = NewDomainError(ErrCodeInvalidInput, "names must be a non-empty array of non-blank strings")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "product not found")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "insufficient stock")
)

// ErrorCode returns the domain code carried by err, or "" when err is not a domain error.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
