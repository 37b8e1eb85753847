package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeDuplicateAction   = "DUPLICATE_ACTION"
	ErrCodeInvalidCoupon     = "INVALID_COUPON"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure surfaced to the caller with a
// distinguishing code and a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a formatted message.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a not-found error for the named resource.
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// InsufficientStockError is returned when an order requests more units of a
// product than are currently in stock. It names the product and the stock
// remaining so the caller can adjust the quantity.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Only %d available", e.ProductName, e.Available)
}

// Code returns the error code shared by all insufficient-stock failures.
func (e *InsufficientStockError) Code() string {
	return ErrCodeInsufficientStock
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrCartEmpty       = NewDomainError(ErrCodeValidation, "Cart is empty")
	ErrNotAuthorised   = NewDomainError(ErrCodeForbidden, "Not authorized to access this resource")
	ErrDuplicateReview = NewDomainError(ErrCodeDuplicateAction, "You have already reviewed this product")
	ErrInvalidCoupon   = NewDomainError(ErrCodeInvalidCoupon, "Coupon code is not valid")
)
