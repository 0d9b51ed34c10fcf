package shared

import "errors"

// ErrorKind classifies a domain error so callers can react without
// matching on individual codes.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindExternal   ErrorKind = "EXTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
	Subject string    `json:"subject,omitempty"` // entity the error is about, e.g. the product that ran out

	cause error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code
}

// WithSubject returns a copy of the error about a specific entity
func (e *DomainError) WithSubject(subject string) *DomainError {
	cp := *e
	cp.Subject = subject
	return &cp
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	cp := *e
	cp.Message = message
	return &cp
}

// Wrap returns a copy of the error carrying cause
func (e *DomainError) Wrap(cause error) *DomainError {
	cp := *e
	cp.cause = cause
	return &cp
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindValidation,
	}
}

// NewNotFoundError creates a domain error of kind NOT_FOUND
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindNotFound}
}

// NewConflictError creates a domain error of kind CONFLICT
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindConflict}
}

// NewExternalError creates a domain error of kind EXTERNAL
func NewExternalError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: KindExternal}
}

// KindOf returns the kind of the first DomainError in err's chain.
// Errors outside the taxonomy report an empty kind.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Common domain errors
var (
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrInvalidPostalCode   = NewDomainError("INVALID_POSTAL_CODE", "Postal code must have 8 digits")
	ErrInvalidStatus       = NewDomainError("INVALID_STATUS", "Unknown order status")
	ErrInvalidPayment      = NewDomainError("INVALID_PAYMENT", "Invalid payment method or installments")
	ErrShippingNotSelected = NewDomainError("SHIPPING_NOT_SELECTED", "No shipping option selected")

	ErrNotFound        = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrProductNotFound = NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	ErrOrderNotFound   = NewNotFoundError("ORDER_NOT_FOUND", "Order not found")

	ErrProductUnavailable  = NewConflictError("PRODUCT_UNAVAILABLE", "Product is not available for sale")
	ErrInsufficientStock   = NewConflictError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart           = NewConflictError("EMPTY_CART", "Cart is empty")
	ErrInvalidAddress      = NewConflictError("INVALID_ADDRESS", "Address does not belong to the customer")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")

	ErrPostalLookupFailed = NewExternalError("POSTAL_LOOKUP_FAILED", "Postal code lookup failed")
)

// ErrInvalidDestination is returned when a postal code is malformed or unknown.
// The kind differs between the two cases; the code is shared.
var (
	ErrInvalidDestination = NewDomainError("INVALID_DESTINATION", "Invalid destination postal code")
	ErrUnknownDestination = NewNotFoundError("INVALID_DESTINATION", "Destination postal code not found")
	ErrAddressNotFound    = NewNotFoundError("INVALID_ADDRESS", "Address not found")
)
