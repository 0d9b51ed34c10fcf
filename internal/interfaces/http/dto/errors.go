package dto

import (
	"errors"
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// General error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeMissingSession  = "MISSING_SESSION"
	ErrCodeMissingCustomer = "MISSING_CUSTOMER"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes whose status differs from the one
// implied by their kind.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeMissingSession:  http.StatusBadRequest,
	ErrCodeMissingCustomer: http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,

	// Business rule violations on well-formed requests -> 422
	shared.ErrInsufficientStock.Code:   http.StatusUnprocessableEntity,
	shared.ErrEmptyCart.Code:           http.StatusUnprocessableEntity,
	shared.ErrShippingNotSelected.Code: http.StatusUnprocessableEntity,
	shared.ErrProductUnavailable.Code:  http.StatusUnprocessableEntity,
}

// ErrorKindHTTPStatus maps domain error kinds to HTTP status codes
var ErrorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation: http.StatusBadRequest,
	shared.KindNotFound:   http.StatusNotFound,
	shared.KindConflict:   http.StatusConflict,
	shared.KindExternal:   http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusForError resolves the HTTP status of err. Specific codes win over
// the kind; errors outside the domain taxonomy are 500.
func StatusForError(err error) int {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	if status, ok := ErrorCodeHTTPStatus[de.Code]; ok {
		return status
	}
	if status, ok := ErrorKindHTTPStatus[de.Kind]; ok {
		return status
	}
	return http.StatusBadRequest
}
