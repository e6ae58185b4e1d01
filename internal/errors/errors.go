package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrUnauthenticated  = new(ErrCodeUnauthenticated, "webhook authentication failed")
	ErrMalformedEvent   = new(ErrCodeMalformedEvent, "malformed webhook event")
	ErrUpstream         = new(ErrCodeUpstream, "payment platform error")
	ErrFulfillment      = new(ErrCodeFulfillment, "fulfillment failed")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrInternal         = new(ErrCodeInternal, "internal error")
	// statusCodes maps errors to http status codes, first match wins
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrUnauthenticated, http.StatusBadRequest},
		{ErrMalformedEvent, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrUpstream, http.StatusForbidden},
		{ErrFulfillment, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}
)

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeUnauthenticated  = "unauthenticated"
	ErrCodeMalformedEvent   = "malformed_event"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeFulfillment      = "fulfillment_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeInternal         = "internal_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthenticated checks if an error is a webhook authentication error
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsMalformedEvent checks if an error is a malformed webhook event error
func IsMalformedEvent(err error) bool {
	return errors.Is(err, ErrMalformedEvent)
}

// IsUpstream checks if an error came from the payment platform
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsFulfillment checks if an error is a fulfillment error
func IsFulfillment(err error) bool {
	return errors.Is(err, ErrFulfillment)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
