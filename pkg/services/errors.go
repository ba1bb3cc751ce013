package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common conditions.
var (
	// ErrNotFound is returned when the service answered but had nothing for the request.
	ErrNotFound = errors.New("services: no result")

	// ErrMalformed is returned when a response body cannot be interpreted.
	ErrMalformed = errors.New("services: malformed response")
)

// ServiceError is a failed request to a remote service.
type ServiceError struct {
	// Service names the remote service ("wikipedia", "wttr", ...).
	Service string

	// StatusCode is the HTTP status, 0 for transport failures.
	StatusCode int

	// Timeout is set when the request exceeded its deadline.
	Timeout bool

	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("services [%s]: timeout: %v", e.Service, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("services [%s]: HTTP %d: %v", e.Service, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("services [%s]: %v", e.Service, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed.
func (e *ServiceError) Retryable() bool {
	return e.Timeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		(e.StatusCode >= 500 && e.StatusCode < 600)
}

// IsRetryable reports whether err is a retryable ServiceError.
func IsRetryable(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Retryable()
}
