package carrier

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when a call has neither a complete
// override nor complete process-wide credentials. It is always returned
// before any network activity.
var ErrMissingCredentials = errors.New("carrier credentials are not configured")

// InvalidRequestError represents a request rejected before it is sent to
// the carrier.
type InvalidRequestError struct {
	// Field is the name of the invalid field
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Message)
	}
	return fmt.Sprintf("invalid request field %q: %s", e.Field, e.Message)
}

// ResponseTooLargeError is the transport error recorded when an upstream
// body exceeds the configured limit.
type ResponseTooLargeError struct {
	// Limit is the configured maximum body size in bytes
	Limit int64
}

// Error implements the error interface.
func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("carrier response exceeds %d bytes", e.Limit)
}
