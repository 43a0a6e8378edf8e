package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/proxy/types"
)

const (
	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"

	// UsernameHeader carries a caller-supplied carrier account name.
	UsernameHeader = "X-Carrier-Username"

	// PasswordHeader carries a caller-supplied carrier account password.
	PasswordHeader = "X-Carrier-Password"
)

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Message string
	Code    string
	Field   string

	// TooLarge marks a body that exceeded the configured limit.
	TooLarge bool
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to an error response body.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	if e.TooLarge {
		resp := types.NewErrorResponse(e.Message, types.ErrorTypeRequestTooLarge, e.Code)
		resp.Details = e.Message
		return resp
	}
	return types.NewInvalidRequestError(e.Message, e.Field, e.Code)
}

// ParseJSONBody reads the request body as a JSON object of business fields.
// An empty body yields an empty map. Numbers are kept as json.Number so
// identifiers pass through to the carrier unchanged.
//
// The body is limited to maxBytes; a larger body is a RequestError with
// TooLarge set.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &RequestError{
				Message:  fmt.Sprintf("request body exceeds maximum size of %d bytes", maxErr.Limit),
				Code:     types.CodeRequestTooLarge,
				Field:    "body",
				TooLarge: true,
			}
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, &RequestError{
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Code:    types.CodeInvalidJSON,
			Field:   "body",
		}
	}
	if fields == nil {
		return nil, &RequestError{
			Message: "request body must be a JSON object",
			Code:    types.CodeInvalidJSON,
			Field:   "body",
		}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &RequestError{
			Message: "invalid JSON: unexpected data after top-level object",
			Code:    types.CodeInvalidJSON,
			Field:   "body",
		}
	}

	return fields, nil
}

// ExtractOverride removes any caller-supplied credentials from fields and,
// when allow is true, returns them as an override. Body fields win over the
// X-Carrier-Username and X-Carrier-Password headers. It returns nil when
// overrides are disabled or nothing was supplied.
func ExtractOverride(r *http.Request, fields map[string]any, allow bool) *carrier.Credentials {
	identity, _ := fields[carrier.FieldIdentity].(string)
	secret, _ := fields[carrier.FieldSecret].(string)
	delete(fields, carrier.FieldIdentity)
	delete(fields, carrier.FieldSecret)

	if !allow {
		return nil
	}

	if identity == "" {
		identity = r.Header.Get(UsernameHeader)
	}
	if secret == "" {
		secret = r.Header.Get(PasswordHeader)
	}
	if identity == "" && secret == "" {
		return nil
	}

	return &carrier.Credentials{Identity: identity, Secret: secret}
}
