package types

import "net/http"

// ErrorResponse is the JSON body of every failed proxy call.
//
// The first four fields keep the shape existing callers already parse:
//
//	{
//	  "error": "Speedy shipment failed",
//	  "status": 200,
//	  "details": "{\"error\":{\"message\":\"Invalid sender\"}}",
//	  "json": {"error": {"message": "Invalid sender"}}
//	}
type ErrorResponse struct {
	// Error is a short human-readable summary.
	Error string `json:"error"`

	// Status is the upstream HTTP status, or 0 when the carrier was never
	// reached or did not answer.
	Status int `json:"status"`

	// Details is the raw upstream body or a description of the failure.
	Details string `json:"details"`

	// JSON is the parsed upstream body, null when it was not JSON.
	JSON any `json:"json"`

	// ContentType is the upstream content type. Only set for label rendering.
	ContentType string `json:"contentType,omitempty"`

	// Type categorizes the error and selects the proxy's HTTP status.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`

	// Field names the offending request field for invalid requests.
	Field string `json:"field,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeRequestTooLarge indicates an oversized request body (413).
	ErrorTypeRequestTooLarge = "request_too_large"

	// ErrorTypeNotFound indicates an unknown route (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeServerError indicates a proxy-side failure (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeUpstream indicates a non-2xx carrier answer; the upstream
	// status is passed through.
	ErrorTypeUpstream = "upstream_error"

	// ErrorTypeCarrierRejected indicates a 2xx carrier answer that reports
	// a failure in its body (502).
	ErrorTypeCarrierRejected = "carrier_rejected"

	// ErrorTypeBadGateway indicates the carrier could not be reached (502).
	ErrorTypeBadGateway = "bad_gateway"

	// ErrorTypeGatewayTimeout indicates the carrier did not answer in time (504).
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// Error code constants.
const (
	CodeInvalidJSON           = "invalid_json"
	CodeMissingField          = "missing_field"
	CodeRequestTooLarge       = "request_too_large"
	CodeUsePost               = "use_post"
	CodeNotFound              = "not_found"
	CodeCredentialsMissing    = "credentials_missing"
	CodeTransportFailure      = "transport_failure"
	CodeUpstreamStatus        = "upstream_status"
	CodeCarrierError          = "carrier_error"
	CodeUnexpectedContentType = "unexpected_content_type"
	CodeInternalError         = "internal_error"
)

// NewErrorResponse creates an error response with no upstream data.
func NewErrorResponse(message, errorType, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: message,
		Type:  errorType,
		Code:  code,
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, field, code string) *ErrorResponse {
	resp := NewErrorResponse(message, ErrorTypeInvalidRequest, code)
	resp.Field = field
	resp.Details = message
	return resp
}

// NewServerError creates an error response for internal failures (500).
func NewServerError(message, code string) *ErrorResponse {
	resp := NewErrorResponse(message, ErrorTypeServerError, code)
	resp.Details = message
	return resp
}

// HTTPStatusCode returns the status the proxy answers with.
func (e *ErrorResponse) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream:
		if e.Status >= 400 && e.Status <= 599 {
			return e.Status
		}
		return http.StatusInternalServerError
	case ErrorTypeCarrierRejected, ErrorTypeBadGateway:
		return http.StatusBadGateway
	case ErrorTypeGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
