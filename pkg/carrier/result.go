package carrier

import (
	"fmt"
	"net/http"
)

// Outcome names a Result variant. It is stable and suitable as a metric label.
type Outcome string

// Outcomes, one per Result variant.
const (
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeHTTPFailure      Outcome = "http_failure"
	OutcomeLogicalFailure   Outcome = "logical_failure"
	OutcomeJSONSuccess      Outcome = "json_success"
	OutcomeBinarySuccess    Outcome = "binary_success"
)

// Result is the classified outcome of one forwarded call. The set of
// implementations is closed; switch on the concrete pointer types.
type Result interface {
	// Outcome returns the variant name.
	Outcome() Outcome

	// Status returns the upstream HTTP status, or 0 when none was received.
	Status() int

	result()
}

// TransportFailure means no usable response was obtained: the connection
// failed, the deadline passed, the call was cancelled or the body could not
// be read.
type TransportFailure struct {
	// Err is the underlying transport error
	Err error
}

// HTTPFailure means the carrier answered with a non-2xx status.
type HTTPFailure struct {
	StatusCode  int
	ContentType string

	// Body is the parsed JSON body, nil when the body is not JSON
	Body any

	// Raw is the response body as received
	Raw []byte
}

// LogicalFailure means the carrier answered 2xx but rejected the request
// in-band, or returned something other than the expected artifact.
type LogicalFailure struct {
	StatusCode  int
	ContentType string

	// Marker is the top-level field that signalled the failure, empty when
	// the failure is a content type mismatch
	Marker string

	// Reason is a short human-readable description taken from the body
	Reason string

	// Body is the parsed JSON body, nil when the body is not JSON
	Body any

	// Raw is the response body as received
	Raw []byte
}

// JSONSuccess is a 2xx JSON response without error markers.
type JSONSuccess struct {
	StatusCode int

	// Body is the parsed body. Lookups replace it with the unwrapped
	// collection; it may be nil when the carrier omitted the collection.
	Body any

	// Raw is the response body as received
	Raw []byte
}

// BinarySuccess is a 2xx artifact of the expected media type.
type BinarySuccess struct {
	StatusCode  int
	ContentType string
	Data        []byte
}

func (*TransportFailure) Outcome() Outcome { return OutcomeTransportFailure }
func (*HTTPFailure) Outcome() Outcome      { return OutcomeHTTPFailure }
func (*LogicalFailure) Outcome() Outcome   { return OutcomeLogicalFailure }
func (*JSONSuccess) Outcome() Outcome      { return OutcomeJSONSuccess }
func (*BinarySuccess) Outcome() Outcome    { return OutcomeBinarySuccess }

func (*TransportFailure) Status() int { return 0 }
func (r *HTTPFailure) Status() int    { return r.StatusCode }
func (r *LogicalFailure) Status() int { return r.StatusCode }
func (r *JSONSuccess) Status() int    { return r.StatusCode }
func (r *BinarySuccess) Status() int  { return r.StatusCode }

func (*TransportFailure) result() {}
func (*HTTPFailure) result()      {}
func (*LogicalFailure) result()   {}
func (*JSONSuccess) result()      {}
func (*BinarySuccess) result()    {}

// Error implements the error interface.
func (r *TransportFailure) Error() string {
	return fmt.Sprintf("carrier transport failure: %v", r.Err)
}

// Unwrap returns the underlying error for error chain support.
func (r *TransportFailure) Unwrap() error {
	return r.Err
}

// Error implements the error interface.
func (r *HTTPFailure) Error() string {
	return fmt.Sprintf("carrier returned status %d %s", r.StatusCode, http.StatusText(r.StatusCode))
}

// Error implements the error interface.
func (r *LogicalFailure) Error() string {
	if r.Marker == "" {
		return fmt.Sprintf("carrier rejected request: %s", r.Reason)
	}
	return fmt.Sprintf("carrier rejected request (%s): %s", r.Marker, r.Reason)
}

// IsSuccess reports whether r is JSONSuccess or BinarySuccess.
func IsSuccess(r Result) bool {
	switch r.(type) {
	case *JSONSuccess, *BinarySuccess:
		return true
	default:
		return false
	}
}

// AsError returns r as an error when it is a failure variant, nil otherwise.
func AsError(r Result) error {
	switch v := r.(type) {
	case *TransportFailure:
		return v
	case *HTTPFailure:
		return v
	case *LogicalFailure:
		return v
	default:
		return nil
	}
}
