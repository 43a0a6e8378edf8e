package types

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestErrorResponse_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		resp *ErrorResponse
		want int
	}{
		{"invalid request", NewInvalidRequestError("bad", "name", CodeMissingField), http.StatusBadRequest},
		{"too large", NewErrorResponse("big", ErrorTypeRequestTooLarge, CodeRequestTooLarge), http.StatusRequestEntityTooLarge},
		{"not found", NewErrorResponse("nope", ErrorTypeNotFound, CodeNotFound), http.StatusNotFound},
		{"server error", NewServerError("oops", CodeInternalError), http.StatusInternalServerError},
		{"upstream 404", &ErrorResponse{Type: ErrorTypeUpstream, Status: 404}, http.StatusNotFound},
		{"upstream 503", &ErrorResponse{Type: ErrorTypeUpstream, Status: 503}, http.StatusServiceUnavailable},
		{"upstream without status", &ErrorResponse{Type: ErrorTypeUpstream}, http.StatusInternalServerError},
		{"upstream 3xx", &ErrorResponse{Type: ErrorTypeUpstream, Status: 302}, http.StatusInternalServerError},
		{"carrier rejected", &ErrorResponse{Type: ErrorTypeCarrierRejected, Status: 200}, http.StatusBadGateway},
		{"bad gateway", &ErrorResponse{Type: ErrorTypeBadGateway}, http.StatusBadGateway},
		{"gateway timeout", &ErrorResponse{Type: ErrorTypeGatewayTimeout}, http.StatusGatewayTimeout},
		{"unknown type", &ErrorResponse{Type: "mystery"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	resp := &ErrorResponse{
		Error:   "Speedy shipment failed",
		Status:  200,
		Details: `{"error":{"message":"Invalid sender"}}`,
		JSON:    map[string]any{"error": map[string]any{"message": "Invalid sender"}},
		Type:    ErrorTypeCarrierRejected,
		Code:    CodeCarrierError,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"error", "status", "details", "json", "type", "code"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := decoded["contentType"]; ok {
		t.Errorf("contentType should be omitted when empty: %s", data)
	}
}

func TestErrorResponse_NullJSON(t *testing.T) {
	data, err := json.Marshal(NewServerError("no credentials", CodeCredentialsMissing))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v, ok := decoded["json"]; !ok || v != nil {
		t.Errorf("json = %v (present %v), want explicit null", v, ok)
	}
}
