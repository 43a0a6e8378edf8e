package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/proxy/types"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "invalid lookup field",
			err:        &carrier.InvalidRequestError{Field: "name", Message: "is required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   types.CodeMissingField,
			wantField:  "name",
		},
		{
			name:       "missing credentials",
			err:        carrier.ErrMissingCredentials,
			wantStatus: http.StatusInternalServerError,
			wantCode:   types.CodeCredentialsMissing,
		},
		{
			name:       "wrapped missing credentials",
			err:        fmt.Errorf("resolve: %w", carrier.ErrMissingCredentials),
			wantStatus: http.StatusInternalServerError,
			wantCode:   types.CodeCredentialsMissing,
		},
		{
			name:       "request error",
			err:        &RequestError{Message: "invalid JSON", Code: types.CodeInvalidJSON, Field: "body"},
			wantStatus: http.StatusBadRequest,
			wantCode:   types.CodeInvalidJSON,
			wantField:  "body",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   types.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleError("location/site", tt.err)
			if got := resp.HTTPStatusCode(); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Field != tt.wantField {
				t.Errorf("field = %q, want %q", resp.Field, tt.wantField)
			}
		})
	}
}

func TestHandleResult(t *testing.T) {
	carrierErr := map[string]any{"error": map[string]any{"message": "Invalid sender"}}

	tests := []struct {
		name       string
		res        carrier.Result
		wantNil    bool
		wantStatus int
		wantType   string
		wantCode   string
		wantUp     int
		wantCT     string
	}{
		{
			name:       "transport failure",
			res:        &carrier.TransportFailure{Err: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantType:   types.ErrorTypeBadGateway,
			wantCode:   types.CodeTransportFailure,
		},
		{
			name:       "transport deadline",
			res:        &carrier.TransportFailure{Err: fmt.Errorf("post: %w", context.DeadlineExceeded)},
			wantStatus: http.StatusGatewayTimeout,
			wantType:   types.ErrorTypeGatewayTimeout,
			wantCode:   types.CodeTransportFailure,
		},
		{
			name:       "http failure passes status",
			res:        &carrier.HTTPFailure{StatusCode: 401, ContentType: "application/json", Body: carrierErr, Raw: []byte(`{"error":{}}`)},
			wantStatus: http.StatusUnauthorized,
			wantType:   types.ErrorTypeUpstream,
			wantCode:   types.CodeUpstreamStatus,
			wantUp:     401,
			wantCT:     "application/json",
		},
		{
			name:       "logical failure",
			res:        &carrier.LogicalFailure{StatusCode: 200, Marker: "error", Reason: "Invalid sender", Body: carrierErr, Raw: []byte(`{}`)},
			wantStatus: http.StatusBadGateway,
			wantType:   types.ErrorTypeCarrierRejected,
			wantCode:   types.CodeCarrierError,
			wantUp:     200,
		},
		{
			name:       "wrong label content type",
			res:        &carrier.LogicalFailure{StatusCode: 200, ContentType: "text/html", Reason: "unexpected content type", Raw: []byte("<html>")},
			wantStatus: http.StatusBadGateway,
			wantType:   types.ErrorTypeCarrierRejected,
			wantCode:   types.CodeUnexpectedContentType,
			wantUp:     200,
			wantCT:     "text/html",
		},
		{
			name:    "json success",
			res:     &carrier.JSONSuccess{StatusCode: 200},
			wantNil: true,
		},
		{
			name:    "binary success",
			res:     &carrier.BinarySuccess{StatusCode: 200},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleResult("print", tt.res)
			if tt.wantNil {
				if resp != nil {
					t.Fatalf("HandleResult() = %+v, want nil", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("HandleResult() = nil")
			}
			if resp.Error != "Speedy print failed" {
				t.Errorf("error = %q", resp.Error)
			}
			if got := resp.HTTPStatusCode(); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if resp.Type != tt.wantType || resp.Code != tt.wantCode {
				t.Errorf("type/code = %s/%s, want %s/%s", resp.Type, resp.Code, tt.wantType, tt.wantCode)
			}
			if resp.Status != tt.wantUp {
				t.Errorf("upstream status = %d, want %d", resp.Status, tt.wantUp)
			}
			if resp.ContentType != tt.wantCT {
				t.Errorf("contentType = %q, want %q", resp.ContentType, tt.wantCT)
			}
			if resp.Details == "" {
				t.Error("expected details")
			}
		})
	}
}
