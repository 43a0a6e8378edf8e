package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/proxy/types"
)

func TestParseJSONBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		limit     int64
		wantErr   bool
		wantCode  string
		wantLarge bool
		check     func(t *testing.T, fields map[string]any)
	}{
		{
			name:  "object",
			body:  `{"name":"София","countryId":100}`,
			limit: 1024,
			check: func(t *testing.T, fields map[string]any) {
				if fields["name"] != "София" {
					t.Errorf("name = %v", fields["name"])
				}
				if n, ok := fields["countryId"].(json.Number); !ok || n.String() != "100" {
					t.Errorf("countryId = %#v, want json.Number 100", fields["countryId"])
				}
			},
		},
		{
			name:  "large integer kept exact",
			body:  `{"siteId":68134000000000001}`,
			limit: 1024,
			check: func(t *testing.T, fields map[string]any) {
				if n := fields["siteId"].(json.Number); n.String() != "68134000000000001" {
					t.Errorf("siteId = %s", n)
				}
			},
		},
		{
			name:  "empty body",
			body:  "",
			limit: 1024,
			check: func(t *testing.T, fields map[string]any) {
				if len(fields) != 0 {
					t.Errorf("fields = %v, want empty", fields)
				}
			},
		},
		{
			name:  "whitespace body",
			body:  "  \n",
			limit: 1024,
			check: func(t *testing.T, fields map[string]any) {
				if fields == nil {
					t.Error("expected non-nil map")
				}
			},
		},
		{name: "invalid JSON", body: `{"name":`, limit: 1024, wantErr: true, wantCode: types.CodeInvalidJSON},
		{name: "array", body: `[1,2]`, limit: 1024, wantErr: true, wantCode: types.CodeInvalidJSON},
		{name: "null", body: `null`, limit: 1024, wantErr: true, wantCode: types.CodeInvalidJSON},
		{name: "trailing data", body: `{"a":1} {"b":2}`, limit: 1024, wantErr: true, wantCode: types.CodeInvalidJSON},
		{
			name:      "too large",
			body:      `{"name":"` + strings.Repeat("x", 100) + `"}`,
			limit:     32,
			wantErr:   true,
			wantCode:  types.CodeRequestTooLarge,
			wantLarge: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/location/site", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			fields, err := ParseJSONBody(rec, req, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseJSONBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var reqErr *RequestError
				if !errors.As(err, &reqErr) {
					t.Fatalf("error = %T, want *RequestError", err)
				}
				if reqErr.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", reqErr.Code, tt.wantCode)
				}
				if reqErr.TooLarge != tt.wantLarge {
					t.Errorf("TooLarge = %v, want %v", reqErr.TooLarge, tt.wantLarge)
				}
				return
			}
			if tt.check != nil {
				tt.check(t, fields)
			}
		})
	}
}

func TestRequestError_ToErrorResponse(t *testing.T) {
	tooLarge := (&RequestError{Message: "big", Code: types.CodeRequestTooLarge, TooLarge: true}).ToErrorResponse()
	if tooLarge.HTTPStatusCode() != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", tooLarge.HTTPStatusCode())
	}

	invalid := (&RequestError{Message: "bad", Code: types.CodeInvalidJSON, Field: "body"}).ToErrorResponse()
	if invalid.HTTPStatusCode() != http.StatusBadRequest || invalid.Field != "body" {
		t.Errorf("response = %+v", invalid)
	}
}

func TestExtractOverride(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]any
		headers map[string]string
		allow   bool
		want    *carrier.Credentials
	}{
		{
			name:   "disabled discards body credentials",
			fields: map[string]any{"userName": "tenant", "password": "secret", "name": "Sofia"},
			allow:  false,
			want:   nil,
		},
		{
			name:   "body credentials",
			fields: map[string]any{"userName": "tenant", "password": "secret"},
			allow:  true,
			want:   &carrier.Credentials{Identity: "tenant", Secret: "secret"},
		},
		{
			name:    "header credentials",
			fields:  map[string]any{},
			headers: map[string]string{UsernameHeader: "hdr-user", PasswordHeader: "hdr-pass"},
			allow:   true,
			want:    &carrier.Credentials{Identity: "hdr-user", Secret: "hdr-pass"},
		},
		{
			name:    "body wins over header",
			fields:  map[string]any{"userName": "body-user", "password": "body-pass"},
			headers: map[string]string{UsernameHeader: "hdr-user", PasswordHeader: "hdr-pass"},
			allow:   true,
			want:    &carrier.Credentials{Identity: "body-user", Secret: "body-pass"},
		},
		{
			name:   "partial override kept for resolver",
			fields: map[string]any{"userName": "only-user"},
			allow:  true,
			want:   &carrier.Credentials{Identity: "only-user"},
		},
		{
			name:   "nothing supplied",
			fields: map[string]any{"name": "Sofia"},
			allow:  true,
			want:   nil,
		},
		{
			name:   "non-string credentials ignored",
			fields: map[string]any{"userName": json.Number("42"), "password": true},
			allow:  true,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/shipment", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got := ExtractOverride(req, tt.fields, tt.allow)

			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ExtractOverride() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ExtractOverride() = %+v, want %+v", *got, *tt.want)
			}
			if _, ok := tt.fields["userName"]; ok {
				t.Error("userName should be removed from fields")
			}
			if _, ok := tt.fields["password"]; ok {
				t.Error("password should be removed from fields")
			}
		})
	}
}
