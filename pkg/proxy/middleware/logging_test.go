package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusBadRequest, "WARN"},
		{"server error", http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(t)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})

			wrapped := RequestIDMiddleware(LoggingMiddleware(logger)(handler))
			req := httptest.NewRequest(http.MethodPost, "/location/site", nil)
			req.Header.Set(RequestIDHeader, "req-42")
			wrapped.ServeHTTP(httptest.NewRecorder(), req)

			var completed map[string]any
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var entry map[string]any
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("invalid log line %q: %v", line, err)
				}
				if entry["msg"] == "request completed" {
					completed = entry
				}
			}
			if completed == nil {
				t.Fatalf("no completion log in %s", buf.String())
			}

			if completed["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", completed["level"], tt.wantLevel)
			}
			if completed["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", completed["status"], tt.status)
			}
			if completed["bytes"] != float64(4) {
				t.Errorf("bytes = %v, want 4", completed["bytes"])
			}
			if completed["request_id"] != "req-42" {
				t.Errorf("request_id = %v, want req-42", completed["request_id"])
			}
		})
	}
}
