package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/courier/pkg/proxy/types"
)

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		logger, buf := newTestLogger(t)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(logger)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/shipment", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}

		var resp types.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Type != types.ErrorTypeServerError || strings.Contains(resp.Details, "test panic") {
			t.Errorf("response = %+v", resp)
		}
		if !strings.Contains(buf.String(), "panic in handler") {
			t.Errorf("panic not logged: %s", buf.String())
		}
	})

	t.Run("passes through normal requests", func(t *testing.T) {
		logger, _ := newTestLogger(t)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("OK"))
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(logger)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusOK || w.Body.String() != "OK" {
			t.Errorf("got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("re-panics ErrAbortHandler", func(t *testing.T) {
		logger, _ := newTestLogger(t)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		defer func() {
			if p := recover(); p != http.ErrAbortHandler {
				t.Errorf("recovered %v, want ErrAbortHandler", p)
			}
		}()
		RecoveryMiddleware(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
