package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/courier/pkg/proxy/types"
)

func TestRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	Root().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != RootBanner {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	Disabled(SitesDisabledMessage).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sites?userName=a", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != SitesDisabledMessage || resp.Code != types.CodeUsePost {
		t.Errorf("resp = %+v", resp)
	}
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/shipment", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
