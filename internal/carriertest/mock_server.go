// Package carriertest provides a mock carrier API for tests.
package carriertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a mock carrier API. It records every envelope it receives
// and answers each path with a configured response.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  []Request
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode  int
	ContentType string
	Body        interface{}
	Delay       time.Duration
	Headers     map[string]string
}

// Request is one request received by the mock.
type Request struct {
	Path     string
	Header   http.Header
	Envelope map[string]interface{}
	Raw      []byte
}

// NewMockServer creates and starts a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))

	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific path, e.g. "/shipment/".
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// Requests returns a copy of the requests received so far.
func (ms *MockServer) Requests() []Request {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]Request, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// LastEnvelope returns the decoded body of the most recent request, or nil.
func (ms *MockServer) LastEnvelope() map[string]interface{} {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return nil
	}
	return ms.requests[len(ms.requests)-1].Envelope
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var envelope map[string]interface{}
	_ = json.Unmarshal(raw, &envelope) // Non-JSON bodies are recorded raw only

	ms.mu.Lock()
	ms.requests = append(ms.requests, Request{
		Path:     r.URL.Path,
		Header:   r.Header.Clone(),
		Envelope: envelope,
		Raw:      raw,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	contentType := response.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

// Offices builds a location/office response body.
func Offices(offices ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"offices": offices}
}

// Sites builds a location/site response body.
func Sites(sites ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"sites": sites}
}

// ShipmentCreated builds a successful shipment response body.
func ShipmentCreated(id string) map[string]interface{} {
	return map[string]interface{}{
		"id": id,
		"parcels": []map[string]interface{}{
			{"id": id + "-1", "seqNo": 1},
		},
		"price": map[string]interface{}{
			"amount": 5.4,
			"vat":    1.08,
			"total":  6.48,
		},
		"pickupDate": time.Now().Format("2006-01-02"),
	}
}

// CarrierError builds the in-band error object the carrier sends with HTTP 200.
func CarrierError(message string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"context": "validation",
			"message": message,
			"id":      "EE0001",
		},
	}
}

// PDF is a minimal byte sequence with a PDF header.
var PDF = []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")
