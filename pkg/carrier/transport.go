package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ForwarderConfig configures the outbound HTTP connection to the carrier.
type ForwarderConfig struct {
	// BaseURL is prepended to every operation path.
	BaseURL string

	// Timeout bounds one round trip including the body read. Zero disables it.
	Timeout time.Duration

	// MaxResponseBytes caps the body read. Zero disables the cap.
	MaxResponseBytes int64

	// Connection pool settings
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// RawResponse is what the forwarder captured for one call, before any
// interpretation.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte

	// Err is set when no usable response was obtained.
	Err error
}

// Forwarder posts envelopes to the carrier. It is safe for concurrent use.
type Forwarder struct {
	config  ForwarderConfig
	baseURL string
	client  *http.Client
}

// NewForwarder creates a forwarder with a pooled HTTP transport.
func NewForwarder(config ForwarderConfig) *Forwarder {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Forwarder{
		config:  config,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		// The deadline is applied per call through the request context.
		client: &http.Client{Transport: transport},
	}
}

// BaseURL returns the normalized carrier base address.
func (f *Forwarder) BaseURL() string {
	return f.baseURL
}

// Send posts env as JSON to path and reads the whole response.
// A non-2xx status is not an error; only transport problems set Err.
func (f *Forwarder) Send(ctx context.Context, path string, env Envelope) RawResponse {
	body, err := json.Marshal(env)
	if err != nil {
		return RawResponse{Err: fmt.Errorf("failed to encode envelope: %w", err)}
	}

	if f.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return RawResponse{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/pdf;q=0.9, */*;q=0.1")
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := f.client.Do(req)
	if err != nil {
		return RawResponse{Err: fmt.Errorf("request to %s failed: %w", path, err)}
	}
	defer resp.Body.Close()

	raw := RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header.Clone(),
	}

	var reader io.Reader = resp.Body
	if f.config.MaxResponseBytes > 0 {
		reader = io.LimitReader(resp.Body, f.config.MaxResponseBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		raw.Err = fmt.Errorf("failed to read response from %s: %w", path, err)
		return raw
	}
	if f.config.MaxResponseBytes > 0 && int64(len(data)) > f.config.MaxResponseBytes {
		raw.Err = &ResponseTooLargeError{Limit: f.config.MaxResponseBytes}
		return raw
	}

	raw.Body = data
	return raw
}
