package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Path:            "/metrics",
		Namespace:       "test",
		Subsystem:       "courier",
		DurationBuckets: []float64{0.1, 0.5, 1, 5},
	}
}

func TestNewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}
	if collector.Registry() != registry {
		t.Error("Registry() did not return the supplied registry")
	}
	if collector.httpMetrics == nil || collector.forwardMetrics == nil {
		t.Error("metric groups not initialized")
	}
}

func TestNewCollector_DefaultRegistry(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("expected a registry to be created")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("expected default duration buckets")
	}
}

func TestCollector_ObserveForward(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.ObserveForward(carrier.OpCreateShipment, carrier.OutcomeJSONSuccess, 120*time.Millisecond, 512)
	collector.ObserveForward(carrier.OpCreateShipment, carrier.OutcomeJSONSuccess, 80*time.Millisecond, 256)
	collector.ObserveForward(carrier.OpCreateShipment, carrier.OutcomeLogicalFailure, 50*time.Millisecond, 64)
	collector.ObserveForward(carrier.OpRenderLabel, carrier.OutcomeTransportFailure, 30*time.Second, 0)

	tests := []struct {
		op      carrier.Operation
		outcome carrier.Outcome
		want    float64
	}{
		{carrier.OpCreateShipment, carrier.OutcomeJSONSuccess, 2},
		{carrier.OpCreateShipment, carrier.OutcomeLogicalFailure, 1},
		{carrier.OpRenderLabel, carrier.OutcomeTransportFailure, 1},
		{carrier.OpRenderLabel, carrier.OutcomeBinarySuccess, 0},
	}

	for _, tt := range tests {
		got := testutil.ToFloat64(collector.forwardMetrics.requests.WithLabelValues(string(tt.op), string(tt.outcome)))
		if got != tt.want {
			t.Errorf("forward_requests_total{%s,%s} = %v, want %v", tt.op, tt.outcome, got, tt.want)
		}
	}

	// Transport failures carry no body and are not observed in the size histogram.
	if n := testutil.CollectAndCount(collector.forwardMetrics.responseBytes); n != 1 {
		t.Errorf("response_bytes series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(collector.forwardMetrics.duration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestCollector_ObservePreflightRejection(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.ObservePreflightRejection(carrier.OpLookupSite, carrier.ReasonMissingCredentials)
	collector.ObservePreflightRejection(carrier.OpLookupSite, carrier.ReasonMissingCredentials)
	collector.ObservePreflightRejection(carrier.OpLookupOffice, carrier.ReasonInvalidRequest)

	got := testutil.ToFloat64(collector.forwardMetrics.rejections.WithLabelValues(string(carrier.OpLookupSite), carrier.ReasonMissingCredentials))
	if got != 2 {
		t.Errorf("rejections = %v, want 2", got)
	}
	got = testutil.ToFloat64(collector.forwardMetrics.rejections.WithLabelValues(string(carrier.OpLookupOffice), carrier.ReasonInvalidRequest))
	if got != 1 {
		t.Errorf("rejections = %v, want 1", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordHTTPRequest("POST /shipment", 200, 10*time.Millisecond)
	collector.RecordHTTPRequest("POST /shipment", 502, 10*time.Millisecond)
	collector.RecordHTTPRequest("POST /shipment", 200, 10*time.Millisecond)

	if got := testutil.ToFloat64(collector.httpMetrics.requestsTotal.WithLabelValues("POST /shipment", "200")); got != 2 {
		t.Errorf("http_requests_total{200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.httpMetrics.requestsTotal.WithLabelValues("POST /shipment", "502")); got != 1 {
		t.Errorf("http_requests_total{502} = %v, want 1", got)
	}
}

func TestCollector_RouteCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(2)

	collector.RecordHTTPRequest("GET /", 200, time.Millisecond)
	collector.RecordHTTPRequest("GET /health", 200, time.Millisecond)
	collector.RecordHTTPRequest("GET /unknown-1", 404, time.Millisecond)
	collector.RecordHTTPRequest("GET /unknown-2", 404, time.Millisecond)

	if got := testutil.ToFloat64(collector.httpMetrics.requestsTotal.WithLabelValues(OtherRoute, "404")); got != 2 {
		t.Errorf("other route count = %v, want 2", got)
	}
}

func TestCollector_TrackInFlight(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	done := collector.TrackInFlight()
	if got := testutil.ToFloat64(collector.httpMetrics.inFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	done()
	if got := testutil.ToFloat64(collector.httpMetrics.inFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestCollector_CredentialsConfigured(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.SetCredentialsConfigured(true)
	if got := testutil.ToFloat64(collector.forwardMetrics.credentialsConfigured); got != 1 {
		t.Errorf("credentials_configured = %v, want 1", got)
	}
	collector.SetCredentialsConfigured(false)
	if got := testutil.ToFloat64(collector.forwardMetrics.credentialsConfigured); got != 0 {
		t.Errorf("credentials_configured = %v, want 0", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.ObserveForward(carrier.OpLookupSite, carrier.OutcomeJSONSuccess, time.Millisecond, 10)
	collector.ObservePreflightRejection(carrier.OpLookupSite, carrier.ReasonInvalidRequest)
	collector.RecordHTTPRequest("POST /location/site", 200, time.Millisecond)
	collector.TrackInFlight()()

	if n := testutil.CollectAndCount(collector.forwardMetrics.requests); n != 0 {
		t.Errorf("forward series = %d, want 0 when disabled", n)
	}
	if n := testutil.CollectAndCount(collector.httpMetrics.requestsTotal); n != 0 {
		t.Errorf("http series = %d, want 0 when disabled", n)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("expected first two values to be allowed")
	}
	if cl.Allow("c") {
		t.Error("expected third value to be rejected")
	}
	if !cl.Allow("a") {
		t.Error("expected known value to be allowed")
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}

func TestHandler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.ObserveForward(carrier.OpRenderLabel, carrier.OutcomeBinarySuccess, 200*time.Millisecond, 4096)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	want := `test_courier_forward_requests_total{operation="render_label",outcome="binary_success"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q\n%s", want, body)
	}
}

func TestForwardMetrics_Exposition(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)
	collector.ObservePreflightRejection(carrier.OpCreateShipment, carrier.ReasonMissingCredentials)

	expected := `
# HELP test_courier_preflight_rejections_total Total number of calls rejected before reaching the carrier
# TYPE test_courier_preflight_rejections_total counter
test_courier_preflight_rejections_total{operation="create_shipment",reason="credentials_missing"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_courier_preflight_rejections_total"); err != nil {
		t.Error(err)
	}
}
