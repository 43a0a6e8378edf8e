package metrics

import (
	"strconv"
	"sync"
	"time"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// OtherRoute replaces route labels beyond the cardinality limit.
const OtherRoute = "other"

// Collector owns every Prometheus metric of the proxy and the registry they
// are registered on. It implements carrier.Observer.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Inbound HTTP metrics
	httpMetrics *HTTPMetrics

	// Outbound carrier call metrics
	forwardMetrics *ForwardMetrics

	// Cardinality tracking for route labels
	cardinalityLimiter *CardinalityLimiter
}

var _ carrier.Observer = (*Collector)(nil)

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry with Go runtime
// and process collectors is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	client := carrier.NewClient(resolver, fwd, carrier.WithObserver(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		httpMetrics:        NewHTTPMetrics(cfg, registry),
		forwardMetrics:     NewForwardMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(200),
	}
}

// RecordHTTPRequest records one inbound request.
//
// Parameters:
//   - route: matched route pattern (e.g., "POST /shipment")
//   - status: response status code
//   - duration: handling time
func (c *Collector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(route) {
		route = OtherRoute
	}

	c.httpMetrics.RecordRequest(route, strconv.Itoa(status), duration)
}

// TrackInFlight increments the in-flight gauge and returns a function that
// decrements it.
func (c *Collector) TrackInFlight() func() {
	if !c.config.Enabled {
		return func() {}
	}
	c.httpMetrics.inFlight.Inc()
	return c.httpMetrics.inFlight.Dec
}

// ObserveForward implements carrier.Observer.
func (c *Collector) ObserveForward(op carrier.Operation, outcome carrier.Outcome, duration time.Duration, responseBytes int) {
	if !c.config.Enabled {
		return
	}

	c.forwardMetrics.RecordForward(string(op), string(outcome), duration, responseBytes)
}

// ObservePreflightRejection implements carrier.Observer.
func (c *Collector) ObservePreflightRejection(op carrier.Operation, reason string) {
	if !c.config.Enabled {
		return
	}

	c.forwardMetrics.RecordRejection(string(op), reason)
}

// SetCredentialsConfigured sets the gauge reporting whether process-wide
// carrier credentials are loaded.
func (c *Collector) SetCredentialsConfigured(configured bool) {
	if !c.config.Enabled {
		return
	}

	if configured {
		c.forwardMetrics.credentialsConfigured.Set(1)
	} else {
		c.forwardMetrics.credentialsConfigured.Set(0)
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if the limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
