package metrics

import (
	"time"

	"mercator-hq/courier/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ForwardMetrics tracks calls to the carrier API.
//
// Metrics:
//   - courier_proxy_forward_requests_total: calls by operation and outcome
//   - courier_proxy_forward_duration_seconds: round trip time by operation
//   - courier_proxy_forward_response_bytes: upstream body size by operation
//   - courier_proxy_preflight_rejections_total: calls stopped before the network
//   - courier_proxy_credentials_configured: 1 when default credentials are loaded
type ForwardMetrics struct {
	requests              *prometheus.CounterVec
	duration              *prometheus.HistogramVec
	responseBytes         *prometheus.HistogramVec
	rejections            *prometheus.CounterVec
	credentialsConfigured prometheus.Gauge
}

// NewForwardMetrics creates and registers carrier call metrics.
func NewForwardMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ForwardMetrics {
	fm := &ForwardMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "forward_requests_total",
				Help:      "Total number of carrier API calls by outcome",
			},
			[]string{"operation", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "forward_duration_seconds",
				Help:      "Carrier API round trip time in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),

		responseBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "forward_response_bytes",
				Help:      "Size of carrier API response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 9), // 256B to 16MB
			},
			[]string{"operation"},
		),

		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "preflight_rejections_total",
				Help:      "Total number of calls rejected before reaching the carrier",
			},
			[]string{"operation", "reason"},
		),

		credentialsConfigured: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "credentials_configured",
				Help:      "Whether process-wide carrier credentials are configured (1=yes, 0=no)",
			},
		),
	}

	registry.MustRegister(
		fm.requests,
		fm.duration,
		fm.responseBytes,
		fm.rejections,
		fm.credentialsConfigured,
	)

	return fm
}

// RecordForward records one classified carrier call.
func (fm *ForwardMetrics) RecordForward(operation, outcome string, duration time.Duration, responseBytes int) {
	fm.requests.WithLabelValues(operation, outcome).Inc()
	fm.duration.WithLabelValues(operation).Observe(duration.Seconds())
	if responseBytes > 0 {
		fm.responseBytes.WithLabelValues(operation).Observe(float64(responseBytes))
	}
}

// RecordRejection records a call that never reached the network.
func (fm *ForwardMetrics) RecordRejection(operation, reason string) {
	fm.rejections.WithLabelValues(operation, reason).Inc()
}
