// Package metrics provides Prometheus metrics collection for the courier proxy.
//
// # Metrics
//
//   - HTTP: inbound request count, duration and in-flight requests by route
//   - Forward: carrier calls by operation and outcome, round trip time,
//     response size, and pre-flight rejections
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	client := carrier.NewClient(resolver, fwd, carrier.WithObserver(collector))
//	mux.Handle("GET /metrics", collector.Handler())
//
// # Prometheus Endpoint
//
//	# HELP courier_proxy_forward_requests_total Total number of carrier API calls by outcome
//	# TYPE courier_proxy_forward_requests_total counter
//	courier_proxy_forward_requests_total{operation="create_shipment",outcome="json_success"} 42
//
// Route labels are capped by a cardinality limiter; routes beyond the cap
// are reported as "other".
package metrics
