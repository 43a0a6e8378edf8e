package middleware

import (
	"net/http"
	"time"

	"mercator-hq/courier/pkg/telemetry/metrics"
	"mercator-hq/courier/pkg/telemetry/tracing"
)

// Instrument wraps the handler registered for route. It names the server
// span after the route and records the request in the HTTP metrics. The
// collector may be nil.
//
//	mux.Handle("POST /shipment", Instrument("POST /shipment", collector, h))
func Instrument(route string, collector *metrics.Collector, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracing.SetRoute(r.Context(), route)

		if collector == nil {
			next.ServeHTTP(w, r)
			return
		}

		done := collector.TrackInFlight()
		defer done()

		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		collector.RecordHTTPRequest(route, rw.statusCode, time.Since(start))
	})
}
