// Package server wires the courier HTTP server: routes, the middleware
// chain, TLS and graceful shutdown.
//
// # Routes
//
//	GET  /                 banner
//	GET  /health           liveness
//	GET  /ready            readiness (503 while not ready)
//	GET  /version          build information
//	GET  /metrics          Prometheus exposition (path configurable)
//	GET  /sites, /offices  400, credentials must not travel in a query string
//	POST /location/site
//	POST /location/office
//	POST /shipment, /createShipment
//	POST /print
//
// Anything else answers a JSON 404.
//
// # Middleware Chain
//
// Outermost first:
//  1. Recovery: turns panics into a 500 error body
//  2. RequestID: accepts or generates X-Request-ID
//  3. Tracing: continues W3C trace context and opens the server span
//  4. Logging: one access log line per request
//  5. CORS: answers preflights and decorates responses
//  6. Timeout: bounds total request handling
//
// Each route is additionally wrapped by middleware.Instrument, which names
// the span after the route and records the HTTP metrics.
//
// # Lifecycle
//
//	srv, err := server.NewServer(server.Options{...})
//	if err != nil {
//		return err
//	}
//	return srv.Start(ctx) // returns after ctx is cancelled and shutdown completes
package server
