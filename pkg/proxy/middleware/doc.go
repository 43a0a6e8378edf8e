// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
//	handler = Recovery(RequestID(Tracing(Logging(CORS(Timeout(mux))))))
//
// Order (outermost first):
//  1. RecoveryMiddleware: turn panics into a 500 error body
//  2. RequestIDMiddleware: accept or generate X-Request-ID (UUID v4)
//  3. tracing.Middleware: continue the caller's trace, open a server span
//  4. LoggingMiddleware: one log line per request, level by status
//  5. CORSMiddleware: CORS headers and preflight answers
//  6. TimeoutMiddleware: bound handling time, 504 on expiry
//
// Instrument wraps individual routes rather than the whole mux so the
// matched route pattern, not the raw path, labels metrics and spans.
//
// # Request ID
//
// The request ID lives in the context via the logging package, so every log
// line written with a request context carries it:
//
//	logger.InfoContext(r.Context(), "shipment created", "shipment_id", id)
package middleware
