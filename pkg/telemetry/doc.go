// Package telemetry groups the observability packages of the courier proxy.
//
//   - logging: slog-based structured logging with credential redaction
//   - metrics: Prometheus collectors for inbound requests and carrier calls
//   - tracing: OpenTelemetry tracer provider with OTLP export
//
// None of them is required by the carrier package itself, which reports
// through the carrier.Observer interface and an optional tracer.
package telemetry
