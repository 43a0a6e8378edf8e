// Package tracing provides OpenTelemetry tracing for the courier proxy.
//
// Every inbound request gets a server span (continuing a W3C traceparent
// when the caller sends one) and every carrier call a client span, created
// by the carrier package from the tracer returned by Tracer.Tracer. Spans
// are exported over OTLP gRPC.
//
// # Sampling Strategies
//
//   - always: sample all traces
//   - never: sample no traces
//   - ratio: sample a fraction of traces by trace ID
//
// Samplers are parent based: an inbound sampling decision wins.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler = tracing.Middleware(tracer)(handler)
//	client := carrier.NewClient(resolver, fwd, carrier.WithTracer(tracer.Tracer()))
//
// When tracing is disabled the tracer is a noop and the middleware only
// propagates context.
package tracing
