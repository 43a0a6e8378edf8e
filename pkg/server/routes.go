package server

import (
	"net/http"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/proxy/handlers"
	"mercator-hq/courier/pkg/proxy/middleware"
	"mercator-hq/courier/pkg/telemetry/health"
	"mercator-hq/courier/pkg/telemetry/metrics"
	"mercator-hq/courier/pkg/telemetry/tracing"
)

// setupRoutes registers every route and applies the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	cfg := s.opts.Config
	mux := http.NewServeMux()

	route := func(pattern string, h http.Handler) {
		mux.Handle(pattern, middleware.Instrument(pattern, s.opts.Collector, h))
	}

	carrierHandler := handlers.NewCarrierHandler(s.opts.Client, s.opts.Logger, handlers.Options{
		MaxBodyBytes:            cfg.Proxy.MaxBodyBytes,
		AllowCredentialOverride: cfg.Carrier.AllowCredentialOverride,
	})

	mux.Handle("GET /{$}", middleware.Instrument("GET /", s.opts.Collector, handlers.Root()))
	route("GET /health", s.opts.Health.LivenessHandler())
	route("GET /ready", s.opts.Health.ReadinessHandler())
	route("GET /version", health.VersionHandler(s.opts.Build.Version, s.opts.Build.Commit, s.opts.Build.BuildTime))

	route("GET /sites", handlers.Disabled(handlers.SitesDisabledMessage))
	route("GET /offices", handlers.Disabled(handlers.OfficesDisabledMessage))

	route("POST /location/site", carrierHandler.Lookup(carrier.LookupSite, handlers.LabelLocationSite))
	route("POST /location/office", carrierHandler.Lookup(carrier.LookupOffice, handlers.LabelLocationOffice))
	route("POST /shipment", carrierHandler.CreateShipment(handlers.LabelShipment))
	route("POST /createShipment", carrierHandler.CreateShipment(handlers.LabelCreateShipment))
	route("POST /print", carrierHandler.RenderLabel())

	if s.opts.Collector != nil && cfg.Telemetry.Metrics.Enabled {
		// Scrapes are not counted in the HTTP metrics.
		mux.Handle("GET "+cfg.Telemetry.Metrics.Path, s.opts.Collector.Handler())
	}

	mux.Handle("/", middleware.Instrument(metrics.OtherRoute, s.opts.Collector, handlers.NotFound()))

	// Innermost first.
	var handler http.Handler = mux
	handler = middleware.TimeoutMiddleware(cfg.Proxy.RequestTimeout)(handler)
	handler = middleware.CORSMiddleware(cfg.Proxy.CORS)(handler)
	handler = middleware.LoggingMiddleware(s.opts.Logger)(handler)
	if s.opts.Tracer != nil {
		handler = tracing.Middleware(s.opts.Tracer)(handler)
	}
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.opts.Logger)(handler)

	return handler
}
