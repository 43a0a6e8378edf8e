// Package carrier implements the forwarding pipeline between the proxy's
// route handlers and the upstream carrier API.
//
// A call moves through five stages:
//
//	caller payload
//	  → Resolver (process-wide or per-call credentials)
//	  → NormalizeShipment (shipment creation only)
//	  → BuildEnvelope (credentials, locale, business fields)
//	  → Forwarder (one POST, full body read)
//	  → Classify (one Result variant)
//
// # Results
//
// Every forwarded call yields exactly one Result:
//
//   - *TransportFailure: no response was obtained or it could not be read
//   - *HTTPFailure: the carrier answered with a non-2xx status
//   - *LogicalFailure: a 2xx whose body carries an in-band error marker
//   - *JSONSuccess: a 2xx JSON body without markers
//   - *BinarySuccess: a 2xx artifact (label PDF) of the expected media type
//
// The failure variants implement error, so callers may use errors.As on the
// value returned by AsError.
//
// Conditions detected before any network activity (missing credentials,
// malformed requests) are returned as a plain error instead of a Result.
//
// # Usage
//
//	fwd := carrier.NewForwarder(carrier.ForwarderConfig{BaseURL: "https://api.speedy.bg/v1"})
//	client := carrier.NewClient(carrier.NewResolver(defaults), fwd)
//
//	res, err := client.Lookup(ctx, carrier.LookupOffice, map[string]any{"siteId": 68134}, nil)
//	if err != nil {
//		// pre-flight rejection
//	}
//	switch r := res.(type) {
//	case *carrier.JSONSuccess:
//		offices := r.Body
//	case *carrier.LogicalFailure:
//		log.Println(r.Reason)
//	}
//
// The package does not log. Metrics and tracing are attached through the
// Observer interface and an OpenTelemetry tracer.
package carrier
