package carrier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mercator-hq/courier/pkg/carrier"

// Operation identifies a client operation in metrics and spans.
type Operation string

// Client operations.
const (
	OpLookup         Operation = "lookup"
	OpLookupSite     Operation = "lookup_site"
	OpLookupOffice   Operation = "lookup_office"
	OpCreateShipment Operation = "create_shipment"
	OpRenderLabel    Operation = "render_label"
)

// Carrier API paths.
const (
	PathLocationSite   = "/location/site/"
	PathLocationOffice = "/location/office/"
	PathShipment       = "/shipment/"
	PathPrint          = "/print/"
)

// DefaultLabelContentType is the media type of a rendered label.
const DefaultLabelContentType = "application/pdf"

// Pre-flight rejection reasons reported to the Observer.
const (
	ReasonMissingCredentials = "credentials_missing"
	ReasonInvalidRequest     = "invalid_request"
)

// LookupKind selects a location collection.
type LookupKind string

// Lookup kinds.
const (
	LookupSite   LookupKind = "site"
	LookupOffice LookupKind = "office"
)

type lookupRoute struct {
	op         Operation
	path       string
	collection string
	required   string
}

var lookupRoutes = map[LookupKind]lookupRoute{
	LookupSite:   {op: OpLookupSite, path: PathLocationSite, collection: "sites", required: "name"},
	LookupOffice: {op: OpLookupOffice, path: PathLocationOffice, collection: "offices", required: "siteId"},
}

// Collection returns the response field that holds the lookup results.
func (k LookupKind) Collection() string {
	return lookupRoutes[k].collection
}

// Observer receives one notification per forwarded call or pre-flight
// rejection. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveForward(op Operation, outcome Outcome, duration time.Duration, responseBytes int)
	ObservePreflightRejection(op Operation, reason string)
}

// Client exposes the carrier operations used by the route handlers.
// It is safe for concurrent use.
type Client struct {
	resolver      *Resolver
	forwarder     *Forwarder
	labelType     string
	defaultLocale string
	observer      Observer
	tracer        trace.Tracer
	now           func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTracer sets the tracer used for per-call spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithClock overrides the clock used for the default shipment date.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithLabelContentType sets the media type a label rendering must return.
func WithLabelContentType(mediaType string) Option {
	return func(c *Client) {
		if mediaType != "" {
			c.labelType = mediaType
		}
	}
}

// WithDefaultLocale sets the envelope language used when the caller sends none.
func WithDefaultLocale(locale string) Option {
	return func(c *Client) { c.defaultLocale = locale }
}

// NewClient creates a client from a resolver and a forwarder.
func NewClient(resolver *Resolver, forwarder *Forwarder, opts ...Option) *Client {
	c := &Client{
		resolver:      resolver,
		forwarder:     forwarder,
		labelType:     DefaultLabelContentType,
		defaultLocale: DefaultLocale,
		tracer:        otel.Tracer(tracerName),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver returns the client's credential resolver.
func (c *Client) Resolver() *Resolver {
	return c.resolver
}

// LabelContentType returns the media type expected from label rendering.
func (c *Client) LabelContentType() string {
	return c.labelType
}

// Lookup resolves sites or offices. On JSONSuccess the Body holds the
// unwrapped collection ("sites" or "offices"), or nil when the carrier
// omitted it.
func (c *Client) Lookup(ctx context.Context, kind LookupKind, query map[string]any, override *Credentials) (Result, error) {
	route, ok := lookupRoutes[kind]
	if !ok {
		c.rejected(OpLookup, ReasonInvalidRequest)
		return nil, &InvalidRequestError{Field: "kind", Message: fmt.Sprintf("unknown lookup kind %q", kind)}
	}
	if !present(query[route.required]) {
		c.rejected(route.op, ReasonInvalidRequest)
		return nil, &InvalidRequestError{Field: route.required, Message: "is required"}
	}

	res, err := c.forward(ctx, route.op, route.path, ExpectJSON, query, override)
	if err != nil {
		return nil, err
	}

	if success, isJSON := res.(*JSONSuccess); isJSON {
		var items any
		if obj, isObj := success.Body.(map[string]any); isObj {
			items = obj[route.collection]
		}
		success.Body = items
	}
	return res, nil
}

// CreateShipment normalizes payer fields and the shipment date, then
// creates the shipment. JSONSuccess carries the full carrier response.
func (c *Client) CreateShipment(ctx context.Context, payload map[string]any, override *Credentials) (Result, error) {
	if payload == nil {
		c.rejected(OpCreateShipment, ReasonInvalidRequest)
		return nil, &InvalidRequestError{Message: "shipment payload is required"}
	}
	return c.forward(ctx, OpCreateShipment, PathShipment, ExpectJSON, NormalizeShipment(payload, c.now()), override)
}

// RenderLabel requests a printable label. Only a 2xx of the label media type
// yields BinarySuccess.
func (c *Client) RenderLabel(ctx context.Context, payload map[string]any, override *Credentials) (Result, error) {
	if payload == nil {
		c.rejected(OpRenderLabel, ReasonInvalidRequest)
		return nil, &InvalidRequestError{Message: "print payload is required"}
	}
	return c.forward(ctx, OpRenderLabel, PathPrint, ExpectBinary, payload, override)
}

// forward resolves credentials, builds the envelope, sends it and
// classifies the response.
func (c *Client) forward(ctx context.Context, op Operation, path string, expect Expect, fields map[string]any, override *Credentials) (Result, error) {
	creds, err := c.resolver.Resolve(override)
	if err != nil {
		if errors.Is(err, ErrMissingCredentials) {
			c.rejected(op, ReasonMissingCredentials)
		}
		return nil, err
	}

	locale := localeOf(fields)
	if locale == "" {
		locale = c.defaultLocale
	}
	env := BuildEnvelope(creds, locale, fields)

	ctx, span := c.tracer.Start(ctx, "carrier."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("carrier.operation", string(op)),
			attribute.String("carrier.path", path),
			attribute.String("carrier.expect", expect.String()),
		),
	)
	defer span.End()

	start := time.Now()
	raw := c.forwarder.Send(ctx, path, env)
	res := Classify(raw, expect, c.labelType)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("carrier.outcome", string(res.Outcome())),
		attribute.Int("http.response.status_code", raw.StatusCode),
		attribute.Int("carrier.response_bytes", len(raw.Body)),
	)
	if failure := AsError(res); failure != nil {
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
	}

	if c.observer != nil {
		c.observer.ObserveForward(op, res.Outcome(), duration, len(raw.Body))
	}

	return res, nil
}

func (c *Client) rejected(op Operation, reason string) {
	if c.observer != nil {
		c.observer.ObservePreflightRejection(op, reason)
	}
}

// present reports whether a required query value was supplied.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}
