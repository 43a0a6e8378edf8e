package handlers

import (
	"context"
	"net/http"
	"time"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/proxy"
	"mercator-hq/courier/pkg/proxy/types"
	"mercator-hq/courier/pkg/telemetry/logging"
	"mercator-hq/courier/pkg/telemetry/tracing"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

// Route labels used in error messages ("Speedy <label> failed").
const (
	LabelLocationSite   = "location/site"
	LabelLocationOffice = "location/office"
	LabelShipment       = "shipment"
	LabelCreateShipment = "createShipment"
	LabelPrint          = "print"
)

// Options configures request handling for the carrier routes.
type Options struct {
	// MaxBodyBytes limits inbound JSON bodies.
	MaxBodyBytes int64

	// AllowCredentialOverride lets callers send their own carrier
	// credentials in the body or in X-Carrier-* headers.
	AllowCredentialOverride bool
}

// CarrierHandler serves the routes that forward to the carrier API.
type CarrierHandler struct {
	client *carrier.Client
	logger *logging.Logger
	opts   Options
}

// NewCarrierHandler creates the carrier route handlers.
func NewCarrierHandler(client *carrier.Client, logger *logging.Logger, opts Options) *CarrierHandler {
	return &CarrierHandler{
		client: client,
		logger: logger,
		opts:   opts,
	}
}

// Lookup serves POST /location/site and POST /location/office. A successful
// answer is {"sites": [...]} or {"offices": [...]}; a missing collection is
// returned as an empty list.
func (h *CarrierHandler) Lookup(kind carrier.LookupKind, label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithOperation(r.Context(), label)

		fields, override, ok := h.parse(ctx, w, r, label)
		if !ok {
			return
		}

		res, err := h.client.Lookup(ctx, kind, fields, override)
		if err != nil {
			h.writeError(ctx, w, label, proxy.HandleError(label, err), err)
			return
		}
		if errResp := proxy.HandleResult(label, res); errResp != nil {
			h.writeError(ctx, w, label, errResp, carrier.AsError(res))
			return
		}

		items := res.(*carrier.JSONSuccess).Body
		if items == nil {
			items = []any{}
		}

		h.logger.DebugContext(ctx, "lookup completed",
			"kind", string(kind),
			"results", countOf(items),
		)

		h.write(ctx, proxy.WriteJSONResponse(w, http.StatusOK, map[string]any{kind.Collection(): items}))
	}
}

// CreateShipment serves POST /shipment and its legacy alias POST
// /createShipment. The carrier's answer is returned verbatim.
func (h *CarrierHandler) CreateShipment(label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithOperation(r.Context(), label)

		fields, override, ok := h.parse(ctx, w, r, label)
		if !ok {
			return
		}

		start := time.Now()
		res, err := h.client.CreateShipment(ctx, fields, override)
		if err != nil {
			h.writeError(ctx, w, label, proxy.HandleError(label, err), err)
			return
		}
		if errResp := proxy.HandleResult(label, res); errResp != nil {
			h.writeError(ctx, w, label, errResp, carrier.AsError(res))
			return
		}

		success := res.(*carrier.JSONSuccess)
		h.logger.InfoContext(ctx, "shipment created",
			"shipment_id", gjson.GetBytes(success.Raw, "id").String(),
			"parcels", gjson.GetBytes(success.Raw, "parcels.#").Int(),
			"total", gjson.GetBytes(success.Raw, "price.total").String(),
			"latency_ms", time.Since(start).Milliseconds(),
		)

		h.write(ctx, proxy.WriteRawJSON(w, http.StatusOK, success.Raw))
	}
}

// RenderLabel serves POST /print and streams the label bytes with the
// carrier's content type.
func (h *CarrierHandler) RenderLabel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithOperation(r.Context(), LabelPrint)

		fields, override, ok := h.parse(ctx, w, r, LabelPrint)
		if !ok {
			return
		}

		res, err := h.client.RenderLabel(ctx, fields, override)
		if err != nil {
			h.writeError(ctx, w, LabelPrint, proxy.HandleError(LabelPrint, err), err)
			return
		}
		if errResp := proxy.HandleResult(LabelPrint, res); errResp != nil {
			h.writeError(ctx, w, LabelPrint, errResp, carrier.AsError(res))
			return
		}

		label := res.(*carrier.BinarySuccess)
		h.logger.InfoContext(ctx, "label rendered",
			"content_type", label.ContentType,
			"bytes", len(label.Data),
		)

		contentType := label.ContentType
		if contentType == "" {
			contentType = h.client.LabelContentType()
		}
		h.write(ctx, proxy.WriteBinary(w, contentType, label.Data))
	}
}

// parse reads the body and extracts any caller credentials. On failure it
// writes the error response and returns ok=false.
func (h *CarrierHandler) parse(ctx context.Context, w http.ResponseWriter, r *http.Request, label string) (map[string]any, *carrier.Credentials, bool) {
	fields, err := proxy.ParseJSONBody(w, r, h.opts.MaxBodyBytes)
	if err != nil {
		h.writeError(ctx, w, label, proxy.HandleError(label, err), err)
		return nil, nil, false
	}

	override := proxy.ExtractOverride(r, fields, h.opts.AllowCredentialOverride)
	return fields, override, true
}

func (h *CarrierHandler) writeError(ctx context.Context, w http.ResponseWriter, label string, errResp *types.ErrorResponse, cause error) {
	status := errResp.HTTPStatusCode()
	args := []any{
		"route", label,
		"status", status,
		"upstream_status", errResp.Status,
		"code", errResp.Code,
	}
	if cause != nil {
		args = append(args, "error", cause)
	}

	if status >= 500 {
		h.logger.ErrorContext(ctx, "carrier request failed", args...)
		tracing.SetError(trace.SpanFromContext(ctx), cause)
	} else {
		h.logger.WarnContext(ctx, "carrier request rejected", args...)
	}

	h.write(ctx, proxy.WriteErrorResponse(w, errResp))
}

func (h *CarrierHandler) write(ctx context.Context, err error) {
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func countOf(items any) int {
	if list, ok := items.([]any); ok {
		return len(list)
	}
	return 1
}
