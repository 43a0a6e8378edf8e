package proxy

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/proxy/types"
)

// FailureMessage is the summary line of an error body for the named route.
func FailureMessage(label string) string {
	return fmt.Sprintf("Speedy %s failed", label)
}

// HandleError converts an error returned before or instead of a carrier
// answer into an error response.
//
// Example usage:
//
//	res, err := client.CreateShipment(ctx, fields, override)
//	if err != nil {
//	    WriteErrorResponse(w, HandleError("shipment", err))
//	    return
//	}
func HandleError(label string, err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	var invalid *carrier.InvalidRequestError
	if errors.As(err, &invalid) {
		return types.NewInvalidRequestError(
			fmt.Sprintf("%s: %s %s", FailureMessage(label), invalid.Field, invalid.Message),
			invalid.Field,
			types.CodeMissingField,
		)
	}

	if errors.Is(err, carrier.ErrMissingCredentials) {
		return types.NewServerError(
			"carrier credentials are not configured",
			types.CodeCredentialsMissing,
		)
	}

	return types.NewServerError(
		"An internal error occurred. Please try again later.",
		types.CodeInternalError,
	)
}

// HandleResult converts a failed carrier result into an error response.
// It returns nil for successful results.
func HandleResult(label string, res carrier.Result) *types.ErrorResponse {
	switch r := res.(type) {
	case *carrier.TransportFailure:
		resp := &types.ErrorResponse{
			Error:   FailureMessage(label),
			Details: r.Error(),
			Type:    types.ErrorTypeBadGateway,
			Code:    types.CodeTransportFailure,
		}
		if errors.Is(r.Err, context.DeadlineExceeded) {
			resp.Type = types.ErrorTypeGatewayTimeout
		}
		return resp

	case *carrier.HTTPFailure:
		return &types.ErrorResponse{
			Error:       FailureMessage(label),
			Status:      r.StatusCode,
			Details:     string(r.Raw),
			JSON:        r.Body,
			ContentType: r.ContentType,
			Type:        types.ErrorTypeUpstream,
			Code:        types.CodeUpstreamStatus,
		}

	case *carrier.LogicalFailure:
		code := types.CodeCarrierError
		if r.Marker == "" {
			code = types.CodeUnexpectedContentType
		}
		return &types.ErrorResponse{
			Error:       FailureMessage(label),
			Status:      r.StatusCode,
			Details:     string(r.Raw),
			JSON:        r.Body,
			ContentType: r.ContentType,
			Type:        types.ErrorTypeCarrierRejected,
			Code:        code,
		}

	default:
		return nil
	}
}
