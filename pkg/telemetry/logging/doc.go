// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON or text output with configurable levels
//   - Redaction of carrier credentials and recipient contact data
//   - Request fields (request_id, operation, trace_id) taken from the context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "3f0c...")
//	slog.InfoContext(ctx, "shipment created", "shipment_id", id)
//
// # Redaction
//
// Attributes whose key contains password, username, secret, token or
// authorization are replaced with [REDACTED]. String values are scanned for
// e-mail addresses, phone numbers, bearer tokens, password assignments and
// credentials embedded in URLs.
package logging
