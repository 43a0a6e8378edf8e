// Package types defines the JSON error body returned by the courier proxy.
//
// Successful calls return the carrier's own JSON (or label bytes) and need
// no wrapper type. Failures share one shape that carries both the proxy's
// classification (type, code) and whatever the carrier sent back (status,
// details, json), so a caller can surface the carrier's own message.
package types
