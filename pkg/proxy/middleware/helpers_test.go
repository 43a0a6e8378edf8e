package middleware

import (
	"bytes"
	"testing"

	"mercator-hq/courier/pkg/telemetry/logging"
)

func newTestLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{
		Level:  "debug",
		Format: "json",
		Redact: true,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	return logger, &buf
}
