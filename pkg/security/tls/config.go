package tls

import (
	"crypto/tls"
	"fmt"
	"log/slog"

	"mercator-hq/courier/pkg/config"
)

// ServerConfig returns the listener TLS configuration backed by reloader.
func ServerConfig(reloader *CertificateReloader) *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: reloader.GetCertificateFunc(),
	}
}

// NewFromConfig loads the configured key pair. It returns nil when TLS is
// disabled. The caller starts Watch when cfg.Watch is set.
func NewFromConfig(cfg config.TLSConfig, logger *slog.Logger) (*CertificateReloader, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	reloader := NewCertificateReloader(cfg.CertFile, cfg.KeyFile, logger)
	if err := reloader.Load(); err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return reloader, nil
}
