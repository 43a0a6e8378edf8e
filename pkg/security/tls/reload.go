package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the reloader waits after the last file event
// before reading the key pair. Certificate rotation usually writes the
// certificate and key as separate events.
const DefaultDebounce = 250 * time.Millisecond

// CertificateReloader serves a key pair from disk and swaps it when the
// files change, so certificates can be renewed without a restart.
type CertificateReloader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	debounce time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	cert    *tls.Certificate
	reloads int
}

// NewCertificateReloader creates a reloader for the given files. Nothing is
// read until Load is called.
func NewCertificateReloader(certFile, keyFile string, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   logger,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
}

// Load reads and validates the key pair. On failure the previously loaded
// certificate, if any, stays in use.
func (r *CertificateReloader) Load() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}

	now := r.now()
	leaf, err := ValidateCertificate(&cert, now)
	if err != nil {
		return err
	}
	cert.Leaf = leaf

	r.mu.Lock()
	r.cert = &cert
	r.reloads++
	r.mu.Unlock()

	days, soon := ExpiresSoon(leaf, now)
	args := []any{
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_in_days", days,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	}
	if soon {
		r.logger.Warn("certificate expiring soon", args...)
	} else {
		r.logger.Info("certificate loaded", args...)
	}

	return nil
}

// Watch reloads the key pair whenever either file changes. The parent
// directories are watched rather than the files, so replacements by rename
// (as done by secret mounts) are seen. It blocks until ctx is cancelled.
func (r *CertificateReloader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]struct{}{
		filepath.Dir(r.certFile): {},
		filepath.Dir(r.keyFile):  {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	r.logger.Info("watching certificate files",
		"cert_file", r.certFile,
		"key_file", r.keyFile,
	)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !r.relevant(event) {
				continue
			}
			r.logger.Debug("certificate file event", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.AfterFunc(r.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(r.debounce)
			}

		case <-fire:
			if err := r.Load(); err != nil {
				r.logger.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			r.logger.Error("certificate watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches the certificate or key. Chmod
// events are ignored.
func (r *CertificateReloader) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == filepath.Clean(r.certFile) || name == filepath.Clean(r.keyFile) {
		return true
	}
	// Kubernetes secret volumes swap a ..data symlink.
	return filepath.Base(name) == "..data"
}

// GetCertificate returns the current certificate, or nil before Load succeeds.
func (r *CertificateReloader) GetCertificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// Reloads returns how many times a key pair has been loaded.
func (r *CertificateReloader) Reloads() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reloads
}

// GetCertificateFunc returns a function for tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		cert := r.GetCertificate()
		if cert == nil {
			return nil, fmt.Errorf("no certificate loaded")
		}
		return cert, nil
	}
}
