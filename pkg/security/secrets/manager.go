package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"mercator-hq/courier/pkg/config"
)

// secretRefRegex matches ${secret:name} references in configuration values.
var secretRefRegex = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager tries its providers in order until one returns the secret.
type Manager struct {
	providers []SecretProvider
	logger    *slog.Logger
}

// NewManager creates a manager over providers, tried in order.
func NewManager(logger *slog.Logger, providers ...SecretProvider) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{providers: providers, logger: logger}
}

// NewFromConfig builds the manager for cfg: the secrets directory first,
// when configured, then the environment.
func NewFromConfig(cfg config.SecretsConfig, logger *slog.Logger) (*Manager, error) {
	var providers []SecretProvider
	if cfg.Dir != "" {
		fp, err := NewFileProvider(cfg.Dir)
		if err != nil {
			return nil, err
		}
		providers = append(providers, fp)
	}
	providers = append(providers, NewEnvProvider(cfg.EnvPrefix))
	return NewManager(logger, providers...), nil
}

// GetSecret retrieves a secret from the first provider that has it.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, provider := range m.providers {
		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			if !errors.Is(err, ErrNotFound) {
				m.logger.Warn("secret provider failed",
					"provider", provider.Provider(),
					"name", name,
					"error", err,
				)
			}
			continue
		}

		m.logger.Debug("secret resolved", "provider", provider.Provider(), "name", name)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("failed to get secret %q: %w", name, ErrNotFound)
}

// ResolveReferences replaces every ${secret:name} in input with the secret
// value. Values without references are returned unchanged.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var errs []string

	output := secretRefRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := secretRefRegex.FindStringSubmatch(match)[1]
		value, err := m.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, err.Error())
			return match
		}
		return value
	})

	if len(errs) > 0 {
		return "", fmt.Errorf("failed to resolve secret references: %s", strings.Join(errs, "; "))
	}
	return output, nil
}

// ResolveCarrierCredentials resolves references in the carrier username and
// password in place.
func (m *Manager) ResolveCarrierCredentials(ctx context.Context, cfg *config.CarrierConfig) error {
	username, err := m.ResolveReferences(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("carrier.username: %w", err)
	}
	password, err := m.ResolveReferences(ctx, cfg.Password)
	if err != nil {
		return fmt.Errorf("carrier.password: %w", err)
	}

	cfg.Username = username
	cfg.Password = password
	return nil
}

// HasReferences reports whether s contains a ${secret:name} reference.
func HasReferences(s string) bool {
	return secretRefRegex.MatchString(s)
}
