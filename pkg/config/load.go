package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the default configuration. Environment variables are
// not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention COURIER_SECTION_FIELD (e.g., COURIER_CARRIER_USERNAME).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file (skipped when path is empty)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
//
// The returned value is meant to be treated as immutable once the process
// has started serving.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile reads and parses the file at path over the default configuration.
func loadFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Decoding over the defaults keeps true-valued booleans that the file omits.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format COURIER_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// PORT is honoured for platforms that inject it; an explicit listen
	// address still wins.
	if val := os.Getenv("PORT"); val != "" {
		if _, err := strconv.Atoi(val); err == nil {
			cfg.Proxy.ListenAddress = net.JoinHostPort("0.0.0.0", val)
		}
	}

	// Proxy overrides
	if val := os.Getenv("COURIER_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	setDuration("COURIER_PROXY_READ_TIMEOUT", &cfg.Proxy.ReadTimeout)
	setDuration("COURIER_PROXY_WRITE_TIMEOUT", &cfg.Proxy.WriteTimeout)
	setDuration("COURIER_PROXY_IDLE_TIMEOUT", &cfg.Proxy.IdleTimeout)
	setDuration("COURIER_PROXY_SHUTDOWN_TIMEOUT", &cfg.Proxy.ShutdownTimeout)
	setDuration("COURIER_PROXY_REQUEST_TIMEOUT", &cfg.Proxy.RequestTimeout)
	if val := os.Getenv("COURIER_PROXY_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Proxy.MaxBodyBytes = i
		}
	}
	setBool("COURIER_PROXY_CORS_ENABLED", &cfg.Proxy.CORS.Enabled)

	// Carrier overrides
	if val := os.Getenv("COURIER_CARRIER_BASE_URL"); val != "" {
		cfg.Carrier.BaseURL = val
	}
	if val := os.Getenv("COURIER_CARRIER_USERNAME"); val != "" {
		cfg.Carrier.Username = val
	}
	if val := os.Getenv("COURIER_CARRIER_PASSWORD"); val != "" {
		cfg.Carrier.Password = val
	}
	if val := os.Getenv("COURIER_CARRIER_LANGUAGE"); val != "" {
		cfg.Carrier.Language = val
	}
	if val := os.Getenv("COURIER_CARRIER_LABEL_CONTENT_TYPE"); val != "" {
		cfg.Carrier.LabelContentType = val
	}
	setDuration("COURIER_CARRIER_TIMEOUT", &cfg.Carrier.Timeout)
	setBool("COURIER_CARRIER_ALLOW_CREDENTIAL_OVERRIDE", &cfg.Carrier.AllowCredentialOverride)
	if val := os.Getenv("COURIER_CARRIER_MAX_RESPONSE_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Carrier.MaxResponseBytes = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("COURIER_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("COURIER_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	setBool("COURIER_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	if val := os.Getenv("COURIER_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	setBool("COURIER_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	if val := os.Getenv("COURIER_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("COURIER_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Security overrides
	setBool("COURIER_SECURITY_TLS_ENABLED", &cfg.Security.TLS.Enabled)
	if val := os.Getenv("COURIER_SECURITY_TLS_CERT_FILE"); val != "" {
		cfg.Security.TLS.CertFile = val
	}
	if val := os.Getenv("COURIER_SECURITY_TLS_KEY_FILE"); val != "" {
		cfg.Security.TLS.KeyFile = val
	}
	if val := os.Getenv("COURIER_SECURITY_SECRETS_DIR"); val != "" {
		cfg.Security.Secrets.Dir = val
	}
}

// setDuration overwrites dst when the variable holds a parseable duration.
func setDuration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// setBool overwrites dst when the variable holds a parseable boolean.
func setBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
