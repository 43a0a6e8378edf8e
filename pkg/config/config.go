package config

import "time"

// Config is the root configuration structure for the courier proxy.
// It contains the HTTP listener settings, the upstream carrier connection
// and its default credentials, telemetry and security settings.
type Config struct {
	// Proxy contains HTTP server configuration including listen address,
	// timeouts, body limits and CORS.
	Proxy ProxyConfig `yaml:"proxy"`

	// Carrier contains the upstream carrier API connection settings and the
	// process-wide credentials injected into every outbound call.
	Carrier CarrierConfig `yaml:"carrier"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains TLS settings for the listener.
	Security SecurityConfig `yaml:"security"`
}

// ProxyConfig contains configuration for the HTTP proxy server.
type ProxyConfig struct {
	// ListenAddress is the address and port for the proxy to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:3000", "0.0.0.0:3000").
	// Default: "0.0.0.0:3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the total handling time of one inbound request,
	// including the upstream round trip.
	// Default: 45s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of inbound JSON bodies.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Content-Type", "X-Request-ID", "X-Carrier-Username", "X-Carrier-Password"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether cookies and auth headers are allowed.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// CarrierConfig contains configuration for the upstream carrier API.
type CarrierConfig struct {
	// BaseURL is the base address of the carrier API. Operation paths such as
	// "/shipment/" are appended to it.
	// Default: "https://api.speedy.bg/v1"
	BaseURL string `yaml:"base_url"`

	// Username is the process-wide account identity injected into every
	// outbound envelope. Usually supplied through COURIER_CARRIER_USERNAME.
	Username string `yaml:"username"`

	// Password is the process-wide account secret. Usually supplied through
	// COURIER_CARRIER_PASSWORD.
	Password string `yaml:"password"`

	// Language is the envelope locale used when the caller does not send one.
	// Default: "BG"
	Language string `yaml:"language"`

	// AllowCredentialOverride lets callers send their own username and
	// password with a request (multi-tenant mode). When false, any
	// caller-supplied credentials are discarded.
	// Default: false
	AllowCredentialOverride bool `yaml:"allow_credential_override"`

	// Timeout bounds a single upstream round trip. A call that receives no
	// response within it is a transport failure.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxResponseBytes limits how much of an upstream body is read.
	// Default: 33554432 (32MB)
	MaxResponseBytes int64 `yaml:"max_response_bytes"`

	// LabelContentType is the media type a successful label rendering must
	// declare.
	// Default: "application/pdf"
	LabelContentType string `yaml:"label_content_type"`

	// MaxIdleConns is the maximum number of idle upstream connections.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections kept to the carrier host.
	// Default: 20
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle upstream connection stays pooled.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// HasCredentials reports whether both process-wide credential fields are set.
func (c CarrierConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact masks credentials and other secrets in log attributes.
	// Default: true
	Redact bool `yaml:"redact"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name identifies the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the text substituted for each match.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "courier"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "proxy"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for upstream call duration (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint (e.g. "localhost:4317").
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name reported in traces.
	// Default: "courier"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS contains listener TLS configuration.
	TLS TLSConfig `yaml:"tls"`

	// Secrets controls how ${secret:name} references in the carrier
	// credentials are resolved.
	Secrets SecretsConfig `yaml:"secrets"`
}

// SecretsConfig configures secret reference resolution.
type SecretsConfig struct {
	// Dir holds one file per secret (Docker or Kubernetes secret mounts).
	// Checked before the environment. Empty disables file lookup.
	Dir string `yaml:"dir"`

	// EnvPrefix is prepended to upper-cased secret names for environment
	// lookup.
	// Default: "COURIER_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`
}

// TLSConfig contains TLS configuration for the listener.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM certificate path.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM private key path.
	KeyFile string `yaml:"key_file"`

	// Watch reloads the certificate when either file changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`
}
