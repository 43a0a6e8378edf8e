package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/courier/pkg/cli"
	"mercator-hq/courier/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file and environment overrides, validate them and
print the effective settings. Credentials are never printed.

Examples:
  courier validate --config courier.yaml
  courier validate --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), summarize(cfg))
}

// configSummary is the effective configuration with secrets reduced to
// whether they are set.
type configSummary struct {
	Valid                   bool   `json:"valid"`
	ListenAddress           string `json:"listen_address"`
	CarrierBaseURL          string `json:"carrier_base_url"`
	Language                string `json:"language"`
	CredentialsConfigured   bool   `json:"credentials_configured"`
	AllowCredentialOverride bool   `json:"allow_credential_override"`
	CarrierTimeout          string `json:"carrier_timeout"`
	RequestTimeout          string `json:"request_timeout"`
	MaxBodyBytes            int64  `json:"max_body_bytes"`
	LabelContentType        string `json:"label_content_type"`
	LogLevel                string `json:"log_level"`
	MetricsPath             string `json:"metrics_path,omitempty"`
	TracingEndpoint         string `json:"tracing_endpoint,omitempty"`
	TLS                     bool   `json:"tls"`
}

func summarize(cfg *config.Config) configSummary {
	s := configSummary{
		Valid:                   true,
		ListenAddress:           cfg.Proxy.ListenAddress,
		CarrierBaseURL:          cfg.Carrier.BaseURL,
		Language:                cfg.Carrier.Language,
		CredentialsConfigured:   cfg.Carrier.HasCredentials(),
		AllowCredentialOverride: cfg.Carrier.AllowCredentialOverride,
		CarrierTimeout:          cfg.Carrier.Timeout.String(),
		RequestTimeout:          cfg.Proxy.RequestTimeout.String(),
		MaxBodyBytes:            cfg.Proxy.MaxBodyBytes,
		LabelContentType:        cfg.Carrier.LabelContentType,
		LogLevel:                cfg.Telemetry.Logging.Level,
		TLS:                     cfg.Security.TLS.Enabled,
	}
	if cfg.Telemetry.Metrics.Enabled {
		s.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	if cfg.Telemetry.Tracing.Enabled {
		s.TracingEndpoint = cfg.Telemetry.Tracing.Endpoint
	}
	return s
}

func (s configSummary) Fields() []cli.Field {
	fields := []cli.Field{
		{Name: "status", Value: "valid"},
		{Name: "listen address", Value: s.ListenAddress},
		{Name: "carrier", Value: s.CarrierBaseURL},
		{Name: "language", Value: s.Language},
		{Name: "credentials", Value: configured(s.CredentialsConfigured)},
		{Name: "credential override", Value: s.AllowCredentialOverride},
		{Name: "carrier timeout", Value: s.CarrierTimeout},
		{Name: "request timeout", Value: s.RequestTimeout},
		{Name: "max body bytes", Value: s.MaxBodyBytes},
		{Name: "label content type", Value: s.LabelContentType},
		{Name: "log level", Value: s.LogLevel},
		{Name: "tls", Value: s.TLS},
	}
	if s.MetricsPath != "" {
		fields = append(fields, cli.Field{Name: "metrics", Value: s.MetricsPath})
	}
	if s.TracingEndpoint != "" {
		fields = append(fields, cli.Field{Name: "tracing", Value: s.TracingEndpoint})
	}
	return fields
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured (set COURIER_CARRIER_USERNAME and COURIER_CARRIER_PASSWORD)"
}
