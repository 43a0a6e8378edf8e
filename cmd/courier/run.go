package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/cli"
	"mercator-hq/courier/pkg/config"
	"mercator-hq/courier/pkg/security/secrets"
	"mercator-hq/courier/pkg/security/tls"
	"mercator-hq/courier/pkg/server"
	"mercator-hq/courier/pkg/telemetry/health"
	"mercator-hq/courier/pkg/telemetry/logging"
	"mercator-hq/courier/pkg/telemetry/metrics"
	"mercator-hq/courier/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the courier proxy server",
	Long: `Start the courier proxy server with the specified configuration.

Examples:
  # Start with defaults and environment
  courier run

  # Start with custom config
  courier run --config /etc/courier/courier.yaml

  # Override listen address
  courier run --listen 127.0.0.1:8080

  # Build every component without serving
  courier run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config and build components without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
		if err := config.Validate(cfg); err != nil {
			return cli.NewConfigError("telemetry.logging.level", err)
		}
	}

	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err)
	}
	slog.SetDefault(logger.Slog())

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer app.close()

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	if err := app.server.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// app holds the components built from the configuration.
type app struct {
	server *server.Server
	tracer *tracing.Tracer
	logger *logging.Logger
}

func buildApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*app, error) {
	secretManager, err := secrets.NewFromConfig(cfg.Security.Secrets, logger.Slog())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets: %w", err)
	}
	fromSecrets := secrets.HasReferences(cfg.Carrier.Username) || secrets.HasReferences(cfg.Carrier.Password)
	if err := secretManager.ResolveCarrierCredentials(ctx, &cfg.Carrier); err != nil {
		return nil, cli.NewConfigError("carrier", err)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		collector.SetCredentialsConfigured(cfg.Carrier.HasCredentials())
	}

	resolver := carrier.NewResolver(carrier.Credentials{
		Identity: cfg.Carrier.Username,
		Secret:   cfg.Carrier.Password,
	})
	forwarder := carrier.NewForwarder(carrier.ForwarderConfig{
		BaseURL:             cfg.Carrier.BaseURL,
		Timeout:             cfg.Carrier.Timeout,
		MaxResponseBytes:    cfg.Carrier.MaxResponseBytes,
		MaxIdleConns:        cfg.Carrier.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Carrier.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Carrier.IdleConnTimeout,
		UserAgent:           "courier/" + Version,
	})

	opts := []carrier.Option{
		carrier.WithTracer(tracer.Tracer()),
		carrier.WithLabelContentType(cfg.Carrier.LabelContentType),
		carrier.WithDefaultLocale(cfg.Carrier.Language),
	}
	if collector != nil {
		opts = append(opts, carrier.WithObserver(collector))
	}
	client := carrier.NewClient(resolver, forwarder, opts...)

	if !resolver.HasDefaults() {
		if cfg.Carrier.AllowCredentialOverride {
			logger.Warn("no default carrier credentials; requests must supply their own")
		} else {
			logger.Error("no carrier credentials configured; every carrier call will fail",
				"hint", "set COURIER_CARRIER_USERNAME and COURIER_CARRIER_PASSWORD",
			)
		}
	}

	checker := health.New(0)
	checker.RegisterCheck("credentials", health.CredentialsCheck(resolver.HasDefaults(), cfg.Carrier.AllowCredentialOverride))

	certs, err := tls.NewFromConfig(cfg.Security.TLS, logger.Slog())
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}
	if certs != nil && cfg.Security.TLS.Watch {
		go func() {
			if err := certs.Watch(ctx); err != nil {
				logger.Error("certificate watcher stopped", "error", err)
			}
		}()
	}

	srv, err := server.NewServer(server.Options{
		Config:       cfg,
		Logger:       logger,
		Client:       client,
		Health:       checker,
		Collector:    collector,
		Tracer:       tracer,
		Certificates: certs,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	})
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	logger.Info("courier configured",
		"version", Version,
		"carrier", cfg.Carrier.BaseURL,
		"credentials_configured", resolver.HasDefaults(),
		"credentials_from_secrets", fromSecrets,
		"credential_override", cfg.Carrier.AllowCredentialOverride,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", tracer.Enabled(),
		"pid", os.Getpid(),
	)

	return &app{server: srv, tracer: tracer, logger: logger}, nil
}

// close flushes spans before the process exits.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown failed", "error", err)
	}
}
