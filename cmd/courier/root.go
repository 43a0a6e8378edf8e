package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/courier/pkg/cli"
	"mercator-hq/courier/pkg/config"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courier",
		Short: "Courier - credential-injecting proxy for the Speedy carrier API",
		Long: `Courier forwards location lookups, shipment creation and label printing
to the Speedy carrier API, injecting the account credentials held by the
process so that callers never handle them.

Configuration comes from an optional YAML file, then COURIER_* environment
variables (COURIER_CARRIER_USERNAME, COURIER_CARRIER_PASSWORD, ...) and PORT.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

// loadConfig reads the configuration named by --config with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err)
	}
	return cfg, nil
}
