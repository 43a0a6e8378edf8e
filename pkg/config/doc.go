// Package config provides configuration management for the courier proxy.
//
// Configuration is loaded once at startup from an optional YAML file, layered
// over defaults and environment variable overrides, validated, and then
// passed explicitly to the components that need it. There is no global
// instance: the carrier credentials in particular are read into an immutable
// value handed to the credential resolver.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("courier.yaml")
//
// An empty path skips the file and yields defaults plus environment.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention COURIER_SECTION_FIELD:
//
//   - COURIER_CARRIER_USERNAME overrides carrier.username
//   - COURIER_CARRIER_PASSWORD overrides carrier.password
//   - COURIER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// PORT is also honoured and binds 0.0.0.0:$PORT unless
// COURIER_PROXY_LISTEN_ADDRESS is set.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	proxy:
//	  listen_address: "0.0.0.0:3000"
//
//	carrier:
//	  base_url: "https://api.speedy.bg/v1"
//	  language: "BG"
//	  timeout: 30s
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
