// Package health serves the liveness, readiness and version endpoints.
//
// Liveness only proves the process answers. Readiness runs the registered
// checks; the courier registers one that fails when no carrier credentials
// are configured and callers may not supply their own, since every carrier
// call would then be rejected.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("credentials", health.CredentialsCheck(cfg.Carrier.HasCredentials(), cfg.Carrier.AllowCredentialOverride))
//	mux.Handle("GET /ready", checker.ReadinessHandler())
package health
