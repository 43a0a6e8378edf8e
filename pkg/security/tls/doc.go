/*
Package tls terminates HTTPS for the courier listener.

The key pair is read once at startup and, when security.tls.watch is set,
reloaded whenever the certificate or key changes on disk:

	reloader, err := tls.NewFromConfig(cfg.Security.TLS, logger.Slog())
	if err != nil {
		return err
	}
	go reloader.Watch(ctx)

	srv.TLSConfig = tls.ServerConfig(reloader)

A reload that fails validation is logged and the previous certificate stays
in use.
*/
package tls
