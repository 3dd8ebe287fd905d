// Package httpserver wraps net/http.Server with graceful shutdown,
// env-driven configuration and start/stop hooks.
//
// Run blocks until the context is cancelled, an interrupt signal is
// received or the listener fails:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", "error", err)
//	}
package httpserver
