package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-payroll/internal/config"

	"go.uber.org/zap"
)

// StartHTTPServer serves handler until ctx is cancelled, then drains in-flight
// requests for up to cfg.ShutdownTimeout. A listen failure is returned at once.
func StartHTTPServer(
	ctx context.Context,
	handler http.Handler,
	cfg config.ServerConfig,
	auditLogger AuditLogger,
) error {
	log := zap.L().Named("http.server")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	started := time.Now()

	listenErr := make(chan error, 1)
	go func() {
		log.Info("http server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err, ok := <-listenErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	auditLogger.Log(context.Background(), AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "Server is shutting down",
		Meta: map[string]any{
			"port":   cfg.Port,
			"uptime": time.Since(started).Round(time.Second).String(),
		},
	})

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
		return err
	}
	log.Info("server exited gracefully")
	return nil
}
