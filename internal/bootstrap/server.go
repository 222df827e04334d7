package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (c ServerConfig) shutdownTimeout() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return defaultShutdownTimeout
	}
	return c.ShutdownTimeout
}

// StartHTTPServer runs the gin server until SIGINT or SIGTERM, then shuts it down gracefully.
func StartHTTPServer(
	router *gin.Engine,
	cfg ServerConfig,
	auditLogger AuditLogger,
) {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	auditLogger.Log(context.Background(), AuditLog{
		Action:  ActionServerStart,
		Message: "Server is starting",
		Meta: map[string]any{
			"port":          cfg.Port,
			"read_timeout":  cfg.ReadTimeout.String(),
			"write_timeout": cfg.WriteTimeout.String(),
		},
	})

	go func() {
		zap.L().Info("HTTP server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	zap.L().Info("Shutdown signal received", zap.String("signal", sig.String()))
	_ = Shutdown(server, cfg.shutdownTimeout(), sig.String(), auditLogger)
}

// Shutdown drains srv within timeout and records both the shutdown request
// and its outcome.
func Shutdown(srv interface{ Shutdown(context.Context) error }, timeout time.Duration, reason string, auditLogger AuditLogger) error {
	auditLogger.Log(context.Background(), AuditLog{
		Action:  ActionServerShutdown,
		Message: "Server is shutting down",
		Meta: map[string]any{
			"reason":  reason,
			"timeout": timeout.String(),
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	started := time.Now()
	err := srv.Shutdown(ctx)
	meta := map[string]any{
		"reason":   reason,
		"duration": time.Since(started).String(),
	}

	if err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
		meta["error"] = err.Error()
		auditLogger.Log(context.Background(), AuditLog{
			Action:  ActionServerStopped,
			Message: "Server shutdown forced",
			Failed:  true,
			Meta:    meta,
		})
		return err
	}

	zap.L().Info("Server exited gracefully")
	auditLogger.Log(context.Background(), AuditLog{
		Action:  ActionServerStopped,
		Message: "Server exited gracefully",
		Meta:    meta,
	})
	return nil
}
