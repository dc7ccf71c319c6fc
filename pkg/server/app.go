package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RegimeGate/internal/service/ratelimit"
	"RegimeGate/pkg/cache"
	"RegimeGate/pkg/config"
	"RegimeGate/pkg/events"
	xhttp "RegimeGate/pkg/http"
	"RegimeGate/pkg/http/middleware"
	applogger "RegimeGate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	cache      cache.Service
	producer   *events.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	cacheSvc cache.Service,
	producer *events.Producer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		cache:    cacheSvc,
		producer: producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	// Ship aggregated log digests to the broker when events are on.
	if a.producer != nil && a.cfg.Events.LogTopic != "" {
		a.logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Events.LogTopic,
			Publisher:      a.producer,
		})
	}

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.RateLimit.Enabled {
		opts = append(opts, xhttp.WithMiddleware(
			middleware.RateLimit(ratelimit.New(), a.cfg.RateLimit.Capacity, a.cfg.RateLimit.RefillPerSec),
		))
	}

	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.producer != nil {
		a.logger.RemoveCollector()
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("events producer close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
