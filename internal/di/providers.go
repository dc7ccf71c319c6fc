package di

import (
	"fmt"

	domsvc "RegimeGate/internal/domain/service"
	"RegimeGate/internal/handler/api"
	"RegimeGate/internal/services/decision"
	"RegimeGate/internal/services/regime"
	"RegimeGate/internal/usecase"
	"RegimeGate/pkg/cache"
	"RegimeGate/pkg/config"
	"RegimeGate/pkg/events"
	xhttp "RegimeGate/pkg/http"
	xlogger "RegimeGate/pkg/logger"
	"RegimeGate/pkg/metrics"
	"RegimeGate/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domsvc.Metrics {
	return metrics.New()
}

// ProvideClassifier creates the regime classifier.
func ProvideClassifier() domsvc.RegimeClassifier {
	return regime.NewClassifier()
}

// ProvideGate creates the decision gate.
func ProvideGate() domsvc.DecisionGate {
	return decision.NewGate()
}

// ProvideCache creates the response cache. Returns nil when caching is disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	memOpts := []cache.MemoryOption{}
	if cfg.Cache.MemoryMaxSize > 0 {
		memOpts = append(memOpts, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}

	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, memOpts...), nil
}

// ProvideProducer creates the Kafka producer. Returns nil when events are disabled.
func ProvideProducer(cfg *config.Config) (*events.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}

	producer, err := events.NewProducer(
		events.WithBrokers(cfg.Events.Brokers),
		events.WithCompression(cfg.Events.Compression),
		events.WithRequiredAcks(cfg.Events.RequiredAcks),
		events.WithMaxAttempts(cfg.Events.MaxAttempts),
		events.WithBatchTimeout(cfg.Events.Linger),
		events.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("events producer: %w", err)
	}
	return producer, nil
}

// ProvideRegimeUseCase wires the classify use case with optional cache and publisher.
func ProvideRegimeUseCase(
	classifier domsvc.RegimeClassifier,
	gate domsvc.DecisionGate,
	m domsvc.Metrics,
	logger *xlogger.Logger,
	cacheSvc cache.Service,
	producer *events.Producer,
	cfg *config.Config,
) *usecase.RegimeUseCase {
	uc := usecase.NewRegimeUseCase(classifier, gate, m, logger)
	if cacheSvc != nil {
		uc = uc.WithCache(cacheSvc, cfg.Cache.TTL)
	}
	if producer != nil {
		uc = uc.WithPublisher(producer, cfg.Events.Topic)
	}
	return uc
}

// ProvideHandler creates the Echo HTTP handler.
func ProvideHandler(logger *xlogger.Logger, uc *usecase.RegimeUseCase) xhttp.Handler {
	return api.NewRegimeEchoHandler(logger, uc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler xhttp.Handler,
	cacheSvc cache.Service,
	producer *events.Producer,
) *server.App {
	return server.New(cfg, logger, handler, cacheSvc, producer)
}
