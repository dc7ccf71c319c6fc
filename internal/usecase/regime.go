package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"RegimeGate/internal/domain/models"
	domsvc "RegimeGate/internal/domain/service"
	"RegimeGate/internal/services/regime"
	"RegimeGate/pkg/cache"
	xlogger "RegimeGate/pkg/logger"
	"RegimeGate/pkg/util"
)

// DecisionPublisher publishes decision events to a broker topic.
type DecisionPublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// DecisionEvent is the payload published after each classification.
type DecisionEvent struct {
	Symbol       string    `json:"symbol,omitempty"`
	Label        string    `json:"label"`
	AllowTrade   bool      `json:"allow_trade"`
	PositionSize float64   `json:"position_size"`
	Bars         int       `json:"bars"`
	Timestamp    time.Time `json:"timestamp"`
}

// RegimeUseCase classifies price history and gates trading decisions.
type RegimeUseCase struct {
	classifier domsvc.RegimeClassifier
	gate       domsvc.DecisionGate
	metrics    domsvc.Metrics
	logger     *xlogger.Logger

	cache    cache.Service
	cacheTTL time.Duration

	publisher DecisionPublisher
	topic     string
}

func NewRegimeUseCase(classifier domsvc.RegimeClassifier, gate domsvc.DecisionGate, metrics domsvc.Metrics, logger *xlogger.Logger) *RegimeUseCase {
	return &RegimeUseCase{
		classifier: classifier,
		gate:       gate,
		metrics:    metrics,
		logger:     logger,
	}
}

// WithCache enables response caching keyed by the request digest.
func (uc *RegimeUseCase) WithCache(c cache.Service, ttl time.Duration) *RegimeUseCase {
	uc.cache = c
	uc.cacheTTL = ttl
	return uc
}

// WithPublisher enables decision event publishing.
func (uc *RegimeUseCase) WithPublisher(p DecisionPublisher, topic string) *RegimeUseCase {
	uc.publisher = p
	uc.topic = topic
	return uc
}

// Classify labels every bar of the request history and gates on the last label.
func (uc *RegimeUseCase) Classify(ctx context.Context, req *models.ClassifyRequest) (*models.ClassifyResponse, error) {
	start := time.Now()

	key, ok := uc.cacheKey(req)
	if ok {
		var cached models.ClassifyResponse
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	cfg := req.RegimeConfig()
	labels, err := uc.classifier.Classify(req.Prices, cfg)
	if err != nil {
		uc.metrics.RecordError("classify")
		return nil, fmt.Errorf("classify: %w", err)
	}
	if len(labels) == 0 {
		uc.metrics.RecordError("classify")
		return nil, fmt.Errorf("classify: empty price history")
	}

	last := labels[len(labels)-1]
	decision := uc.gate.Decide(last)

	uc.metrics.RecordClassification(string(last))
	uc.metrics.RecordLatency("classify", time.Since(start).Seconds())
	if req.Symbol != "" {
		uc.metrics.RecordPositionSize(req.Symbol, decision.PositionSize)
	}

	res := &models.ClassifyResponse{
		Symbol:    req.Symbol,
		Timestamp: time.Now().UTC(),
		Bars:      len(labels),
		MinBars:   regime.MinBars(cfg),
		Labels:    labels,
		Times:     barTimes(req.Start, req.TF, len(labels)),
		Last:      last,
		Decision:  decision,
	}

	if ok {
		if err := uc.cache.Set(ctx, key, res, uc.cacheTTL); err != nil {
			uc.logger.Warn("classify cache set failed", xlogger.Error(err))
		}
	}

	uc.publishDecision(ctx, req.Symbol, res)

	return res, nil
}

// Decide gates on a single label without touching price history.
func (uc *RegimeUseCase) Decide(label string) *models.DecideResponse {
	l := models.Label(label)
	return &models.DecideResponse{
		Label:    l,
		Decision: uc.gate.Decide(l),
	}
}

func (uc *RegimeUseCase) cacheKey(req *models.ClassifyRequest) (string, bool) {
	if uc.cache == nil {
		return "", false
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	return cache.GenerateKey("classify", cache.HashKey(body)), true
}

func (uc *RegimeUseCase) publishDecision(ctx context.Context, symbol string, res *models.ClassifyResponse) {
	if uc.publisher == nil {
		return
	}
	ev := DecisionEvent{
		Symbol:       symbol,
		Label:        string(res.Last),
		AllowTrade:   res.Decision.AllowTrade,
		PositionSize: res.Decision.PositionSize,
		Bars:         res.Bars,
		Timestamp:    res.Timestamp,
	}
	if err := uc.publisher.Publish(ctx, uc.topic, []byte(symbol), ev); err != nil {
		uc.logger.Warn("decision event publish failed", xlogger.Error(err))
	}
}

func barTimes(start, tf string, n int) []time.Time {
	t0, ok := util.ParseTime(start)
	if !ok || n == 0 {
		return nil
	}
	step := util.BarDuration(tf)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t0.Add(time.Duration(i) * step)
	}
	return out
}
