package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"RegimeGate/internal/domain/models"
	"RegimeGate/internal/services/decision"
	regsvc "RegimeGate/internal/services/regime"
	xlogger "RegimeGate/pkg/logger"
)

type stubClassifier struct {
	labels []models.Label
	err    error
	calls  int
}

func (s *stubClassifier) Classify(prices []float64, cfg models.RegimeConfig) ([]models.Label, error) {
	s.calls++
	return s.labels, s.err
}

type stubMetrics struct {
	classifications []string
	errorKinds      []string
	sizes           map[string]float64
}

func (m *stubMetrics) RecordClassification(label string) { m.classifications = append(m.classifications, label) }
func (m *stubMetrics) RecordError(kind string) { m.errorKinds = append(m.errorKinds, kind) }
func (m *stubMetrics) RecordLatency(op string, s float64) {}
func (m *stubMetrics) RecordPositionSize(sym string, s float64) {
	if m.sizes == nil {
		m.sizes = map[string]float64{}
	}
	m.sizes[sym] = s
}

type stubCache struct {
	store map[string][]byte
	sets  int
	hits  int
}

func newStubCache() *stubCache { return &stubCache{store: map[string][]byte{}} }

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	c.store[key] = []byte("set")
	return nil
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	if _, ok := c.store[key]; ok {
		c.hits++
		return nil
	}
	return errors.New("miss")
}

func (c *stubCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (c *stubCache) Exists(ctx context.Context, keys ...string) (bool, error) { return false, nil }
func (c *stubCache) Close() error { return nil }

type stubPublisher struct {
	topics []string
	events []interface{}
	err    error
}

func (p *stubPublisher) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, value)
	return p.err
}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func classifyRequest(n int) *models.ClassifyRequest {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100
	}
	return &models.ClassifyRequest{
		Symbol:           "BTCUSDT",
		Prices:           prices,
		LookbackVol:      20,
		LookbackTrend:    40,
		TypicalVolWindow: 100,
		VolMultHigh:      1.5,
		TF:               "1m",
	}
}

func TestClassifyGatesOnLastLabel(t *testing.T) {
	cls := &stubClassifier{labels: []models.Label{models.LabelRange, models.LabelTrend}}
	met := &stubMetrics{}
	uc := NewRegimeUseCase(cls, decision.NewGate(), met, testLogger(t))

	res, err := uc.Classify(context.Background(), classifyRequest(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Last != models.LabelTrend {
		t.Fatalf("expected last label TREND, got %s", res.Last)
	}
	if !res.Decision.AllowTrade || res.Decision.PositionSize != 1.0 {
		t.Fatalf("expected full-risk decision, got %+v", res.Decision)
	}
	if res.Bars != 2 {
		t.Fatalf("expected 2 bars, got %d", res.Bars)
	}
	if len(met.classifications) != 1 || met.classifications[0] != "TREND" {
		t.Fatalf("expected one TREND classification recorded, got %v", met.classifications)
	}
	if met.sizes["BTCUSDT"] != 1.0 {
		t.Fatalf("expected position size gauge 1.0, got %v", met.sizes)
	}
}

func TestClassifyErrorRecordsMetric(t *testing.T) {
	cls := &stubClassifier{err: regsvc.ErrInvalidConfig}
	met := &stubMetrics{}
	uc := NewRegimeUseCase(cls, decision.NewGate(), met, testLogger(t))

	_, err := uc.Classify(context.Background(), classifyRequest(2))
	if !errors.Is(err, regsvc.ErrInvalidConfig) {
		t.Fatalf("expected wrapped config error, got %v", err)
	}
	if len(met.errorKinds) != 1 || met.errorKinds[0] != "classify" {
		t.Fatalf("expected classify error recorded, got %v", met.errorKinds)
	}
}

func TestClassifyCachesByRequestDigest(t *testing.T) {
	cls := &stubClassifier{labels: []models.Label{models.LabelRange}}
	c := newStubCache()
	uc := NewRegimeUseCase(cls, decision.NewGate(), &stubMetrics{}, testLogger(t)).
		WithCache(c, time.Minute)

	req := classifyRequest(1)
	if _, err := uc.Classify(context.Background(), req); err != nil {
		t.Fatalf("first classify: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("expected one cache set, got %d", c.sets)
	}
	if _, err := uc.Classify(context.Background(), req); err != nil {
		t.Fatalf("second classify: %v", err)
	}
	if c.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", c.hits)
	}
	if cls.calls != 1 {
		t.Fatalf("expected classifier called once, got %d", cls.calls)
	}

	// A different request must not hit the same entry.
	other := classifyRequest(1)
	other.VolMultHigh = 2.0
	if _, err := uc.Classify(context.Background(), other); err != nil {
		t.Fatalf("third classify: %v", err)
	}
	if cls.calls != 2 {
		t.Fatalf("expected classifier called for changed request, got %d calls", cls.calls)
	}
}

func TestClassifyPublishesDecisionEvent(t *testing.T) {
	cls := &stubClassifier{labels: []models.Label{models.LabelVolatile}}
	pub := &stubPublisher{}
	uc := NewRegimeUseCase(cls, decision.NewGate(), &stubMetrics{}, testLogger(t)).
		WithPublisher(pub, "regime.decisions")

	if _, err := uc.Classify(context.Background(), classifyRequest(1)); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(pub.events) != 1 || pub.topics[0] != "regime.decisions" {
		t.Fatalf("expected one event on regime.decisions, got %v", pub.topics)
	}
	ev, ok := pub.events[0].(DecisionEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", pub.events[0])
	}
	if ev.Label != "VOLATILE" || ev.AllowTrade || ev.PositionSize != 0 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestClassifyPublishFailureDoesNotFailRequest(t *testing.T) {
	cls := &stubClassifier{labels: []models.Label{models.LabelRange}}
	pub := &stubPublisher{err: errors.New("broker down")}
	uc := NewRegimeUseCase(cls, decision.NewGate(), &stubMetrics{}, testLogger(t)).
		WithPublisher(pub, "regime.decisions")

	res, err := uc.Classify(context.Background(), classifyRequest(1))
	if err != nil {
		t.Fatalf("classify should survive publish failure: %v", err)
	}
	if res.Last != models.LabelRange {
		t.Fatalf("unexpected label %s", res.Last)
	}
}

func TestClassifyBarTimes(t *testing.T) {
	cls := &stubClassifier{labels: []models.Label{models.LabelRange, models.LabelRange, models.LabelRange}}
	uc := NewRegimeUseCase(cls, decision.NewGate(), &stubMetrics{}, testLogger(t))

	req := classifyRequest(3)
	req.Start = "2024-10-10T10:00:00Z"
	req.TF = "1m"
	res, err := uc.Classify(context.Background(), req)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(res.Times) != 3 {
		t.Fatalf("expected 3 bar times, got %d", len(res.Times))
	}
	want := time.Date(2024, 10, 10, 10, 2, 0, 0, time.UTC)
	if !res.Times[2].Equal(want) {
		t.Fatalf("expected last bar at %v, got %v", want, res.Times[2])
	}

	// Without a start time the response carries no bar times.
	req2 := classifyRequest(3)
	res2, err := uc.Classify(context.Background(), req2)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res2.Times != nil {
		t.Fatalf("expected no bar times, got %v", res2.Times)
	}
}

func TestDecideUnknownLabelFailsSafe(t *testing.T) {
	uc := NewRegimeUseCase(&stubClassifier{}, decision.NewGate(), &stubMetrics{}, testLogger(t))

	res := uc.Decide("SIDEWAYS")
	if res.Decision.AllowTrade || res.Decision.PositionSize != 0 {
		t.Fatalf("unknown label must fail safe, got %+v", res.Decision)
	}

	res = uc.Decide("RANGE")
	if !res.Decision.AllowTrade || res.Decision.PositionSize != 0.5 {
		t.Fatalf("expected half-risk for RANGE, got %+v", res.Decision)
	}
}
