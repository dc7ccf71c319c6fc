package service

import (
	"RegimeGate/internal/domain/models"
)

// RegimeClassifier labels every bar of a price series with a market regime.
// Implementations must be pure: same inputs, same labels, no side effects.
type RegimeClassifier interface {
	Classify(prices []float64, cfg models.RegimeConfig) ([]models.Label, error)
}

// DecisionGate maps a regime label to a trading decision. The mapping is
// total; unknown labels get the disabled decision, never an error.
type DecisionGate interface {
	Decide(label models.Label) models.Decision
}

// Metrics records service-level measurements.
type Metrics interface {
	RecordClassification(label string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordPositionSize(symbol string, size float64)
}
