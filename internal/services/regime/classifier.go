package regime

import (
	"errors"
	"fmt"
	"math"

	"RegimeGate/internal/domain/models"
	domsvc "RegimeGate/internal/domain/service"
)

// autoThresholdWindow is the trailing window for the derived slope
// threshold. Deliberately independent of the configured lookbacks.
const autoThresholdWindow = 200

var (
	ErrInvalidConfig = errors.New("regime: invalid config")
	ErrInvalidSeries = errors.New("regime: invalid price series")
)

// Classifier implements domsvc.RegimeClassifier. Stateless; safe for
// concurrent use on independent inputs.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

func (Classifier) Classify(prices []float64, cfg models.RegimeConfig) ([]models.Label, error) {
	return Classify(prices, cfg)
}

var _ domsvc.RegimeClassifier = (*Classifier)(nil)

// MinBars is the smallest series length for which any bar can leave
// UNCERTAIN: enough history for the slope, and for the volatility baseline
// stacked on top of the volatility window.
func MinBars(cfg models.RegimeConfig) int {
	return max(cfg.LookbackTrend+1, cfg.TypicalVolWindow+cfg.LookbackVol+1)
}

// Classify labels each price bar TREND, RANGE, VOLATILE or UNCERTAIN.
//
// Pipeline: simple returns -> rolling std -> rolling median baseline ->
// simple slope -> per-bar threshold -> masks. A bar is VOLATILE when its
// volatility strictly exceeds the baseline times VolMultHigh; otherwise
// TREND when |slope| strictly exceeds the threshold, RANGE when it does
// not. Bars where any intermediate is still undefined stay UNCERTAIN, as
// does the whole series when it is shorter than MinBars.
func Classify(prices []float64, cfg models.RegimeConfig) ([]models.Label, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	for i, p := range prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: price %v at index %d", ErrInvalidSeries, p, i)
		}
	}

	labels := make([]models.Label, len(prices))
	for i := range labels {
		labels[i] = models.LabelUncertain
	}
	if len(prices) < MinBars(cfg) {
		return labels, nil
	}

	rets := simpleReturns(prices)
	vol := rollingStd(rets, cfg.LookbackVol)
	typical := rollingMedian(vol, cfg.TypicalVolWindow)
	slope := simpleSlope(prices, cfg.LookbackTrend)
	threshold := slopeThreshold(slope, cfg.Threshold)

	for t := range prices {
		if math.IsNaN(vol[t]) || math.IsNaN(typical[t]) || math.IsNaN(slope[t]) || math.IsNaN(threshold[t]) {
			continue
		}
		switch {
		case vol[t] > typical[t]*cfg.VolMultHigh:
			labels[t] = models.LabelVolatile
		case math.Abs(slope[t]) > threshold[t]:
			labels[t] = models.LabelTrend
		default:
			labels[t] = models.LabelRange
		}
	}
	return labels, nil
}

// slopeThreshold resolves the per-bar slope threshold: the configured
// constant, or the rolling median of |slope| over the auto window.
func slopeThreshold(slope []float64, policy models.ThresholdPolicy) []float64 {
	if v, ok := policy.Fixed(); ok {
		out := make([]float64, len(slope))
		for i := range out {
			out[i] = v
		}
		return out
	}
	abs := make([]float64, len(slope))
	for i, s := range slope {
		abs[i] = math.Abs(s)
	}
	return rollingMedian(abs, autoThresholdWindow)
}

func validateConfig(cfg models.RegimeConfig) error {
	if cfg.LookbackVol < 1 {
		return fmt.Errorf("%w: lookback_vol %d", ErrInvalidConfig, cfg.LookbackVol)
	}
	if cfg.LookbackTrend < 1 {
		return fmt.Errorf("%w: lookback_trend %d", ErrInvalidConfig, cfg.LookbackTrend)
	}
	if cfg.TypicalVolWindow < 1 {
		return fmt.Errorf("%w: typical_vol_window %d", ErrInvalidConfig, cfg.TypicalVolWindow)
	}
	if !(cfg.VolMultHigh > 0) {
		return fmt.Errorf("%w: vol_mult_high %v", ErrInvalidConfig, cfg.VolMultHigh)
	}
	if v, ok := cfg.Threshold.Fixed(); ok && (v < 0 || math.IsNaN(v)) {
		return fmt.Errorf("%w: slope threshold %v", ErrInvalidConfig, v)
	}
	return nil
}
