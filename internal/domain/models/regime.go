package models

// Label is the regime tag assigned to a single bar.
type Label string

const (
	LabelTrend     Label = "TREND"
	LabelRange     Label = "RANGE"
	LabelVolatile  Label = "VOLATILE"
	LabelUncertain Label = "UNCERTAIN"
)

// Decision is the trading permission derived from a regime label.
type Decision struct {
	AllowTrade   bool    `json:"allow_trade"`
	PositionSize float64 `json:"position_size"`
	Note         string  `json:"note"`
}

// ThresholdPolicy selects how the slope threshold is chosen: a fixed
// constant, or derived per-bar from recent slope history. The zero value
// is the auto policy.
type ThresholdPolicy struct {
	fixed bool
	value float64
}

// FixedThreshold uses the given constant for every bar. A zero constant is
// a legitimate threshold, not a request for auto mode.
func FixedThreshold(v float64) ThresholdPolicy {
	return ThresholdPolicy{fixed: true, value: v}
}

// AutoThreshold derives the threshold from the rolling median of recent
// absolute slopes.
func AutoThreshold() ThresholdPolicy {
	return ThresholdPolicy{}
}

// Fixed reports the constant and whether the policy is fixed.
func (p ThresholdPolicy) Fixed() (float64, bool) {
	return p.value, p.fixed
}

// RegimeConfig holds the rolling-window parameters for classification.
type RegimeConfig struct {
	LookbackVol      int     // window for return volatility
	LookbackTrend    int     // lag for the slope
	TypicalVolWindow int     // window for the volatility baseline
	VolMultHigh      float64 // volatility alarm multiplier
	Threshold        ThresholdPolicy
}

// DefaultRegimeConfig returns the stock parameters.
func DefaultRegimeConfig() RegimeConfig {
	return RegimeConfig{
		LookbackVol:      20,
		LookbackTrend:    40,
		TypicalVolWindow: 100,
		VolMultHigh:      1.5,
		Threshold:        AutoThreshold(),
	}
}
