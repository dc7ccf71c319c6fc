package models

import "time"

// Requests and responses for the regime HTTP endpoints. Defined in domain for consistency and reuse.

type ClassifyRequest struct {
	Symbol           string    `json:"symbol"`
	Prices           []float64 `json:"prices" validate:"required,min=1,dive,gt=0"`
	LookbackVol      int       `json:"lookback_vol" default:"20" validate:"gte=1,lte=5000"`
	LookbackTrend    int       `json:"lookback_trend" default:"40" validate:"gte=1,lte=5000"`
	TypicalVolWindow int       `json:"typical_vol_window" default:"100" validate:"gte=1,lte=5000"`
	VolMultHigh      float64   `json:"vol_mult_high" default:"1.5" validate:"gt=0"`
	// SlopeThreshold keeps the original numeric contract: 0 means derive the
	// threshold from recent slope history.
	SlopeThreshold float64 `json:"slope_threshold" validate:"gte=0"`
	// Start and TF optionally timestamp the bars in the response.
	Start string `json:"start"`
	TF    string `json:"tf" default:"1m" validate:"oneof=1s 1m 5m"`
}

// RegimeConfig converts the request parameters to a classifier config.
func (r *ClassifyRequest) RegimeConfig() RegimeConfig {
	threshold := AutoThreshold()
	if r.SlopeThreshold > 0 {
		threshold = FixedThreshold(r.SlopeThreshold)
	}
	return RegimeConfig{
		LookbackVol:      r.LookbackVol,
		LookbackTrend:    r.LookbackTrend,
		TypicalVolWindow: r.TypicalVolWindow,
		VolMultHigh:      r.VolMultHigh,
		Threshold:        threshold,
	}
}

type DecideRequest struct {
	// Label is intentionally not restricted to the known set: the gate is
	// total and answers unknown labels with the disabled decision.
	Label string `query:"label" json:"label" validate:"required"`
}

type ClassifyResponse struct {
	Symbol    string      `json:"symbol,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Bars      int         `json:"bars"`
	MinBars   int         `json:"min_bars"`
	Labels    []Label     `json:"labels"`
	Times     []time.Time `json:"times,omitempty"`
	Last      Label       `json:"last"`
	Decision  Decision    `json:"decision"`
}

type DecideResponse struct {
	Label    Label    `json:"label"`
	Decision Decision `json:"decision"`
}
