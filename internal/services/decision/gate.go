package decision

import (
	"RegimeGate/internal/domain/models"
	domsvc "RegimeGate/internal/domain/service"
)

// Gate implements domsvc.DecisionGate as a static lookup table.
type Gate struct{}

func NewGate() *Gate { return &Gate{} }

var _ domsvc.DecisionGate = (*Gate)(nil)

// Decide maps a regime label to trading permission and sizing. Total over
// all inputs: anything outside the known labels falls through to the
// disabled decision, never to an enabled one.
func (Gate) Decide(label models.Label) models.Decision {
	switch label {
	case models.LabelTrend:
		return models.Decision{
			AllowTrade:   true,
			PositionSize: 1.0,
			Note:         "Trend regime: full risk allowed",
		}
	case models.LabelRange:
		return models.Decision{
			AllowTrade:   true,
			PositionSize: 0.5,
			Note:         "Range regime: reduced size",
		}
	case models.LabelVolatile:
		return models.Decision{
			AllowTrade:   false,
			PositionSize: 0.0,
			Note:         "Volatile regime: trading disabled",
		}
	default:
		return models.Decision{
			AllowTrade:   false,
			PositionSize: 0.0,
			Note:         "Uncertain regime: no trade",
		}
	}
}
