package decision

import (
	"testing"

	"RegimeGate/internal/domain/models"
)

func TestDecideKnownLabels(t *testing.T) {
	g := NewGate()
	cases := []struct {
		label models.Label
		allow bool
		size  float64
	}{
		{models.LabelTrend, true, 1.0},
		{models.LabelRange, true, 0.5},
		{models.LabelVolatile, false, 0.0},
		{models.LabelUncertain, false, 0.0},
	}
	for _, c := range cases {
		d := g.Decide(c.label)
		if d.AllowTrade != c.allow || d.PositionSize != c.size {
			t.Fatalf("decide(%s) = {%v %v}, want {%v %v}", c.label, d.AllowTrade, d.PositionSize, c.allow, c.size)
		}
		if d.Note == "" {
			t.Fatalf("decide(%s): empty note", c.label)
		}
	}
}

func TestDecideFailSafeDefault(t *testing.T) {
	g := NewGate()
	for _, label := range []models.Label{"", "trend", "SIDEWAYS", "garbage"} {
		d := g.Decide(label)
		if d.AllowTrade || d.PositionSize != 0 {
			t.Fatalf("decide(%q) = {%v %v}, unknown labels must disable trading", label, d.AllowTrade, d.PositionSize)
		}
	}
}
