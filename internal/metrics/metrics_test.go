package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

func trajectory(states ...dynamo.State) *dynamo.Trajectory {
	tr := &dynamo.Trajectory{States: states}
	for k := range states {
		tr.Time = append(tr.Time, float64(k))
		tr.Input = append(tr.Input, 0)
	}
	return tr
}

type halfSquare struct{}

func (halfSquare) Energy(x dynamo.State) float64 { return 0.5 * x[0] * x[0] }

func TestStability(t *testing.T) {
	s := NewStability(10)
	got := Evaluate(trajectory(
		dynamo.State{1}, dynamo.State{20}, dynamo.State{math.NaN()}, dynamo.State{-3},
	), s)
	if got["stability"] != 0.5 {
		t.Errorf("expected 0.5, got %v", got["stability"])
	}

	s.Reset()
	if s.Value() != 1 {
		t.Errorf("expected 1 after reset, got %v", s.Value())
	}
}

func TestPeakAndOvershoot(t *testing.T) {
	tr := trajectory(
		dynamo.State{0, 0}, dynamo.State{6, -3}, dynamo.State{11, 0.5}, dynamo.State{10, 0},
	)
	got := Evaluate(tr, NewPeak("peak_vc", 0), NewPeak("peak_il", 1), NewOvershoot(0))

	tests := []struct {
		name string
		want float64
	}{
		{"peak_vc", 11},
		{"peak_il", 3},
		{"overshoot", 0.1},
	}
	for _, tt := range tests {
		if math.Abs(got[tt.name]-tt.want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got[tt.name])
		}
	}
}

func TestOvershootMonotone(t *testing.T) {
	o := NewOvershoot(0)
	Evaluate(trajectory(dynamo.State{0}, dynamo.State{3}, dynamo.State{5}), o)
	if o.Value() != 0 {
		t.Errorf("expected 0 for a monotone rise, got %v", o.Value())
	}
}

func TestSettlingTime(t *testing.T) {
	s := NewSettlingTime(0, 5, 0.1)
	Evaluate(trajectory(dynamo.State{0}, dynamo.State{4}, dynamo.State{4.95}, dynamo.State{5.2}, dynamo.State{5.05}), s)
	if s.Value() != 3 {
		t.Errorf("expected settling at t=3, got %v", s.Value())
	}
}

func TestEnergyGrowth(t *testing.T) {
	e := NewEnergyGrowth(halfSquare{})
	f := NewFinalEnergy(halfSquare{})
	got := Evaluate(trajectory(dynamo.State{2}, dynamo.State{1}, dynamo.State{math.Sqrt(2.4)}, dynamo.State{0}), e, f)

	// energies 2, 0.5, 1.2, 0: largest rise 0.7 of an initial 2
	if math.Abs(got["energy_growth"]-0.35) > 1e-12 {
		t.Errorf("expected 0.35, got %v", got["energy_growth"])
	}
	if got["final_energy"] != 0 {
		t.Errorf("expected final energy 0, got %v", got["final_energy"])
	}
}

func TestEvaluateResets(t *testing.T) {
	p := NewPeak("peak", 0)
	Evaluate(trajectory(dynamo.State{100}), p)
	Evaluate(trajectory(dynamo.State{1}), p)
	if p.Value() != 1 {
		t.Errorf("expected 1 after re-evaluation, got %v", p.Value())
	}
}
