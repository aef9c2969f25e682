package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{math.Inf(1)}, false},
		{"with -Inf", State{0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_AddScaled(t *testing.T) {
	x := State{1, 2}
	d := State{4, -6}

	got := x.AddScaled(0.5, d)
	if got[0] != 3 || got[1] != -1 {
		t.Errorf("expected [3 -1], got %v", got)
	}
	if x[0] != 1 || x[1] != 2 || d[0] != 4 || d[1] != -6 {
		t.Errorf("operands must not be mutated, got %v %v", x, d)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	x.AddScaled(1, State{1})
}

func TestNewTimeGrid(t *testing.T) {
	tests := []struct {
		name string
		tEnd float64
		dt   float64
		n    int
	}{
		{"exact multiple", 1.0, 0.1, 11},
		{"decimal dt", 0.5, 2e-4, 2501},
		{"non multiple", 1.05, 0.1, 11},
		{"end shorter than dt", 0.05, 0.1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewTimeGrid(tt.tEnd, tt.dt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g.Len() != tt.n {
				t.Errorf("expected %d points, got %d", tt.n, g.Len())
			}
			times := g.Times()
			if times[0] != 0 {
				t.Errorf("grid must start at 0, got %f", times[0])
			}
			for i := 1; i < len(times); i++ {
				if math.Abs(times[i]-times[i-1]-tt.dt) > 1e-12 {
					t.Fatalf("spacing at %d is %g, expected %g", i, times[i]-times[i-1], tt.dt)
				}
			}
		})
	}
}

func TestNewTimeGrid_Invalid(t *testing.T) {
	tests := []struct {
		name string
		tEnd float64
		dt   float64
	}{
		{"zero dt", 1, 0},
		{"negative dt", 1, -0.1},
		{"NaN dt", 1, math.NaN()},
		{"zero end", 0, 0.1},
		{"infinite end", math.Inf(1), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTimeGrid(tt.tEnd, tt.dt); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
