package plot

import (
	"fmt"
	"math"

	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Series is one named curve. X and Y have equal length.
type Series struct {
	Name string
	X, Y []float64
}

// Signals returns the input, every state component and the analytic
// reference of tr, all against time.
func Signals(tr *dynamo.Trajectory, labels []string) []Series {
	out := []Series{{Name: "input", X: tr.Time, Y: tr.Input}}
	n := 0
	if len(tr.States) > 0 {
		n = len(tr.States[0])
	}
	for i := 0; i < n; i++ {
		out = append(out, Series{Name: label(labels, i), X: tr.Time, Y: tr.Component(i)})
	}
	if len(tr.Analytic) == tr.Len() && tr.Len() > 0 {
		out = append(out, Series{Name: "analytic", X: tr.Time, Y: tr.Analytic})
	}
	return out
}

// ErrorSeries is the numerical minus analytic residual of state 0. It returns
// false when tr carries no analytic reference.
func ErrorSeries(tr *dynamo.Trajectory) (Series, bool) {
	if tr.Len() == 0 || len(tr.Analytic) != tr.Len() {
		return Series{}, false
	}
	return Series{
		Name: "error",
		X:    tr.Time,
		Y:    analytic.Residual(tr.Component(0), tr.Analytic),
	}, true
}

// Derived returns the named derived series of tr against time.
func Derived(tr *dynamo.Trajectory, name string) (Series, bool) {
	y, ok := tr.Derived[name]
	if !ok || len(y) != tr.Len() {
		return Series{}, false
	}
	return Series{Name: name, X: tr.Time, Y: y}, true
}

func label(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

// Decimate thins s to about limit points, always including the last sample.
// A limit of 1 or less leaves s untouched.
func Decimate(s Series, limit int) Series {
	n := len(s.X)
	if limit <= 1 || n <= limit {
		return s
	}
	stride := (n + limit - 1) / limit
	out := Series{Name: s.Name}
	for i := 0; i < n; i += stride {
		out.X = append(out.X, s.X[i])
		out.Y = append(out.Y, s.Y[i])
	}
	if out.X[len(out.X)-1] != s.X[n-1] {
		out.X = append(out.X, s.X[n-1])
		out.Y = append(out.Y, s.Y[n-1])
	}
	return out
}

// finite truncates s at its first non-finite sample so image renderers never
// see NaN or Inf.
func finite(s Series) Series {
	for i, y := range s.Y {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return Series{Name: s.Name, X: s.X[:i], Y: s.Y[:i]}
		}
	}
	return s
}
