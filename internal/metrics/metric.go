// Package metrics computes scalar summaries of a finished trajectory.
package metrics

import "github.com/san-kum/circuitsim/internal/dynamo"

// Metric accumulates over samples in time order.
type Metric interface {
	Name() string
	Observe(x dynamo.State, u float64, t float64)
	Value() float64
	Reset()
}

type observer struct{ m Metric }

func (o observer) OnStep(x dynamo.State, u float64, t float64) { o.m.Observe(x, u, t) }

// Evaluate resets every metric, replays tr through them and returns the
// values keyed by name.
func Evaluate(tr *dynamo.Trajectory, ms ...Metric) map[string]float64 {
	obs := make([]dynamo.Observer, len(ms))
	for i, m := range ms {
		m.Reset()
		obs[i] = observer{m}
	}
	tr.Replay(obs...)

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
