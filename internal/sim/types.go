package sim

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// System is a set of bodies that can be advanced by a fixed time step.
type System[V vecmath.Vector[V]] interface {
	Bodies() []dynamo.Body[V]
	Advance(step int, t, dt float64) ([]dynamo.Event, error)
	Reset()
}

// Energetic is implemented by systems with a conserved total energy.
type Energetic interface {
	Energy() float64
}

type Metric[V vecmath.Vector[V]] interface {
	Name() string
	Observe(bodies []dynamo.Body[V], t float64)
	Value() float64
	Reset()
}

type Observer[V vecmath.Vector[V]] interface {
	OnStep(step int, t float64, bodies []dynamo.Body[V])
}

// EventObserver is an optional extension of Observer notified of collision
// and bounce events.
type EventObserver interface {
	OnEvent(e dynamo.Event)
}

type Result struct {
	Labels     []string
	Times      []float64
	States     [][]float64
	Events     []dynamo.Event
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Column returns the series recorded under label, or nil.
func (r *Result) Column(label string) []float64 {
	idx := -1
	for i, l := range r.Labels {
		if l == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s[idx]
	}
	return out
}

// BodyView is a body projected onto screen axes.
type BodyView struct {
	Name   string
	X, Y   float64
	Z      float64
	Radius float64
	Color  string
	Speed  float64
}

type Frame struct {
	Time   float64
	Step   int
	Dim    int
	Energy float64
	Bodies []BodyView
}
