package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// MomentumDrift is the largest |p - p0| of the total linear momentum.
type MomentumDrift[V vecmath.Vector[V]] struct {
	initial  V
	maxDrift float64
	samples  int
}

func NewMomentumDrift[V vecmath.Vector[V]]() *MomentumDrift[V] {
	return &MomentumDrift[V]{}
}

func (m *MomentumDrift[V]) Name() string { return "momentum_drift" }

func (m *MomentumDrift[V]) Observe(bodies []dynamo.Body[V], t float64) {
	p := physics.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift[V]) Value() float64 { return m.maxDrift }

func (m *MomentumDrift[V]) Reset() {
	var zero V
	m.initial = zero
	m.maxDrift = 0
	m.samples = 0
}
