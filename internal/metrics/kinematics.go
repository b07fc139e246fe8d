package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// MinSeparation is the smallest centre distance between any pair seen over
// the run.
type MinSeparation[V vecmath.Vector[V]] struct {
	min float64
}

func NewMinSeparation[V vecmath.Vector[V]]() *MinSeparation[V] {
	return &MinSeparation[V]{min: math.Inf(1)}
}

func (m *MinSeparation[V]) Name() string { return "min_separation" }

func (m *MinSeparation[V]) Observe(bodies []dynamo.Body[V], t float64) {
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			m.min = math.Min(m.min, vecmath.Distance(bodies[i].Position, bodies[j].Position))
		}
	}
}

// Value is 0 until a pair has been observed.
func (m *MinSeparation[V]) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation[V]) Reset() { m.min = math.Inf(1) }

type MaxSpeed[V vecmath.Vector[V]] struct {
	max float64
}

func NewMaxSpeed[V vecmath.Vector[V]]() *MaxSpeed[V] { return &MaxSpeed[V]{} }

func (m *MaxSpeed[V]) Name() string { return "max_speed" }

func (m *MaxSpeed[V]) Observe(bodies []dynamo.Body[V], t float64) {
	for i := range bodies {
		m.max = math.Max(m.max, bodies[i].Speed())
	}
}

func (m *MaxSpeed[V]) Value() float64 { return m.max }

func (m *MaxSpeed[V]) Reset() { m.max = 0 }
