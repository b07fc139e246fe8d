package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Stability is the fraction of observed states in which every body stays
// within threshold of the centre of mass.
type Stability[V vecmath.Vector[V]] struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability[V vecmath.Vector[V]](threshold float64) *Stability[V] {
	return &Stability[V]{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability[V]) Name() string {
	return s.name
}

func (s *Stability[V]) Observe(bodies []dynamo.Body[V], t float64) {
	s.samples++
	com := physics.CenterOfMass(bodies)
	for i := range bodies {
		if vecmath.Distance(com, bodies[i].Position) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability[V]) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability[V]) Reset() {
	s.violations = 0
	s.samples = 0
}
