package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Leapfrog is kick-drift-kick: half a velocity step, a full position step,
// then the second half kick with forces at the new positions.
type Leapfrog[V vecmath.Vector[V]] struct{}

func NewLeapfrog[V vecmath.Vector[V]]() *Leapfrog[V] {
	return &Leapfrog[V]{}
}

func (l *Leapfrog[V]) Name() string { return "leapfrog" }

func (l *Leapfrog[V]) Step(bodies []dynamo.Body[V], f Field[V], dt float64) error {
	halfDt := dt * 0.5
	if err := kickAll(bodies, f, halfDt); err != nil {
		return err
	}
	for i := range bodies {
		drift(&bodies[i], dt)
	}
	return kickAll(bodies, f, halfDt)
}
