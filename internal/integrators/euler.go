package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Euler applies every active pair's force to the velocities, then advances
// each position once using the updated velocity.
type Euler[V vecmath.Vector[V]] struct{}

func NewEuler[V vecmath.Vector[V]]() *Euler[V] {
	return &Euler[V]{}
}

func (e *Euler[V]) Name() string { return "euler" }

func (e *Euler[V]) Step(bodies []dynamo.Body[V], f Field[V], dt float64) error {
	if err := kickAll(bodies, f, dt); err != nil {
		return err
	}
	for i := range bodies {
		drift(&bodies[i], dt)
	}
	return nil
}

// Pairwise runs the full kick and drift inside each pair invocation, so a
// body takes part in as many drifts per step as it has active pairs. A
// failing pair stops the step with the earlier pairs already moved.
type Pairwise[V vecmath.Vector[V]] struct{}

func NewPairwise[V vecmath.Vector[V]]() *Pairwise[V] {
	return &Pairwise[V]{}
}

func (p *Pairwise[V]) Name() string { return "pairwise" }

func (p *Pairwise[V]) Step(bodies []dynamo.Body[V], f Field[V], dt float64) error {
	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !f.Active(i, j) {
				continue
			}
			if err := kick(bodies, f, i, j, dt); err != nil {
				return err
			}
			drift(&bodies[i], dt)
			drift(&bodies[j], dt)
		}
	}
	return nil
}
