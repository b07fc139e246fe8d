package integrators

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Field supplies the interaction between two bodies.
type Field[V vecmath.Vector[V]] interface {
	// Force returns the force exerted on a by b. The integrator applies the
	// opposite force to b.
	Force(a, b *dynamo.Body[V]) (V, error)
	// Active reports whether the pair (i, j), i < j, is still integrated.
	Active(i, j int) bool
}

type Integrator[V vecmath.Vector[V]] interface {
	Name() string
	Step(bodies []dynamo.Body[V], f Field[V], dt float64) error
}

var names = []string{"euler", "pairwise", "leapfrog"}

func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func New[V vecmath.Vector[V]](name string) (Integrator[V], error) {
	switch name {
	case "", "euler":
		return NewEuler[V](), nil
	case "pairwise":
		return NewPairwise[V](), nil
	case "leapfrog":
		return NewLeapfrog[V](), nil
	}
	return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownIntegrator, name, names)
}

// kickAll evaluates every active pair before changing any velocity, so a
// failing pair leaves all bodies untouched.
func kickAll[V vecmath.Vector[V]](bodies []dynamo.Body[V], f Field[V], dt float64) error {
	type pairForce struct {
		i, j  int
		force V
	}

	n := len(bodies)
	forces := make([]pairForce, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !f.Active(i, j) {
				continue
			}
			force, err := pairwiseForce(bodies, f, i, j)
			if err != nil {
				return err
			}
			forces = append(forces, pairForce{i, j, force})
		}
	}
	for _, p := range forces {
		apply(bodies, p.i, p.j, p.force, dt)
	}
	return nil
}

// kick applies equal and opposite impulses to bodies i and j.
func kick[V vecmath.Vector[V]](bodies []dynamo.Body[V], f Field[V], i, j int, dt float64) error {
	force, err := pairwiseForce(bodies, f, i, j)
	if err != nil {
		return err
	}
	apply(bodies, i, j, force, dt)
	return nil
}

func pairwiseForce[V vecmath.Vector[V]](bodies []dynamo.Body[V], f Field[V], i, j int) (V, error) {
	a, b := &bodies[i], &bodies[j]
	force, err := f.Force(a, b)
	if err != nil {
		return force, &dynamo.SimulationError{Bodies: []string{a.Name, b.Name}, Wrapped: err}
	}
	return force, nil
}

func apply[V vecmath.Vector[V]](bodies []dynamo.Body[V], i, j int, force V, dt float64) {
	a, b := &bodies[i], &bodies[j]
	a.Velocity = a.Velocity.Add(force.Mul(dt / a.Mass))
	b.Velocity = b.Velocity.Sub(force.Mul(dt / b.Mass))
}

func drift[V vecmath.Vector[V]](b *dynamo.Body[V], dt float64) {
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}
