package physics

import (
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/vecmath"
)

var errNoBodies = errors.New("at least one body is required")

// World is a set of mutually attracting bodies with a collision policy.
type World[V vecmath.Vector[V]] struct {
	G          float64
	bodies     []dynamo.Body[V]
	initial    []dynamo.Body[V]
	collisions *Collisions[V]
	integrator integrators.Integrator[V]
}

func NewWorld[V vecmath.Vector[V]](g float64, bodies []dynamo.Body[V], integ integrators.Integrator[V], mode CollisionMode) (*World[V], error) {
	if !(g > 0) {
		return nil, fmt.Errorf("%w: G must be positive, got %g", dynamo.ErrInvalidConfig, g)
	}
	if err := validateBodies(bodies); err != nil {
		return nil, err
	}
	if integ == nil {
		integ = integrators.NewEuler[V]()
	}
	return &World[V]{
		G:          g,
		bodies:     dynamo.CloneBodies(bodies),
		initial:    dynamo.CloneBodies(bodies),
		collisions: NewCollisions[V](mode),
		integrator: integ,
	}, nil
}

func (w *World[V]) Bodies() []dynamo.Body[V] { return w.bodies }

func (w *World[V]) Collisions() *Collisions[V] { return w.collisions }

func (w *World[V]) Integrator() integrators.Integrator[V] { return w.integrator }

// Force implements integrators.Field.
func (w *World[V]) Force(a, b *dynamo.Body[V]) (V, error) {
	return Attraction(w.G, a, b)
}

// Active implements integrators.Field.
func (w *World[V]) Active(i, j int) bool {
	return w.collisions.Active(i, j)
}

// Advance resolves contacts at the current positions, then integrates the
// remaining pairs by dt.
func (w *World[V]) Advance(step int, t, dt float64) ([]dynamo.Event, error) {
	events := w.collisions.Resolve(w.bodies, step, t)
	if err := w.integrator.Step(w.bodies, w, dt); err != nil {
		return events, err
	}
	return events, nil
}

func (w *World[V]) Energy() float64 {
	return TotalEnergy(w.G, w.bodies)
}

func (w *World[V]) Reset() {
	w.bodies = dynamo.CloneBodies(w.initial)
	w.collisions.Reset()
}

func validateBodies[V vecmath.Vector[V]](bodies []dynamo.Body[V]) error {
	if len(bodies) == 0 {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidBody, errNoBodies)
	}
	for i := range bodies {
		if err := bodies[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func errInvalidRestitution(e float64) error {
	return fmt.Errorf("%w: restitution must be in [0, 1], got %g", dynamo.ErrInvalidConfig, e)
}

func errInvalidBox(b Box) error {
	return fmt.Errorf("%w: bounds must have positive size, got %gx%g", dynamo.ErrInvalidConfig, b.Width(), b.Height())
}
