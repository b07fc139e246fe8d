package physics

import (
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Physically accurate value; the demos inflate it to get visible motion.
const G = 6.674e-11

// Attraction returns the Newtonian force exerted on a by b:
// G*ma*mb/d^2 along the unit vector from a to b.
func Attraction[V vecmath.Vector[V]](g float64, a, b *dynamo.Body[V]) (V, error) {
	dir, d, err := vecmath.Direction(a.Position, b.Position)
	if err != nil {
		var zero V
		if errors.Is(err, vecmath.ErrZeroLength) {
			return zero, fmt.Errorf("%w: %s and %s", dynamo.ErrCoincidentBodies, a.Name, b.Name)
		}
		return zero, err
	}
	return dir.Mul(g * a.Mass * b.Mass / (d * d)), nil
}

func Momentum[V vecmath.Vector[V]](bodies []dynamo.Body[V]) V {
	var p V
	for i := range bodies {
		p = p.Add(bodies[i].Momentum())
	}
	return p
}

func KineticEnergy[V vecmath.Vector[V]](bodies []dynamo.Body[V]) float64 {
	ke := 0.0
	for i := range bodies {
		v := bodies[i].Velocity
		ke += 0.5 * bodies[i].Mass * v.Dot(v)
	}
	return ke
}

// PotentialEnergy sums -G*mi*mj/r over all pairs. Coincident pairs are
// skipped.
func PotentialEnergy[V vecmath.Vector[V]](g float64, bodies []dynamo.Body[V]) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := vecmath.Distance(bodies[i].Position, bodies[j].Position)
			if r == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

func TotalEnergy[V vecmath.Vector[V]](g float64, bodies []dynamo.Body[V]) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(g, bodies)
}

func CenterOfMass[V vecmath.Vector[V]](bodies []dynamo.Body[V]) V {
	var c V
	total := 0.0
	for i := range bodies {
		c = c.Add(bodies[i].Position.Mul(bodies[i].Mass))
		total += bodies[i].Mass
	}
	if total == 0 {
		return c
	}
	return c.Mul(1 / total)
}
