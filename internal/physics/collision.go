package physics

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

type CollisionMode string

const (
	// CollisionNone never checks for overlap.
	CollisionNone CollisionMode = "none"
	// CollisionFreeze zeroes both velocities on every step the pair overlaps.
	CollisionFreeze CollisionMode = "freeze"
	// CollisionSticky freezes the pair on first contact and excludes it from
	// integration for the rest of the run.
	CollisionSticky CollisionMode = "sticky"
)

var collisionModes = []CollisionMode{CollisionNone, CollisionFreeze, CollisionSticky}

func ParseCollisionMode(s string) (CollisionMode, error) {
	if s == "" {
		return CollisionFreeze, nil
	}
	for _, m := range collisionModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownCollision, s, collisionModes)
}

func CollisionModes() []string {
	out := make([]string, len(collisionModes))
	for i, m := range collisionModes {
		out[i] = string(m)
	}
	return out
}

type pair struct{ i, j int }

// Collisions tracks per-pair contact state. A pair is Moving until its
// distance drops to the sum of the radii.
type Collisions[V vecmath.Vector[V]] struct {
	mode    CollisionMode
	frozen  map[pair]bool
	contact map[pair]bool
}

func NewCollisions[V vecmath.Vector[V]](mode CollisionMode) *Collisions[V] {
	return &Collisions[V]{
		mode:    mode,
		frozen:  make(map[pair]bool),
		contact: make(map[pair]bool),
	}
}

func (c *Collisions[V]) Mode() CollisionMode { return c.mode }

// Resolve checks every pair against the positions at the start of the step
// and halts the bodies of each overlapping pair. Events are emitted when a
// pair enters contact.
func (c *Collisions[V]) Resolve(bodies []dynamo.Body[V], step int, t float64) []dynamo.Event {
	if c.mode == CollisionNone {
		return nil
	}

	var events []dynamo.Event
	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := pair{i, j}
			if c.frozen[p] {
				continue
			}

			a, b := &bodies[i], &bodies[j]
			d := vecmath.Distance(a.Position, b.Position)
			if d > a.Radius+b.Radius {
				delete(c.contact, p)
				continue
			}

			a.Halt()
			b.Halt()

			if !c.contact[p] {
				events = append(events, dynamo.Event{
					Kind:     dynamo.EventCollision,
					Step:     step,
					Time:     t,
					A:        a.Name,
					B:        b.Name,
					Distance: d,
				})
			}
			c.contact[p] = true
			if c.mode == CollisionSticky {
				c.frozen[p] = true
			}
		}
	}
	return events
}

// Active reports whether the pair is integrated this step.
func (c *Collisions[V]) Active(i, j int) bool {
	p := pair{i, j}
	return !c.frozen[p] && !c.contact[p]
}

func (c *Collisions[V]) Frozen(i, j int) bool {
	if i > j {
		i, j = j, i
	}
	return c.frozen[pair{i, j}]
}

func (c *Collisions[V]) Reset() {
	clear(c.frozen)
	clear(c.contact)
}
