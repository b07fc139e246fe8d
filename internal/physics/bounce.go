package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	DefaultGravity     = -9.81
	DefaultRestitution = 0.8
	DefaultRestSpeed   = 0.05
)

// Box is an axis-aligned region with y pointing up.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Bouncer moves a body under constant vertical acceleration inside a Box
// and reflects it off the four walls.
type Bouncer struct {
	Gravity     float64
	Restitution float64
	// Impacts slower than RestSpeed plus one step of gravity stop the body
	// against the wall instead of bouncing. 0 reflects every impact.
	RestSpeed float64
	Box       Box
}

func NewBouncer(width, height float64) Bouncer {
	return Bouncer{
		Gravity:     DefaultGravity,
		Restitution: DefaultRestitution,
		RestSpeed:   DefaultRestSpeed,
		Box:         Box{MaxX: width, MaxY: height},
	}
}

type WallHit struct {
	Wall    string
	Impact  float64
	Rebound float64
}

// Step advances b by dt and returns the walls it bounced off. Positions are
// clamped inside the box after reflection so the body never ends a step
// past a wall.
func (bc Bouncer) Step(b *dynamo.Body[mgl64.Vec2], dt float64) []WallHit {
	b.Velocity[1] += bc.Gravity * dt
	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	var hits []WallHit
	r := b.Radius
	rest := 0.0
	if bc.RestSpeed > 0 {
		rest = bc.RestSpeed + math.Abs(bc.Gravity)*dt
	}

	if b.Position[1]-r < bc.Box.MinY {
		b.Position[1] = bc.Box.MinY + r
		hits = bc.reflect(hits, "floor", &b.Velocity[1], 1, rest)
	}
	if b.Position[1]+r > bc.Box.MaxY {
		b.Position[1] = bc.Box.MaxY - r
		hits = bc.reflect(hits, "ceiling", &b.Velocity[1], -1, rest)
	}
	if b.Position[0]-r < bc.Box.MinX {
		b.Position[0] = bc.Box.MinX + r
		hits = bc.reflect(hits, "left wall", &b.Velocity[0], 1, rest)
	}
	if b.Position[0]+r > bc.Box.MaxX {
		b.Position[0] = bc.Box.MaxX - r
		hits = bc.reflect(hits, "right wall", &b.Velocity[0], -1, rest)
	}
	return hits
}

// reflect flips a velocity component that points into the wall. inward is
// the sign of a velocity pointing away from the wall.
func (bc Bouncer) reflect(hits []WallHit, wall string, v *float64, inward, rest float64) []WallHit {
	if *v*inward >= 0 {
		return hits
	}
	impact := math.Abs(*v)
	if impact < rest {
		*v = 0
		return hits
	}
	rebound := impact * bc.Restitution
	*v = inward * rebound
	return append(hits, WallHit{Wall: wall, Impact: impact, Rebound: rebound})
}

// BounceWorld runs independent balls inside one Bouncer.
type BounceWorld struct {
	Bouncer Bouncer
	bodies  []dynamo.Body[mgl64.Vec2]
	initial []dynamo.Body[mgl64.Vec2]
}

func NewBounceWorld(bouncer Bouncer, bodies []dynamo.Body[mgl64.Vec2]) (*BounceWorld, error) {
	if err := validateBodies(bodies); err != nil {
		return nil, err
	}
	if !(bouncer.Restitution >= 0 && bouncer.Restitution <= 1) {
		return nil, errInvalidRestitution(bouncer.Restitution)
	}
	if !(bouncer.Box.Width() > 0 && bouncer.Box.Height() > 0) {
		return nil, errInvalidBox(bouncer.Box)
	}
	return &BounceWorld{
		Bouncer: bouncer,
		bodies:  dynamo.CloneBodies(bodies),
		initial: dynamo.CloneBodies(bodies),
	}, nil
}

func (w *BounceWorld) Bodies() []dynamo.Body[mgl64.Vec2] { return w.bodies }

func (w *BounceWorld) Advance(step int, t, dt float64) ([]dynamo.Event, error) {
	var events []dynamo.Event
	for i := range w.bodies {
		b := &w.bodies[i]
		for _, h := range w.Bouncer.Step(b, dt) {
			events = append(events, dynamo.Event{
				Kind:    dynamo.EventBounce,
				Step:    step,
				Time:    t + dt,
				A:       b.Name,
				B:       h.Wall,
				Speed:   h.Impact,
				Rebound: h.Rebound,
			})
		}
	}
	return events, nil
}

func (w *BounceWorld) Reset() {
	w.bodies = dynamo.CloneBodies(w.initial)
}
