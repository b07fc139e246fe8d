package dynamo

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/vecmath"
)

type Body[V vecmath.Vector[V]] struct {
	Name     string
	Position V
	Velocity V
	Mass     float64
	Radius   float64
	Color    string
}

func (b *Body[V]) Validate() error {
	if !(b.Mass > 0) {
		return fmt.Errorf("%w: %s: mass must be positive, got %g", ErrInvalidBody, b.Name, b.Mass)
	}
	if b.Radius < 0 || math.IsNaN(b.Radius) {
		return fmt.Errorf("%w: %s: radius must be non-negative, got %g", ErrInvalidBody, b.Name, b.Radius)
	}
	if !b.Finite() {
		return fmt.Errorf("%w: %s", ErrInvalidState, b.Name)
	}
	return nil
}

// Finite reports whether position and velocity are free of NaN and Inf.
func (b *Body[V]) Finite() bool {
	return vecmath.IsFinite(b.Position) && vecmath.IsFinite(b.Velocity)
}

func (b *Body[V]) Speed() float64 { return b.Velocity.Len() }

func (b *Body[V]) Momentum() V { return b.Velocity.Mul(b.Mass) }

// Halt zeroes the velocity.
func (b *Body[V]) Halt() {
	var zero V
	b.Velocity = zero
}

func (b *Body[V]) Overlaps(o *Body[V]) bool {
	return vecmath.Distance(b.Position, o.Position) <= b.Radius+o.Radius
}

func CloneBodies[V vecmath.Vector[V]](bodies []Body[V]) []Body[V] {
	c := make([]Body[V], len(bodies))
	copy(c, bodies)
	return c
}

type Config struct {
	G             float64
	SpeedUp       float64
	Dt            float64
	Duration      float64
	MaxFrameDt    float64
	ValidateState bool
	ReportEvery   int
}

func DefaultConfig() Config {
	return Config{
		G:             6.674e-3,
		SpeedUp:       1.0,
		Dt:            1.0 / 60.0,
		Duration:      60.0,
		MaxFrameDt:    0.25,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if !(c.G > 0) {
		return fmt.Errorf("%w: G must be positive, got %g", ErrInvalidConfig, c.G)
	}
	if !(c.SpeedUp > 0) {
		return fmt.Errorf("%w: speed-up must be positive, got %g", ErrInvalidConfig, c.SpeedUp)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.ReportEvery < 0 {
		return fmt.Errorf("%w: report interval must be non-negative, got %d", ErrInvalidConfig, c.ReportEvery)
	}
	return nil
}

// StepDt is the simulated time advanced by one fixed step.
func (c Config) StepDt() float64 { return c.Dt * c.SpeedUp }

type EventKind string

const (
	EventCollision EventKind = "collision"
	EventBounce    EventKind = "bounce"
)

type Event struct {
	Kind     EventKind `json:"kind"`
	Step     int       `json:"step"`
	Time     float64   `json:"time"`
	A        string    `json:"a"`
	B        string    `json:"b,omitempty"`
	Distance float64   `json:"distance,omitempty"`
	Speed    float64   `json:"speed,omitempty"`
	Rebound  float64   `json:"rebound,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventCollision:
		return fmt.Sprintf("collision detected: %s and %s at t=%.3f (distance %.3f)", e.A, e.B, e.Time, e.Distance)
	case EventBounce:
		return fmt.Sprintf("bounce: %s off %s at t=%.3f (impact %.3f, rebound %.3f)", e.A, e.B, e.Time, e.Speed, e.Rebound)
	}
	return fmt.Sprintf("%s at t=%.3f", e.Kind, e.Time)
}
