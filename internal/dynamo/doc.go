// Package dynamo provides the core simulation primitives shared by every
// gravity and bounce scenario.
//
//   - [Body]: a point mass with position, velocity, mass and radius
//   - [Config]: run constants (gravitational constant, speed-up, timestep)
//   - [Event]: collision and bounce notifications emitted while stepping
//
// Bodies are generic over a fixed-size vector type from [vecmath], so a
// simulation is either entirely 2D or entirely 3D:
//
//	b := dynamo.Body[mgl64.Vec2]{
//	    Name:     "planet1",
//	    Position: mgl64.Vec2{1000, 100},
//	    Velocity: mgl64.Vec2{0, 10},
//	    Mass:     3e6,
//	    Radius:   15,
//	}
//	if err := b.Validate(); err != nil {
//	    // mass <= 0, radius < 0 or non-finite vectors
//	}
package dynamo
