// Package physics implements the motion models behind every scenario.
//
//   - [Attraction]: pairwise Newtonian force G*ma*mb/d^2
//   - [Collisions]: per-pair overlap detection with the freeze and sticky
//     responses
//   - [World]: gravitating bodies stepped by an [integrators.Integrator]
//   - [Bouncer], [BounceWorld]: a ball under constant gravity reflecting off
//     four walls with a fixed restitution
//
// Two bodies at exactly the same position have no defined force direction;
// [Attraction] reports [dynamo.ErrCoincidentBodies] instead of producing NaN.
//
// # Collision States
//
// Each pair starts Moving. When the distance drops to the sum of the radii
// both velocities are zeroed. Under [CollisionFreeze] the check repeats every
// step; under [CollisionSticky] the pair becomes Frozen and is never
// integrated again.
package physics
