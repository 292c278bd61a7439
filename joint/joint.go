// Package joint defines the polymorphic constraint interface the
// sequential-impulse solver drives alongside contacts (§3 "Joint"), plus
// two worked concrete joints. Analytical Jacobians for every joint kind
// are out of scope; distance and revolute cover the solver's contract.
package joint

import "github.com/akmonengine/plume/actor"

// Step carries the per-substep timing the solver passes into every
// joint phase.
type Step struct {
	Dt       float64
	InvDt    float64
}

// Settings carries the solver tunables a joint's bias terms read
// (Baumgarte factor, slop), kept separate from constraint.* to avoid a
// package cycle (constraint never needs to know about joints).
type Settings struct {
	Baumgarte float64
	LinearSlop float64
}

// DefaultSettings mirrors the constraint package's contact defaults so
// joints and contacts feel consistent within the same island solve.
func DefaultSettings() Settings {
	return Settings{Baumgarte: 0.2, LinearSlop: 0.005}
}

// Joint is a polymorphic constraint over one or more bodies, driven by
// the solver exactly as §4.9 describes for contacts: an initialize
// phase, a velocity-iteration phase, and a position-iteration phase
// that reports convergence (§3 "Joint").
type Joint interface {
	// InitializeConstraints computes effective masses and velocity
	// biases for the step and warm-starts by applying any stored
	// impulse to the connected bodies.
	InitializeConstraints(step Step, settings Settings)

	// SolveVelocityConstraints applies one sequential-impulse
	// correction to the connected bodies' velocities.
	SolveVelocityConstraints(step Step, settings Settings)

	// SolvePositionConstraints nudges the connected bodies' transforms
	// to reduce constraint error, reporting whether the joint has
	// converged to within its position tolerance this iteration.
	SolvePositionConstraints(step Step, settings Settings) (converged bool)

	// ReactionForce returns the constraint force the joint applied over
	// the last step, scaled by invDt to recover a force from an
	// impulse.
	ReactionForce(invDt float64) (x, y float64)

	// ReactionTorque returns the constraint torque the joint applied
	// over the last step.
	ReactionTorque(invDt float64) float64

	// Shift translates the joint's cached anchor points by delta,
	// called when the world's origin is recentered around a body far
	// from (0,0) to preserve floating-point precision.
	Shift(dx, dy float64)

	// CollisionAllowed reports whether the bodies this joint connects
	// may still generate contact constraints against one another
	// (§4.8's is-joined / joint-collision-allowed rule).
	CollisionAllowed() bool

	// Bodies returns every body this joint references, unary or n-ary,
	// for the constraint graph to build edges from (§4.8 addJoint).
	Bodies() []*actor.RigidBody
}
