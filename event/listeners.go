package event

import "github.com/akmonengine/plume/actor"

// BoundsListener is notified when a body's world AABB leaves the
// world's configured boundary, e.g. a falling body dropping below the
// playable area.
type BoundsListener interface {
	OutOfBounds(body *actor.RigidBody)
}

// CollisionListener gates a candidate pair at each of the three
// narrowing stages the pipeline runs it through (§6): a false return at
// any stage drops the pair without running the remaining, more
// expensive stages.
type CollisionListener interface {
	BroadphasePair(a, b *actor.RigidBody) (proceed bool)
	NarrowphaseHit(a, b *actor.RigidBody) (proceed bool)
	ManifoldGenerated(a, b *actor.RigidBody, pointCount int) (proceed bool)
}

// ContactListener observes a contact pair's lifecycle and the two
// points in a step's solve where a caller may still influence it:
// PreSolve (last chance to disable a point before velocity iterations)
// and PostSolve (after the island has solved, impulses are final).
type ContactListener interface {
	Begin(a, b *actor.Fixture)
	Persist(a, b *actor.Fixture)
	End(a, b *actor.Fixture)
	PreSolve(a, b *actor.Fixture) (enabled bool)
	PostSolve(a, b *actor.Fixture, normalImpulse, tangentImpulse float64)
	Destroyed(a, b *actor.Fixture)
}

// StepListener observes the four phases of one world Step.
type StepListener interface {
	Begin(dt float64)
	UpdatePerformed(dt float64)
	PostSolve(dt float64)
	End(dt float64)
}

// DestructionListener is notified when a body, joint, or contact is
// removed from the world outside the normal Absent/Active/Absent
// contact lifecycle (an explicit RemoveBody/RemoveJoint call).
type DestructionListener interface {
	BodyDestroyed(body *actor.RigidBody)
	JointDestroyed(bodies []*actor.RigidBody)
	ContactDestroyed(a, b *actor.Fixture)
}

// TOIListener may veto a time-of-impact resolution §4.10 would
// otherwise apply, e.g. to let a bullet pass through a one-way
// platform it is moving away from.
type TOIListener interface {
	ShouldResolve(a, b *actor.RigidBody, t float64) (resolve bool)
}
