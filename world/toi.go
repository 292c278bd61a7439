package world

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/ccd"
	"github.com/akmonengine/plume/constraint"
	"github.com/akmonengine/plume/geom"
)

// maxTOIIterations bounds how many times a single bullet body can
// re-sweep within one substep (§4.10's "an iteration cap bounds the
// work").
const maxTOIIterations = 4

// sweptAABB returns the union of a body's AABB at the start and end of
// the substep just integrated, the bound resolveTOI uses to decide
// whether a bullet body's sweep could possibly reach another body.
func sweptAABB(body *actor.RigidBody) geom.AABB {
	start := body.Fixtures[0].Shape.AABB(body.PreviousTransform)
	end := body.WorldAABB()
	return start.Union(end)
}

// bulletSweep builds the ccd.Sweep covering body's motion over the
// substep just integrated, using its first fixture (§9: compound
// bullet bodies are out of scope — TOI considers only a bullet's
// primary shape).
func bulletSweep(body *actor.RigidBody) ccd.Sweep {
	return ccd.Sweep{
		Shape:        body.Fixtures[0].Shape,
		Start:        body.PreviousTransform,
		Displacement: body.Transform.Position.Sub(body.PreviousTransform.Position),
		AngularDelta: body.Transform.Angle - body.PreviousTransform.Angle,
	}
}

// resolveTOI runs §4.10 for every dynamic bullet body: find the
// earliest time of impact against any swept-AABB-overlapping body,
// advance that bullet to it, and resolve the contact with one
// velocity-solve pass. The bullet stays at the impact position for the
// rest of the substep; its motion after the impact is not integrated.
// Each further pass, up to maxTOIIterations, sweeps again from the
// substep's start to that position.
func (w *World) resolveTOI(dt float64) {
	for _, body := range w.Bodies {
		if body.BodyType != actor.BodyTypeDynamic || !body.Bullet {
			continue
		}
		w.resolveBulletTOI(body, dt)
	}
}

func (w *World) resolveBulletTOI(body *actor.RigidBody, dt float64) {
	for iter := 0; iter < maxTOIIterations; iter++ {
		sweepA := bulletSweep(body)
		boundsA := sweptAABB(body)

		var (
			bestT     = 1.0
			bestOther *actor.RigidBody
		)

		for _, other := range w.Bodies {
			if other == body {
				continue
			}
			if !boundsA.Overlaps(other.WorldAABB()) {
				continue
			}

			sweepB := bulletSweep(other)
			t, hit := ccd.TimeOfImpact(sweepA, sweepB, w.Settings.CCD)
			if !hit || t >= bestT {
				continue
			}
			if w.TOI != nil && !w.TOI.ShouldResolve(body, other, t) {
				continue
			}

			bestT = t
			bestOther = other
		}

		if bestOther == nil {
			return
		}

		body.Transform = geom.Lerp(body.PreviousTransform, sweepA.Displacement, sweepA.AngularDelta, bestT)
		w.solveTOIContact(body, bestOther, dt)
	}
}

// solveTOIContact runs a single narrowphase + one velocity-solve pass
// for the bullet's advanced position against other, stopping its
// closing velocity without waiting for the next substep's full
// pipeline to pick up the contact.
func (w *World) solveTOIContact(body, other *actor.RigidBody, dt float64) {
	results := collide(body, other, w.Settings, w.Collision)
	for _, r := range results {
		if r.manifold.Normal.LenSqr() < 1e-18 {
			continue
		}
		c := constraint.NewContactConstraint(r.bodyA, r.bodyB, r.manifold).Tune(w.cache.Tuning)
		if c.Sensor {
			continue
		}
		c.Initialize(dt)
		c.SolveVelocity()
		return
	}
}
