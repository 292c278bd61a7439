package world

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/epa"
	"github.com/akmonengine/plume/event"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
	"github.com/akmonengine/plume/manifold"
)

// asFixture builds the geom-level (shape, transform) pair gjk/epa/
// manifold operate on from a body's own fixture.
func asFixture(body *actor.RigidBody, f *actor.Fixture) geom.Fixture {
	return geom.Fixture{Shape: f.Shape, Transform: body.Transform}
}

// narrow runs GJK, then EPA on overlap, against one fixture pair,
// reporting no contact if the shapes are separated or EPA fails to
// converge (§7 class 3: convergence exhaustion is silent).
func narrow(a, b geom.Fixture, settings Settings) (epa.Penetration, bool) {
	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, settings.GJK, simplex) {
		return epa.Penetration{}, false
	}

	penetration, err := epa.Expand(a, b, simplex, settings.EPA)
	if err != nil {
		return epa.Penetration{}, false
	}
	return penetration, true
}

// correctForLinks applies §4.5's ghost-vertex correction when either
// fixture in the pair is a chain link, rejecting or clamping the
// narrowphase normal so a body sliding across an internal chain vertex
// doesn't snag on it.
func correctForLinks(fa, fb geom.Fixture, normal geom.Vector2, depth float64) (geom.Vector2, float64) {
	if link, ok := fa.Shape.(*geom.Link); ok {
		contact := fa.SupportWorld(normal.Mul(-1))
		nearA := nearestLinkEnd(fa, link, contact)
		normal, depth = manifold.CorrectLinkNormal(link, normal, depth, nearA)
		if depth <= 0 {
			return geom.Vector2{}, 0
		}
	}
	if link, ok := fb.Shape.(*geom.Link); ok {
		// The manifold normal points A->B; CorrectLinkNormal expects the
		// normal pointing away from the link's own solid side, so flip
		// before and after correcting against B's link.
		inward := normal.Mul(-1)
		contact := fb.SupportWorld(normal)
		nearA := nearestLinkEnd(fb, link, contact)
		corrected, correctedDepth := manifold.CorrectLinkNormal(link, inward, depth, nearA)
		if correctedDepth <= 0 {
			return geom.Vector2{}, 0
		}
		normal, depth = corrected.Mul(-1), correctedDepth
	}
	return normal, depth
}

// nearestLinkEnd decides whether worldPoint sits closer to the link's A
// endpoint (shared with the previous link) or its B endpoint (shared
// with the next), in the link fixture's own world space.
func nearestLinkEnd(f geom.Fixture, link *geom.Link, worldPoint geom.Vector2) bool {
	worldA := f.Transform.ToWorld(link.A)
	worldB := f.Transform.ToWorld(link.B)
	return worldPoint.Sub(worldA).LenSqr() <= worldPoint.Sub(worldB).LenSqr()
}

// fixturePairResult is one fixture-pair's narrowphase outcome, carried
// up to the world step so the cache can be updated and sensors
// distinguished from solid contacts.
type fixturePairResult struct {
	bodyA, bodyB *actor.RigidBody
	fa, fb       *actor.Fixture
	manifold     manifold.Manifold
}

// collide runs the narrowphase and manifold generation for every
// fixture pair between bodies a and b (a body may carry several
// fixtures, a compound shape), applying link correction and the
// CollisionListener veto chain (§6) at each stage.
func collide(a, b *actor.RigidBody, settings Settings, listener event.CollisionListener) []fixturePairResult {
	if listener != nil && !listener.BroadphasePair(a, b) {
		return nil
	}

	var results []fixturePairResult
	for _, fa := range a.Fixtures {
		for _, fb := range b.Fixtures {
			gfa, gfb := asFixture(a, fa), asFixture(b, fb)

			penetration, hit := narrow(gfa, gfb, settings)
			if !hit {
				continue
			}
			if listener != nil && !listener.NarrowphaseHit(a, b) {
				continue
			}

			normal, depth := correctForLinks(gfa, gfb, penetration.Normal, penetration.Depth)
			if depth <= 0 {
				continue
			}

			m := manifold.Generate(gfa, gfb, normal, depth)
			if len(m.Points) == 0 {
				continue
			}
			if listener != nil && !listener.ManifoldGenerated(a, b, len(m.Points)) {
				continue
			}

			results = append(results, fixturePairResult{bodyA: a, bodyB: b, fa: fa, fb: fb, manifold: m})
		}
	}
	return results
}
