// Package manifold builds contact manifolds from a penetration normal
// (epa's output) and generalizes contacts touching a chain of link
// segments so a dynamic body doesn't snag on an internal "ghost
// vertex" (§4.4, §4.5).
package manifold

import (
	"github.com/akmonengine/plume/geom"
)

const maxPoints = 2

// Point is one contact point in a manifold: its stable identifier (for
// warm-starting across steps, §4.7), world position, and penetration
// depth along the manifold's normal.
type Point struct {
	ID       uint64
	Position geom.Vector2
	Depth    float64
}

// Manifold is the result of contact generation between two fixtures:
// the separating normal (pointing from A toward B) and up to two
// contact points.
type Manifold struct {
	Normal geom.Vector2
	Points []Point
}

// clipVertex carries a clip-stage point plus the identifier of the
// incident-edge feature it originated from (its own endpoint, or a new
// vertex produced by clipping against one of the reference edge's two
// side planes).
type clipVertex struct {
	position geom.Vector2
	featureID uint64
}

// Generate builds a manifold for fixtures a and b given the narrowphase
// normal (A toward B) and penetration depth (§4.4). Circle-like shapes
// (ContactFeature returning a single point) degrade to the one-point
// case; polygon-like pairs go through reference/incident edge
// selection and Sutherland-Hodgman clipping.
func Generate(a, b geom.Fixture, normal geom.Vector2, depth float64) Manifold {
	// The reference edge is A's feature most aligned with the normal (the
	// side facing B); the incident edge is B's feature most aligned with
	// the reversed normal (the side facing A).
	dir := normal.Mul(-1)
	featureA := a.ContactFeatureWorld(normal)
	featureB := b.ContactFeatureWorld(dir)

	if len(featureA) < 2 || len(featureB) < 2 {
		return singlePointManifold(a, b, normal, depth, featureA, featureB)
	}

	return clipManifold(a.Shape.Type(), b.Shape.Type(), featureA, featureB, normal, depth)
}

// singlePointManifold handles any pair where at least one side has no
// flat edge to clip against (circle, ellipse, or a degenerate feature):
// the contact point is the midpoint between the two fixtures' supports
// along the normal.
func singlePointManifold(a, b geom.Fixture, normal geom.Vector2, depth float64, featureA, featureB []geom.Vector2) Manifold {
	var pa, pb geom.Vector2
	if len(featureA) > 0 {
		pa = featureA[0]
	} else {
		pa = a.SupportWorld(normal)
	}
	if len(featureB) > 0 {
		pb = featureB[0]
	} else {
		pb = b.SupportWorld(normal.Mul(-1))
	}

	position := pa.Add(pb).Mul(0.5)
	id := featureHash(a.Shape.Type(), b.Shape.Type(), 0)

	return Manifold{
		Normal: normal,
		Points: []Point{{ID: id, Position: position, Depth: depth}},
	}
}

// clipManifold runs the two-sided Sutherland-Hodgman clip: the incident
// edge (on B) is clipped against the reference edge's (on A) two side
// planes, then any surviving point behind the reference edge's face
// plane becomes a contact point with its penetration depth (§4.4).
func clipManifold(typeA, typeB geom.ShapeType, featureA, featureB []geom.Vector2, normal geom.Vector2, depth float64) Manifold {
	refA0, refA1 := featureA[0], featureA[1]
	tangent := geom.SafeNormalize(refA1.Sub(refA0))
	if tangent.LenSqr() < 1e-18 {
		// Degenerate (zero-length) reference edge: fall back to a single
		// point at the reference vertex itself.
		return Manifold{
			Normal: normal,
			Points: []Point{{ID: featureHash(typeA, typeB, 0), Position: refA0, Depth: depth}},
		}
	}

	incident := [2]clipVertex{
		{position: featureB[0], featureID: 0},
		{position: featureB[1], featureID: 1},
	}

	clipped, n := clipSegment(incident, tangent.Mul(-1), -tangent.Dot(refA0), 2)
	if n < 2 {
		return Manifold{Normal: normal}
	}
	clipped, n = clipSegment(clipped, tangent, tangent.Dot(refA1), 3)
	if n < 2 {
		return Manifold{Normal: normal}
	}

	points := make([]Point, 0, maxPoints)
	for i := 0; i < n; i++ {
		cv := clipped[i]
		separation := normal.Dot(cv.position.Sub(refA0))
		if separation > 0 {
			continue
		}
		points = append(points, Point{
			ID:       featureHash(typeA, typeB, cv.featureID),
			Position: cv.position,
			Depth:    -separation,
		})
	}

	return Manifold{Normal: normal, Points: points}
}

// clipSegment clips the two-vertex segment vIn against the half-plane
// {x : planeNormal.Dot(x) <= offset}, inserting an interpolated vertex
// (tagged with newID) wherever the segment crosses the plane boundary.
// This is the 2D reduction of the teacher's clipPolygonAgainstPlane:
// a 3D polygon clipped against a plane becomes a 2D segment clipped
// against a line.
func clipSegment(vIn [2]clipVertex, planeNormal geom.Vector2, offset float64, newID uint64) ([2]clipVertex, int) {
	var out [2]clipVertex
	count := 0

	d0 := planeNormal.Dot(vIn[0].position) - offset
	d1 := planeNormal.Dot(vIn[1].position) - offset

	if d0 <= 0 {
		out[count] = vIn[0]
		count++
	}
	if d1 <= 0 {
		out[count] = vIn[1]
		count++
	}

	if d0*d1 < 0 && count < 2 {
		t := d0 / (d0 - d1)
		pos := vIn[0].position.Add(vIn[1].position.Sub(vIn[0].position).Mul(t))
		out[count] = clipVertex{position: pos, featureID: newID}
		count++
	}

	return out, count
}

// featureHash combines the two shape kinds and a small feature tag into
// a stable point identifier. It does not need to be collision-free
// across unrelated pairs, only stable across steps for the same pair
// while the same feature is in contact (§4.4, §4.7).
func featureHash(typeA, typeB geom.ShapeType, feature uint64) uint64 {
	return uint64(typeA)<<48 | uint64(typeB)<<32 | feature
}
