// Package epa implements the Expanding Polytope Algorithm for computing
// penetration depth and normal between two overlapping convex shapes,
// starting from a GJK-terminal simplex.
//
// In 2D the polytope is a polygon: a ring of Minkowski support points
// whose edges are kept in a priority queue ordered by their distance to
// the origin. Each iteration pops the closest edge, queries the
// Minkowski support along its outward normal, and either converges (the
// support doesn't extend past the edge) or splits the edge around the
// new point.
package epa

import (
	"fmt"

	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
)

// MaxIterations bounds polygon expansion when a caller passes a
// zero-value Settings (e.g. an existing test built before settings were
// threaded through). The spec requires a minimum of 4; this leaves
// ample headroom for slow-converging near-tangent pairs. settings.MaxIterations
// and settings.DistanceEpsilon, when set, take precedence — see Expand.
const (
	MaxIterations   = 32
	DistanceEpsilon = 1e-4
)

// Penetration is EPA's result: the separating normal (pointing from A
// toward B) and the penetration depth along it.
type Penetration struct {
	Normal geom.Vector2
	Depth  float64
}

// Expand runs EPA on fixtures a and b starting from the GJK simplex
// that enclosed the origin, per §4.3. settings.MaxIterations and
// settings.DistanceEpsilon (the same gjk.Settings the caller's EPA
// budget is validated against, e.g. world.Settings.EPA) bound the loop
// and its convergence tolerance; a non-positive value in either field
// falls back to this package's own default so a caller that built a
// bare gjk.Settings{} for some other purpose doesn't get an
// always-fails Expand.
func Expand(a, b geom.Fixture, simplex *gjk.Simplex, settings gjk.Settings) (Penetration, error) {
	if simplex.Count < 2 {
		return degeneratePenetration(a, b), nil
	}

	maxIterations := settings.MaxIterations
	if maxIterations <= 0 {
		maxIterations = MaxIterations
	}
	epsilon := settings.DistanceEpsilon
	if epsilon <= 0 {
		epsilon = DistanceEpsilon
	}

	poly := newPolytope(simplex)

	for i := 0; i < maxIterations; i++ {
		if poly.queue.Len() == 0 {
			return Penetration{}, fmt.Errorf("epa: polygon ran out of edges")
		}

		edge := poly.queue.popMin()

		support := geom.MinkowskiSupport(a, b, edge.Normal)
		projection := support.Diff.Dot(edge.Normal)

		if projection-edge.Distance < epsilon {
			// §4.3 step 3: depth is the new support's projection along
			// the face normal, not the (slightly smaller) popped edge
			// distance — they agree to within epsilon at convergence,
			// but projection is what the spec names.
			return Penetration{Normal: edge.Normal, Depth: projection}, nil
		}

		poly.expand(edge, support)
	}

	return Penetration{}, fmt.Errorf("epa: failed to converge after %d iterations", maxIterations)
}

// degeneratePenetration handles a GJK simplex with fewer than 2 points:
// the shapes' supports happened to coincide on the very first probe.
// The normal is estimated from the fixtures' centers and the depth is a
// fixed 1e-3, mirroring the degenerate-simplex fallback §4.3 allows for
// numerically pathological inputs.
func degeneratePenetration(a, b geom.Fixture) Penetration {
	normal := b.Transform.Position.Sub(a.Transform.Position)
	if normal.LenSqr() < 1e-12 {
		normal = geom.Vector2{0, 1}
	} else {
		normal = geom.SafeNormalize(normal)
	}
	return Penetration{Normal: normal, Depth: 1e-3}
}
