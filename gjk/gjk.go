// Package gjk implements the Gilbert-Johnson-Keerthi algorithm for 2D
// convex shape intersection, closest-point (separation) queries,
// containment, and raycasting.
//
// GJK detects whether two convex shapes overlap by testing whether
// their Minkowski difference contains the origin. The simplex grows
// incrementally (point → line → triangle), converging toward the
// origin in a handful of iterations for the shapes this module deals
// with.
package gjk

import (
	"sync"

	"github.com/akmonengine/plume/geom"
)

// Settings bounds every iterative loop in this package. Both fields
// have positive-value preconditions; constructing gjk calls with a
// non-positive value is a programmer error the caller must not make
// (mirrors the teacher's fail-fast stance on malformed config).
type Settings struct {
	DistanceEpsilon float64
	MaxIterations   int
}

// DefaultSettings returns conservative, generally-safe bounds.
func DefaultSettings() Settings {
	return Settings{DistanceEpsilon: 1e-6, MaxIterations: 32}
}

// Simplex holds up to 3 support points from the Minkowski difference
// A-B. Count tracks how many are in use; 2D's terminal simplex is a
// triangle (no tetrahedron case, unlike a 3D GJK).
type Simplex struct {
	Points [3]geom.SupportPoint
	Count  int
}

func (s *Simplex) Reset() { s.Count = 0 }

// push appends a support point, evicting none — callers control
// reduction explicitly via the case functions below.
func (s *Simplex) push(p geom.SupportPoint) {
	s.Points[s.Count] = p
	s.Count++
}

var SimplexPool = sync.Pool{
	New: func() interface{} { return &Simplex{} },
}

// Intersect runs the GJK intersection test between fixtures a and b.
// On true, simplex holds a triangle enclosing the origin, ready to
// seed EPA (§4.3). A run that exhausts MaxIterations conservatively
// reports intersecting with whatever simplex it last built.
func Intersect(a, b geom.Fixture, settings Settings, simplex *Simplex) bool {
	simplex.Reset()

	direction := b.Transform.Position.Sub(a.Transform.Position)
	if direction.LenSqr() < 1e-12 {
		direction = geom.Vector2{1, 0}
	}

	first := geom.MinkowskiSupport(a, b, direction)
	simplex.push(first)
	direction = first.Diff.Mul(-1)

	if direction.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < settings.MaxIterations; i++ {
		next := geom.MinkowskiSupport(a, b, direction)
		if next.Diff.Dot(direction) < 0 {
			return false
		}

		simplex.push(next)

		if reduce(simplex, &direction) {
			return true
		}
	}

	// Exhausted iterations: best-effort conservative positive.
	return true
}

// reduce dispatches to the simplex-reduction case for the current
// point count, mirroring the teacher's containsOrigin switch but with
// only the point/line/triangle cases 2D needs.
func reduce(simplex *Simplex, direction *geom.Vector2) bool {
	switch simplex.Count {
	case 2:
		return reduceLine(simplex, direction)
	case 3:
		return reduceTriangle(simplex, direction)
	}
	return false
}

// reduceLine handles the 2-point (line) simplex: A is the most recent
// point, B is the older one. Cannot itself contain the origin in 2D
// (a segment has measure zero) unless the origin lies exactly on it.
func reduceLine(simplex *Simplex, direction *geom.Vector2) bool {
	a := simplex.Points[1].Diff
	b := simplex.Points[0].Diff
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-18 {
		simplex.Points[0] = simplex.Points[1]
		simplex.Count = 1
		*direction = ao
		return ao.LenSqr() < 1e-18
	}

	if ab.Dot(ao) <= 0 {
		simplex.Points[0] = simplex.Points[1]
		simplex.Count = 1
		*direction = ao
		return false
	}

	// Perpendicular to AB, on the side facing the origin: rotate AB by
	// ±90° and pick whichever points toward ao.
	perp := geom.Perp(ab)
	if perp.Dot(ao) < 0 {
		perp = perp.Mul(-1)
	}
	if perp.Dot(ao) < 1e-18 {
		// Origin lies on the line itself.
		return true
	}
	*direction = perp
	return false
}

// reduceTriangle handles the 3-point simplex. A is the most recent
// point, B and C the older two (in that push order). Returns true iff
// the origin lies inside or on the triangle.
func reduceTriangle(simplex *Simplex, direction *geom.Vector2) bool {
	a := simplex.Points[2].Diff
	b := simplex.Points[1].Diff
	c := simplex.Points[0].Diff

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	// Outward normal of edge AB (pointing away from C) and AC (away from B).
	abPerp := tripleCross(ac, ab, ab)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0] = simplex.Points[1]
		simplex.Points[1] = simplex.Points[2]
		simplex.Count = 2
		return reduceLine(simplex, direction)
	}

	acPerp := tripleCross(ab, ac, ac)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[1] = simplex.Points[2]
		simplex.Count = 2
		return reduceLine(simplex, direction)
	}

	return true
}

// tripleCross computes (a x b) x c in 2D via the standard identity
// a*(b.c) - b*(a.c), used to get a vector in the plane of a,b,c that
// is perpendicular to one of them and points away from the third.
func tripleCross(a, b, c geom.Vector2) geom.Vector2 {
	ac := a.Dot(c)
	bc := b.Dot(c)
	return geom.Vector2{b.X()*ac - a.X()*bc, b.Y()*ac - a.Y()*bc}
}
