package gjk

import "github.com/akmonengine/plume/geom"

// Separation is the result of a GJK distance query between two
// disjoint (or touching) shapes: unit normal from A to B, the distance
// between them, and the closest point on each shape.
type Separation struct {
	Normal   geom.Vector2
	Distance float64
	PointOnA geom.Vector2
	PointOnB geom.Vector2
}

// Distance runs GJK to find the closest points between two fixtures.
// It shares Intersect's simplex-reduction machinery but keeps
// iterating past an enclosing simplex result is impossible here: once
// two points bracket the origin from both sides with no progress, the
// loop has converged to the nearest feature. Successive supports that
// fail to shrink the distance to origin by more than
// settings.DistanceEpsilon terminate the loop.
func Distance(a, b geom.Fixture, settings Settings) Separation {
	simplex := &Simplex{}

	direction := b.Transform.Position.Sub(a.Transform.Position)
	if direction.LenSqr() < 1e-12 {
		direction = geom.Vector2{1, 0}
	}

	first := geom.MinkowskiSupport(a, b, direction)
	simplex.push(first)

	closest, barycentric := closestPointOnSimplex(simplex)
	bestDist := closest.Len()

	for i := 0; i < settings.MaxIterations; i++ {
		if bestDist < 1e-18 {
			// Degenerate: shapes overlap: report zero separation along
			// whatever direction the simplex last explored.
			break
		}
		direction = closest.Mul(-1)

		next := geom.MinkowskiSupport(a, b, direction)
		proj := next.Diff.Dot(direction) / direction.Len()
		improvement := proj + bestDist

		if improvement < settings.DistanceEpsilon {
			break
		}

		if simplex.Count < 3 {
			simplex.push(next)
		} else {
			// Replace the point farthest from the newly-found support's
			// opposite, keeping the simplex a valid 2D hull of ≤3 points.
			replaceFarthest(simplex, next)
		}

		newClosest, newBary := closestPointOnSimplex(simplex)
		if newClosest.Len() >= bestDist {
			break
		}
		closest = newClosest
		barycentric = newBary
		bestDist = closest.Len()

		pruneSimplex(simplex, barycentric)
	}

	pa, pb := backProject(simplex, barycentric)
	normal := geom.SafeNormalize(closest.Mul(-1))
	return Separation{
		Normal:   normal,
		Distance: closest.Len(),
		PointOnA: pa,
		PointOnB: pb,
	}
}

// closestPointOnSimplex returns the closest point to the origin on the
// simplex's convex hull (point, segment, or triangle) along with the
// barycentric weights of that point with respect to the simplex's
// current points (index 0 = oldest).
func closestPointOnSimplex(s *Simplex) (geom.Vector2, [3]float64) {
	switch s.Count {
	case 1:
		return s.Points[0].Diff, [3]float64{1, 0, 0}
	case 2:
		return closestOnSegment(s.Points[0].Diff, s.Points[1].Diff)
	default:
		return closestOnTriangle(s.Points[0].Diff, s.Points[1].Diff, s.Points[2].Diff)
	}
}

func closestOnSegment(a, b geom.Vector2) (geom.Vector2, [3]float64) {
	ab := b.Sub(a)
	denom := ab.LenSqr()
	if denom < 1e-18 {
		return a, [3]float64{1, 0, 0}
	}
	t := a.Mul(-1).Dot(ab) / denom
	if t <= 0 {
		return a, [3]float64{1, 0, 0}
	}
	if t >= 1 {
		return b, [3]float64{0, 1, 0}
	}
	return a.Add(ab.Mul(t)), [3]float64{1 - t, t, 0}
}

func closestOnTriangle(a, b, c geom.Vector2) (geom.Vector2, [3]float64) {
	// Test vertex and edge regions first (standard closest-point-on-
	// triangle decomposition), falling back to the interior (origin is
	// inside the triangle, so the closest point is the origin itself —
	// distance 0, weights from the area ratios).
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := a.Mul(-1)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, [3]float64{1, 0, 0}
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, [3]float64{0, 1, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		return a.Add(ab.Mul(t)), [3]float64{1 - t, t, 0}
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, [3]float64{0, 0, 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		return a.Add(ac.Mul(t)), [3]float64{1 - t, 0, t}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(t)), [3]float64{0, 1 - t, t}
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w)), [3]float64{1 - v - w, v, w}
}

// replaceFarthest drops whichever current simplex point is farthest
// from the new support (in C-space), keeping the two points most
// relevant to the feature nearest the origin plus the new one.
func replaceFarthest(s *Simplex, next geom.SupportPoint) {
	worst := 0
	worstDist := -1.0
	for i := 0; i < s.Count; i++ {
		d := s.Points[i].Diff.Sub(next.Diff).LenSqr()
		if d > worstDist {
			worstDist = d
			worst = i
		}
	}
	s.Points[worst] = next
}

// pruneSimplex drops any point whose barycentric weight on the closest
// feature is (numerically) zero, so the simplex never carries a vertex
// that didn't contribute to the current closest point.
func pruneSimplex(s *Simplex, bary [3]float64) {
	kept := make([]geom.SupportPoint, 0, 3)
	for i := 0; i < s.Count; i++ {
		if bary[i] > 1e-9 {
			kept = append(kept, s.Points[i])
		}
	}
	if len(kept) == 0 {
		return
	}
	s.Count = len(kept)
	copy(s.Points[:], kept)
}

// backProject recovers the closest point on shape A and shape B from
// the simplex's barycentric weights, since each Minkowski support
// point carries both its A-side and B-side origin.
func backProject(s *Simplex, bary [3]float64) (geom.Vector2, geom.Vector2) {
	var pa, pb geom.Vector2
	for i := 0; i < s.Count; i++ {
		pa = pa.Add(s.Points[i].A.Mul(bary[i]))
		pb = pb.Add(s.Points[i].B.Mul(bary[i]))
	}
	return pa, pb
}
