package geom

import "math"

// Segment is a single, zero-thickness line segment between two local
// points. It is the building block for Link (chain edges, §4.5).
type Segment struct {
	A, B Vector2
}

func (s *Segment) Type() ShapeType { return ShapeSegment }

func (s *Segment) Support(d Vector2) Vector2 {
	if s.A.Dot(d) >= s.B.Dot(d) {
		return s.A
	}
	return s.B
}

func (s *Segment) AABB(tx Transform) AABB {
	a := tx.ToWorld(s.A)
	b := tx.ToWorld(s.B)
	return AABB{
		Min: Vector2{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y())},
		Max: Vector2{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y())},
	}
}

func (s *Segment) BoundingRadius() float64 {
	return math.Max(s.A.Len(), s.B.Len())
}

// Mass treats density as a linear density (mass per unit length) since
// a zero-thickness segment has no area. Segments are typically static
// level geometry; this exists so a dynamic segment body is still
// well-defined.
func (s *Segment) Mass(density float64) float64 {
	return density * s.B.Sub(s.A).Len()
}

func (s *Segment) Inertia(mass float64) float64 {
	length := s.B.Sub(s.A).Len()
	return mass * length * length / 12
}

func (s *Segment) ContactFeature(d Vector2) []Vector2 {
	return []Vector2{s.A, s.B}
}

func (s *Segment) Contains(p Vector2) bool {
	const epsilon = 1e-9
	ab := s.B.Sub(s.A)
	ap := p.Sub(s.A)
	cross := Cross(ab, ap)
	if math.Abs(cross) > epsilon*ab.Len() {
		return false
	}
	t := ap.Dot(ab) / ab.LenSqr()
	return t >= 0 && t <= 1
}

// normal returns the segment's outward normal under the convention that
// the chain winds so the collidable (outer) side is to the right of
// the directed edge A→B.
func (s *Segment) normal() Vector2 {
	return SafeNormalize(RightPerp(s.B.Sub(s.A)))
}
