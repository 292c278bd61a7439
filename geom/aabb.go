package geom

import "math"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min Vector2
	Max Vector2
}

// ContainsPoint reports whether point lies inside the box (inclusive).
func (a AABB) ContainsPoint(point Vector2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps reports whether two AABBs intersect on both axes.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Union returns the smallest AABB containing both a and other.
func (a AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vector2{math.Min(a.Min.X(), other.Min.X()), math.Min(a.Min.Y(), other.Min.Y())},
		Max: Vector2{math.Max(a.Max.X(), other.Max.X()), math.Max(a.Max.Y(), other.Max.Y())},
	}
}

// Expand grows the box uniformly by margin on every side. The broadphase
// does not use it: the grid re-inserts every body's unexpanded AABB each
// sub-step.
func (a AABB) Expand(margin float64) AABB {
	m := Vector2{margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}
