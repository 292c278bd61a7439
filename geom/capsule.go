package geom

import "math"

// Capsule is the Minkowski sum of a segment (from -HalfLength to
// +HalfLength along the local X axis) and a disc of Radius.
type Capsule struct {
	HalfLength float64
	Radius     float64
}

func (c *Capsule) Type() ShapeType { return ShapeCapsule }

func (c *Capsule) Support(d Vector2) Vector2 {
	// Furthest point on the core segment, then pushed out by Radius
	// along d: the Minkowski sum of a segment and a disc.
	x := c.HalfLength
	if d.X() < 0 {
		x = -x
	}
	core := Vector2{x, 0}
	return core.Add(SafeNormalize(d).Mul(c.Radius))
}

func (c *Capsule) AABB(tx Transform) AABB {
	a := tx.ToWorld(Vector2{c.HalfLength, 0})
	b := tx.ToWorld(Vector2{-c.HalfLength, 0})
	r := Vector2{c.Radius, c.Radius}
	min := Vector2{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y())}
	max := Vector2{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y())}
	return AABB{Min: min.Sub(r), Max: max.Add(r)}
}

func (c *Capsule) BoundingRadius() float64 { return c.HalfLength + c.Radius }

func (c *Capsule) Mass(density float64) float64 {
	rectArea := 2 * c.HalfLength * 2 * c.Radius
	circleArea := math.Pi * c.Radius * c.Radius
	return density * (rectArea + circleArea)
}

func (c *Capsule) Inertia(mass float64) float64 {
	// Approximate as the central 2·HalfLength × 2·Radius rectangle
	// carrying the full mass; the two end caps' extra reach is not
	// included.
	w := 2 * c.HalfLength
	h := 2 * c.Radius
	rectInertia := mass * (w*w + h*h) / 12
	return rectInertia
}

// ContactFeature always returns the single support point: the capsule's
// curved caps mean it has no flat reference edge for Sutherland-Hodgman
// clipping, so contacts against it degrade to the single-point case the
// manifold builder already handles for circles.
func (c *Capsule) ContactFeature(d Vector2) []Vector2 {
	return []Vector2{c.Support(d)}
}

func (c *Capsule) Contains(p Vector2) bool {
	x := math.Max(-c.HalfLength, math.Min(c.HalfLength, p.X()))
	closest := Vector2{x, 0}
	return p.Sub(closest).LenSqr() <= c.Radius*c.Radius
}
