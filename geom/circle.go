package geom

import "math"

// Circle is a disc of a given radius centered on the shape's local origin.
type Circle struct {
	Radius float64
}

func (c *Circle) Type() ShapeType { return ShapeCircle }

func (c *Circle) Support(d Vector2) Vector2 {
	n := SafeNormalize(d)
	return n.Mul(c.Radius)
}

func (c *Circle) AABB(tx Transform) AABB {
	r := Vector2{c.Radius, c.Radius}
	return AABB{Min: tx.Position.Sub(r), Max: tx.Position.Add(r)}
}

func (c *Circle) BoundingRadius() float64 { return c.Radius }

func (c *Circle) Mass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius
}

func (c *Circle) Inertia(mass float64) float64 {
	return 0.5 * mass * c.Radius * c.Radius
}

func (c *Circle) ContactFeature(d Vector2) []Vector2 {
	return []Vector2{c.Support(d)}
}

func (c *Circle) Contains(p Vector2) bool {
	return p.LenSqr() <= c.Radius*c.Radius
}
