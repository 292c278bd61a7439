package geom

import "math"

// Ellipse is an axis-aligned (in local space) ellipse with semi-axes
// RadiusX, RadiusY. It exists specifically to exercise the narrowphase's
// typed fallback: an ellipse has no flat edge for Sutherland-Hodgman
// clipping, so any pair involving one is routed to a single-point
// manifold at the GJK/EPA contact normal (§9 open question).
type Ellipse struct {
	RadiusX, RadiusY float64
}

func (e *Ellipse) Type() ShapeType { return ShapeEllipse }

// Support has a closed form: maximize dx*rx*cosθ + dy*ry*sinθ, which
// peaks at cosθ = dx*rx/R, sinθ = dy*ry/R where R is the amplitude of
// that sum — no iterative root-find needed.
func (e *Ellipse) Support(d Vector2) Vector2 {
	sx := d.X() * e.RadiusX
	sy := d.Y() * e.RadiusY
	r := math.Hypot(sx, sy)
	if r < 1e-12 {
		return Vector2{e.RadiusX, 0}
	}
	return Vector2{e.RadiusX * sx / r, e.RadiusY * sy / r}
}

func (e *Ellipse) AABB(tx Transform) AABB {
	// Conservative (not tight) bound: the rotated ellipse's axis-aligned
	// extent is bounded by its bounding radius in every direction.
	r := e.BoundingRadius()
	rv := Vector2{r, r}
	return AABB{Min: tx.Position.Sub(rv), Max: tx.Position.Add(rv)}
}

func (e *Ellipse) BoundingRadius() float64 {
	return math.Max(e.RadiusX, e.RadiusY)
}

func (e *Ellipse) Mass(density float64) float64 {
	return density * math.Pi * e.RadiusX * e.RadiusY
}

func (e *Ellipse) Inertia(mass float64) float64 {
	return mass * (e.RadiusX*e.RadiusX + e.RadiusY*e.RadiusY) / 4
}

func (e *Ellipse) ContactFeature(d Vector2) []Vector2 {
	return []Vector2{e.Support(d)}
}

func (e *Ellipse) Contains(p Vector2) bool {
	x := p.X() / e.RadiusX
	y := p.Y() / e.RadiusY
	return x*x+y*y <= 1
}
