package geom

import "math"

// Polygon is an arbitrary convex polygon given by vertices in
// counter-clockwise winding. Normals are precomputed per edge so the
// hot Support/ContactFeature paths never recompute them.
type Polygon struct {
	Vertices []Vector2
	Normals  []Vector2
	centroid Vector2
	radius   float64
}

// NewPolygon builds a convex polygon from CCW-wound vertices, precomputing
// outward edge normals, centroid, and bounding radius.
func NewPolygon(vertices []Vector2) *Polygon {
	p := &Polygon{Vertices: vertices}
	p.Normals = make([]Vector2, len(vertices))
	for i := range vertices {
		edge := vertices[(i+1)%len(vertices)].Sub(vertices[i])
		p.Normals[i] = SafeNormalize(RightPerp(edge))
	}
	p.centroid = polygonCentroid(vertices)
	for _, v := range vertices {
		if d := v.Sub(p.centroid).Len(); d > p.radius {
			p.radius = d
		}
	}
	return p
}

// NewBox returns a rectangular polygon with the given half-extents,
// centered on the local origin.
func NewBox(halfWidth, halfHeight float64) *Polygon {
	return NewPolygon([]Vector2{
		{halfWidth, -halfHeight},
		{halfWidth, halfHeight},
		{-halfWidth, halfHeight},
		{-halfWidth, -halfHeight},
	})
}

func polygonCentroid(vertices []Vector2) Vector2 {
	var area, cx, cy float64
	n := len(vertices)
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		cross := a.X()*b.Y() - b.X()*a.Y()
		area += cross
		cx += (a.X() + b.X()) * cross
		cy += (a.Y() + b.Y()) * cross
	}
	if math.Abs(area) < 1e-12 {
		// Degenerate (near zero-area) polygon: fall back to the
		// arithmetic mean rather than dividing by ~0.
		var sum Vector2
		for _, v := range vertices {
			sum = sum.Add(v)
		}
		return sum.Mul(1.0 / float64(n))
	}
	area *= 0.5
	return Vector2{cx / (6 * area), cy / (6 * area)}
}

func (p *Polygon) Type() ShapeType { return ShapePolygon }

func (p *Polygon) Support(d Vector2) Vector2 {
	best := 0
	bestDot := math.Inf(-1)
	for i, v := range p.Vertices {
		dot := v.Dot(d)
		// Tie-break on the smaller index for deterministic convergence.
		if dot > bestDot {
			bestDot = dot
			best = i
		}
	}
	return p.Vertices[best]
}

func (p *Polygon) AABB(tx Transform) AABB {
	first := tx.ToWorld(p.Vertices[0])
	min, max := first, first
	for _, v := range p.Vertices[1:] {
		w := tx.ToWorld(v)
		min = Vector2{math.Min(min.X(), w.X()), math.Min(min.Y(), w.Y())}
		max = Vector2{math.Max(max.X(), w.X()), math.Max(max.Y(), w.Y())}
	}
	return AABB{Min: min, Max: max}
}

func (p *Polygon) BoundingRadius() float64 { return p.radius }

func (p *Polygon) Mass(density float64) float64 {
	var area float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		area += a.X()*b.Y() - b.X()*a.Y()
	}
	return density * math.Abs(area) * 0.5
}

func (p *Polygon) Inertia(mass float64) float64 {
	n := len(p.Vertices)
	var numerator, denominator float64
	for i := 0; i < n; i++ {
		a := p.Vertices[i].Sub(p.centroid)
		b := p.Vertices[(i+1)%n].Sub(p.centroid)
		cross := math.Abs(Cross(a, b))
		numerator += cross * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		denominator += cross
	}
	if denominator < 1e-12 {
		return 0
	}
	return mass * numerator / (6 * denominator)
}

// ContactFeature returns the two vertices of the edge whose outward
// normal is most aligned with d.
func (p *Polygon) ContactFeature(d Vector2) []Vector2 {
	best := 0
	bestDot := math.Inf(-1)
	for i, n := range p.Normals {
		dot := n.Dot(d)
		if dot > bestDot {
			bestDot = dot
			best = i
		}
	}
	next := (best + 1) % len(p.Vertices)
	return []Vector2{p.Vertices[best], p.Vertices[next]}
}

func (p *Polygon) Contains(point Vector2) bool {
	for i, n := range p.Normals {
		if point.Sub(p.Vertices[i]).Dot(n) > 0 {
			return false
		}
	}
	return true
}
