package epa

import "github.com/akmonengine/plume/geom"

// Edge is one side of the 2D expanding polytope: the two Minkowski
// support points bounding it, its outward unit normal, and that
// normal's distance from the origin (the edge's supporting line
// distance, per §4.3).
type Edge struct {
	A, B     geom.SupportPoint
	Normal   geom.Vector2
	Distance float64
}

// newEdge builds an edge from two support points, deriving its outward
// normal and distance. Winding is assumed counter-clockwise (A before
// B around the polytope), so the outward normal is A-B rotated to
// point away from the polytope interior (origin side).
func newEdge(a, b geom.SupportPoint) Edge {
	along := b.Diff.Sub(a.Diff)
	normal := geom.SafeNormalize(geom.RightPerp(along))
	distance := normal.Dot(a.Diff)
	if distance < 0 {
		// Winding was actually clockwise for this pair; flip to keep the
		// outward-normal, non-negative-distance invariant EPA depends on.
		normal = normal.Mul(-1)
		distance = -distance
	}
	return Edge{A: a, B: b, Normal: normal, Distance: distance}
}
