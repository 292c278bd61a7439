package manifold

import "github.com/akmonengine/plume/geom"

// CorrectLinkNormal implements the §4.5 ghost-vertex post-processor for
// a contact whose first shape is a chain link. nearA selects which end
// of the link the contact point is closest to (true: the A endpoint,
// shared with the previous link; false: the B endpoint, shared with the
// next).
//
// Links are one-way: a normal pointing into the link's inward
// half-space never collides. At a shared vertex, the neighbor link
// either opens the fan wider (convex corner — both edges' normals are
// valid contact directions, so an out-of-fan normal is clamped to
// whichever edge it's nearest) or narrows it (concave corner — the
// wedge between the two normals is a "ghost" region with no real
// surface, so a normal that falls there is canceled rather than
// guessed at).
func CorrectLinkNormal(link *geom.Link, normal geom.Vector2, depth float64, nearA bool) (geom.Vector2, float64) {
	edgeNormal := link.Normal()
	if edgeNormal.LenSqr() < 1e-18 || normal.LenSqr() < 1e-18 {
		return normal, depth
	}

	if normal.Dot(edgeNormal) < 0 {
		return geom.Vector2{}, 0
	}

	var neighborNormal geom.Vector2
	var hasNeighbor bool
	if nearA {
		neighborNormal, hasNeighbor = link.PrevEdgeNormal(), link.HasPrev
	} else {
		neighborNormal, hasNeighbor = link.NextEdgeNormal(), link.HasNext
	}
	if !hasNeighbor || neighborNormal.LenSqr() < 1e-18 {
		return normal, depth
	}

	// The fan runs counter-clockwise from the earlier edge's normal to the
	// later one's, so at the B end the link's own normal comes first.
	// Collinear neighbors (zero cross product) leave the normal unchanged.
	first, second := neighborNormal, edgeNormal
	if !nearA {
		first, second = edgeNormal, neighborNormal
	}
	switch cross := geom.Cross(first, second); {
	case cross > 0:
		return clampConvexFan(normal, depth, first, second)
	case cross < 0:
		return clampConcaveFan(normal, depth, first, second)
	}
	return normal, depth
}

// clampConvexFan rotates normal onto the nearer boundary of the
// [neighborNormal, edgeNormal] fan if it falls outside it, leaving it
// unchanged otherwise.
func clampConvexFan(normal geom.Vector2, depth float64, neighborNormal, edgeNormal geom.Vector2) (geom.Vector2, float64) {
	if geom.Cross(neighborNormal, normal) < 0 {
		return neighborNormal, depth
	}
	if geom.Cross(normal, edgeNormal) < 0 {
		return edgeNormal, depth
	}
	return normal, depth
}

// clampConcaveFan cancels the contact if normal falls in the reflex
// wedge between edgeNormal and neighborNormal (no real surface spans
// that region), leaving it unchanged otherwise.
func clampConcaveFan(normal geom.Vector2, depth float64, neighborNormal, edgeNormal geom.Vector2) (geom.Vector2, float64) {
	if geom.Cross(edgeNormal, normal) >= 0 && geom.Cross(normal, neighborNormal) >= 0 {
		return geom.Vector2{}, 0
	}
	return normal, depth
}
