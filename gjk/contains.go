package gjk

import "github.com/akmonengine/plume/geom"

// Contains reports whether fixture b lies strictly inside fixture a:
// a derivative of the separation routine per §4.2 — equal shapes and
// edge-touching configurations report false, since containment means
// b's every point is in a's interior, not merely not-disjoint.
func Contains(a, b geom.Fixture, settings Settings) bool {
	sep := Distance(a, b, settings)
	if sep.Distance > settings.DistanceEpsilon {
		return false
	}

	// Touching-but-not-enclosed: b's support in the direction away from
	// a's center must still land inside a for true containment.
	outward := b.Transform.Position.Sub(a.Transform.Position)
	if outward.LenSqr() < 1e-18 {
		// Concentric: there is no outward direction to probe, so compare
		// how far each shape reaches along the four axis directions;
		// equal shapes reach equally far and are not contained.
		for _, d := range []geom.Vector2{{1, 0}, {0, 1}, {-1, 0}, {0, -1}} {
			if b.SupportWorld(d).Dot(d) >= a.SupportWorld(d).Dot(d)-settings.DistanceEpsilon {
				return false
			}
		}
		return true
	}
	probe := b.SupportWorld(geom.SafeNormalize(outward))
	local := a.Transform.ToLocal(probe)
	return a.Shape.Contains(local)
}
