package gjk

import "github.com/akmonengine/plume/geom"

// RaycastHit is returned by Raycast on a hit: the distance along the
// ray, the world-space hit point, and the shape's outward normal there.
type RaycastHit struct {
	Distance float64
	Point    geom.Vector2
	Normal   geom.Vector2
}

// Raycast advances a conservative-advancement style search along a ray
// (origin, direction, maxLength) against a single fixture, iteratively
// re-evaluating the separation between the current ray point and the
// shape until it enters the shape or the ray is exhausted (§4.2).
func Raycast(target geom.Fixture, origin, direction geom.Vector2, maxLength float64, settings Settings) (RaycastHit, bool) {
	direction = geom.SafeNormalize(direction)
	if direction.LenSqr() < 1e-18 {
		return RaycastHit{}, false
	}

	point := geom.Fixture{
		Shape:     &geom.Circle{Radius: 0},
		Transform: geom.NewTransformAt(origin, 0),
	}

	t := 0.0
	for i := 0; i < settings.MaxIterations; i++ {
		point.Transform.Position = origin.Add(direction.Mul(t))

		sep := Distance(target, point, settings)
		if sep.Distance <= settings.DistanceEpsilon {
			return RaycastHit{Distance: t, Point: point.Transform.Position, Normal: sep.Normal}, true
		}

		t += sep.Distance
		if t > maxLength {
			return RaycastHit{}, false
		}
	}

	return RaycastHit{}, false
}
