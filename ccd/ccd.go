// Package ccd implements conservative advancement: a continuous
// collision detection sweep that finds the earliest time of impact
// between two moving convex shapes over a step, without tunneling
// through thin or fast-moving geometry (§4.6).
package ccd

import (
	"math"

	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
)

// MinIterations is the floor spec.md §4.6 requires for Settings.MaxIterations.
const MinIterations = 5

// Settings controls the conservative-advancement sweep.
type Settings struct {
	MaxIterations  int
	DistanceEpsilon float64
}

// DefaultSettings returns conservative-advancement settings comfortably
// above the spec's minimums.
func DefaultSettings() Settings {
	return Settings{MaxIterations: 20, DistanceEpsilon: 1e-4}
}

// Sweep describes a fixture's motion over a step: its transform at the
// start of the step, its linear displacement, and its angular
// displacement, plus the shape's bounding radius (used to bound the
// rotational contribution to surface velocity).
type Sweep struct {
	Shape         geom.Shape
	Start         geom.Transform
	Displacement  geom.Vector2
	AngularDelta  float64
}

// boundingRadius returns the sweep's shape's bounding radius, the r in
// the rotational surface-velocity bound |ω|·r.
func (s Sweep) boundingRadius() float64 {
	return s.Shape.BoundingRadius()
}

// at interpolates the sweep's transform to fraction frac ∈ [0,1].
func (s Sweep) at(frac float64) geom.Fixture {
	return geom.Fixture{Shape: s.Shape, Transform: geom.Lerp(s.Start, s.Displacement, s.AngularDelta, frac)}
}

// TimeOfImpact runs conservative advancement between sweeps a and b
// over a unit step. It returns the time of impact t ∈ [0,1] and true if
// the shapes make contact during the step; otherwise it returns false
// (no impact this step) rather than risk a false positive, per §4.6's
// precondition that exhausted iterations report no impact.
func TimeOfImpact(a, b Sweep, settings Settings) (float64, bool) {
	if settings.MaxIterations < MinIterations {
		settings.MaxIterations = MinIterations
	}

	t := 0.0
	gjkSettings := gjk.DefaultSettings()

	for i := 0; i < settings.MaxIterations; i++ {
		fa := a.at(t)
		fb := b.at(t)

		sep := gjk.Distance(fa, fb, gjkSettings)
		if sep.Distance <= settings.DistanceEpsilon {
			return t, true
		}

		vBound := surfaceClosingBound(a, b, sep.Normal)
		if vBound <= 0 {
			return 0, false
		}

		t += sep.Distance / vBound
		if t > 1 {
			return 0, false
		}
	}

	return 0, false
}

// surfaceClosingBound computes an upper bound on how fast the gap
// between a and b's surfaces can close along separation normal n
// (pointing from A to B), combining each body's linear velocity over
// the step with a rotational term bounded by |ω|·r (§4.6 step 4).
func surfaceClosingBound(a, b Sweep, n geom.Vector2) float64 {
	linear := b.Displacement.Sub(a.Displacement).Dot(n.Mul(-1))
	angular := math.Abs(a.AngularDelta)*a.boundingRadius() + math.Abs(b.AngularDelta)*b.boundingRadius()
	return linear + angular
}
