package constraint

import (
	"math"

	"github.com/akmonengine/plume/actor"
)

// MixFriction combines two materials' friction coefficients via their
// geometric mean, the default pluggable mixing rule in §4.9.
func MixFriction(a, b actor.Material) float64 {
	return math.Sqrt(mixedFriction(a) * mixedFriction(b))
}

// mixedFriction collapses a material's static/dynamic friction into a
// single coefficient for the geometric-mean mix: the solver itself
// only ever clamps a single μ, so static vs. dynamic is resolved here
// by taking whichever is larger (static friction is never smaller than
// dynamic for any physically sane material).
func mixedFriction(m actor.Material) float64 {
	return math.Max(m.StaticFriction, m.DynamicFriction)
}

// MixRestitution combines two materials' restitution via their
// maximum, the default pluggable mixing rule in §4.9 ("if one bounces,
// it bounces").
func MixRestitution(a, b actor.Material) float64 {
	return math.Max(a.Restitution, b.Restitution)
}

// DefaultRestitutionThreshold is the closing speed below which
// restitution is not applied (resting contacts shouldn't bounce due to
// integration noise).
const DefaultRestitutionThreshold = 0.5

// MixRestitutionThreshold combines two per-material restitution
// velocity thresholds via their minimum, the default pluggable mixing
// rule in §4.9.
func MixRestitutionThreshold(a, b float64) float64 {
	return math.Min(a, b)
}

// restitutionThresholdOf resolves the restitution velocity threshold for
// a contact between materials a and b. A material's RestitutionThreshold
// of zero means "no override"; when both override, they're combined via
// MixRestitutionThreshold, when only one overrides it applies directly,
// and when neither does the world's configured fallback applies.
func restitutionThresholdOf(a, b actor.Material, fallback float64) float64 {
	switch {
	case a.RestitutionThreshold > 0 && b.RestitutionThreshold > 0:
		return MixRestitutionThreshold(a.RestitutionThreshold, b.RestitutionThreshold)
	case a.RestitutionThreshold > 0:
		return a.RestitutionThreshold
	case b.RestitutionThreshold > 0:
		return b.RestitutionThreshold
	default:
		return fallback
	}
}
