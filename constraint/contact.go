package constraint

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/manifold"
)

const (
	// linearSlop is the allowed penetration the position solver leaves
	// uncorrected, avoiding jitter from chasing exact zero overlap. This
	// is the package default; a constraint built through the world
	// pipeline instead carries world.Settings.LinearTolerance via Tuning.
	linearSlop = 0.005

	// baumgarte is the position-correction bias factor α applied to
	// remaining penetration each position iteration (§4.9 step 5). This
	// is the package default; a constraint built through the world
	// pipeline instead carries world.Settings.Baumgarte via Tuning.
	baumgarte = 0.2

	velocityEpsilon = 1e-9
)

// Tuning bundles the §6 world-level knobs a ContactConstraint applies
// during position correction and restitution gating: the Baumgarte bias
// factor, the linear slop left uncorrected, and the fallback
// restitution-velocity threshold used when neither material overrides
// it (§4.9's pluggable mixing rule). NewContactConstraint defaults to
// DefaultTuning so direct construction — this package's own tests
// included — doesn't need a world.Settings value; ContactConstraint.Tune,
// which Cache.Update calls, overrides it for contacts built through the
// world pipeline.
type Tuning struct {
	Baumgarte            float64
	LinearSlop           float64
	RestitutionThreshold float64

	// AngularTolerance, when positive, caps the per-iteration angular
	// position correction (world.Settings.AngularTolerance); zero
	// leaves angular correction uncapped, matching a ContactConstraint
	// built before this field existed.
	AngularTolerance float64
}

// DefaultTuning returns this package's own constants, matching the
// behavior of a ContactConstraint built before Tuning existed.
// AngularTolerance is left at zero (uncapped) since this package never
// had an angular correction cap of its own.
func DefaultTuning() Tuning {
	return Tuning{Baumgarte: baumgarte, LinearSlop: linearSlop, RestitutionThreshold: DefaultRestitutionThreshold}
}

// SolverContact is one manifold point's solver-owned state: its world
// position, the warm-started normal/tangent impulses, the effective
// masses computed at initialization, and the velocity bias (Baumgarte +
// restitution) it targets (§3 "Contact constraint").
type SolverContact struct {
	ID       uint64
	Point    geom.Vector2
	Depth    float64
	Enabled  bool

	NormalImpulse  float64
	TangentImpulse float64

	normalMass   float64
	tangentMass  float64
	velocityBias float64

	rA, rB geom.Vector2
}

// ContactConstraint is a contact between two bodies' fixtures: the
// manifold it was built from plus the per-point solver state, and the
// mixed friction/restitution/threshold the solver honors (§3).
type ContactConstraint struct {
	BodyA, BodyB *actor.RigidBody
	Normal       geom.Vector2
	Points       []SolverContact

	Friction             float64
	Restitution          float64
	RestitutionThreshold float64

	// Baumgarte and LinearSlop are this constraint's position-correction
	// knobs, defaulted from DefaultTuning and overridable via Tune.
	Baumgarte  float64
	LinearSlop float64

	// AngularTolerance caps the angular correction SolvePosition applies
	// to either body in a single iteration, mirroring SolvePosition's
	// hardcoded 0.2 linear correction cap but for rotation (world.Settings.AngularTolerance).
	// Zero disables the cap (no clamping).
	AngularTolerance float64

	// Sensor contacts generate events but are excluded from §4.9 steps
	// 2-5 (no impulses are ever solved for them).
	Sensor bool
}

// NewContactConstraint builds a contact constraint from a freshly
// generated manifold, mixing friction/restitution/restitution-threshold
// from the two bodies' materials (§4.9's pluggable mixing rules) and
// applying DefaultTuning's position-correction knobs. Call Tune
// afterward to apply a world's configured knobs instead.
func NewContactConstraint(a, b *actor.RigidBody, m manifold.Manifold) *ContactConstraint {
	points := make([]SolverContact, len(m.Points))
	for i, p := range m.Points {
		points[i] = SolverContact{ID: p.ID, Point: p.Position, Depth: p.Depth, Enabled: true}
	}

	tuning := DefaultTuning()
	return &ContactConstraint{
		BodyA:                a,
		BodyB:                b,
		Normal:               m.Normal,
		Points:               points,
		Friction:             MixFriction(a.Material, b.Material),
		Restitution:          MixRestitution(a.Material, b.Material),
		RestitutionThreshold: restitutionThresholdOf(a.Material, b.Material, tuning.RestitutionThreshold),
		Baumgarte:            tuning.Baumgarte,
		LinearSlop:           tuning.LinearSlop,
		AngularTolerance:     tuning.AngularTolerance,
	}
}

// Tune overrides c's position-correction knobs and, unless either
// material set its own RestitutionThreshold, its restitution velocity
// threshold, with the world-level values in t. Cache.Update calls this
// on every constraint it builds so contacts solved through the world
// pipeline honor world.Settings instead of this package's defaults.
func (c *ContactConstraint) Tune(t Tuning) *ContactConstraint {
	c.Baumgarte = t.Baumgarte
	c.LinearSlop = t.LinearSlop
	c.AngularTolerance = t.AngularTolerance
	c.RestitutionThreshold = restitutionThresholdOf(c.BodyA.Material, c.BodyB.Material, t.RestitutionThreshold)
	return c
}

// Initialize computes effective masses and velocity biases for every
// point and warm-starts by applying the carried-over impulses to body
// velocities (§4.9 step 2). Disabled and sensor contacts are skipped.
func (c *ContactConstraint) Initialize(dt float64) {
	if c.Sensor {
		return
	}

	a, b := c.BodyA, c.BodyB
	invMassA, invMassB := a.InverseMass(), b.InverseMass()
	invIA, invIB := a.InverseInertiaWorld(), b.InverseInertiaWorld()
	tangent := geom.RightPerp(c.Normal)

	for i := range c.Points {
		p := &c.Points[i]
		if !p.Enabled {
			continue
		}

		p.rA = p.Point.Sub(a.Transform.Position)
		p.rB = p.Point.Sub(b.Transform.Position)

		rnA := geom.Cross(p.rA, c.Normal)
		rnB := geom.Cross(p.rB, c.Normal)
		kNormal := invMassA + invMassB + invIA*rnA*rnA + invIB*rnB*rnB
		if kNormal > velocityEpsilon {
			p.normalMass = 1 / kNormal
		}

		rtA := geom.Cross(p.rA, tangent)
		rtB := geom.Cross(p.rB, tangent)
		kTangent := invMassA + invMassB + invIA*rtA*rtA + invIB*rtB*rtB
		if kTangent > velocityEpsilon {
			p.tangentMass = 1 / kTangent
		}

		closingVelocity := c.relativeNormalVelocity(*p)
		p.velocityBias = c.Baumgarte / dt * math.Max(p.Depth-c.LinearSlop, 0)
		if -closingVelocity > c.RestitutionThreshold {
			p.velocityBias += -c.Restitution * closingVelocity
		}

		// Warm start: reapply last step's accumulated impulses.
		impulse := c.Normal.Mul(p.NormalImpulse).Add(tangent.Mul(p.TangentImpulse))
		c.applyImpulse(p, impulse)
	}
}

// relativeNormalVelocity returns the closing velocity of B relative to
// A at point p's contact, projected onto the contact normal.
func (c *ContactConstraint) relativeNormalVelocity(p SolverContact) float64 {
	a, b := c.BodyA, c.BodyB
	vA := a.Velocity.Add(geom.CrossSV(a.AngularVelocity, p.rA))
	vB := b.Velocity.Add(geom.CrossSV(b.AngularVelocity, p.rB))
	return vB.Sub(vA).Dot(c.Normal)
}

// SolveVelocity runs one sequential-impulse velocity iteration: friction
// first (clipped to μ·accumulated normal impulse from the *previous*
// iteration, per the standard ordering that solves tangent before
// normal so friction never borrows against an as-yet-unsolved normal
// impulse), then the normal impulse (clamped non-negative, §3's
// no-pull invariant) — §4.9 step 3.
func (c *ContactConstraint) SolveVelocity() {
	if c.Sensor {
		return
	}

	a, b := c.BodyA, c.BodyB
	tangent := geom.RightPerp(c.Normal)

	for i := range c.Points {
		p := &c.Points[i]
		if !p.Enabled || p.tangentMass == 0 {
			continue
		}

		vA := a.Velocity.Add(geom.CrossSV(a.AngularVelocity, p.rA))
		vB := b.Velocity.Add(geom.CrossSV(b.AngularVelocity, p.rB))
		relative := vB.Sub(vA)

		tangentVel := relative.Dot(tangent)
		lambda := -tangentVel * p.tangentMass

		maxFriction := c.Friction * p.NormalImpulse
		newImpulse := clamp(p.TangentImpulse+lambda, -maxFriction, maxFriction)
		lambda = newImpulse - p.TangentImpulse
		p.TangentImpulse = newImpulse

		c.applyImpulse(p, tangent.Mul(lambda))
	}

	for i := range c.Points {
		p := &c.Points[i]
		if !p.Enabled || p.normalMass == 0 {
			continue
		}

		vA := a.Velocity.Add(geom.CrossSV(a.AngularVelocity, p.rA))
		vB := b.Velocity.Add(geom.CrossSV(b.AngularVelocity, p.rB))
		relative := vB.Sub(vA)

		normalVel := relative.Dot(c.Normal)
		lambda := (-normalVel + p.velocityBias) * p.normalMass

		newImpulse := math.Max(p.NormalImpulse+lambda, 0)
		lambda = newImpulse - p.NormalImpulse
		p.NormalImpulse = newImpulse

		c.applyImpulse(p, c.Normal.Mul(lambda))
	}
}

// applyImpulse applies impulse at point p to both bodies (B receives
// +impulse, A receives -impulse, per the normal's A-to-B convention).
func (c *ContactConstraint) applyImpulse(p *SolverContact, impulse geom.Vector2) {
	a, b := c.BodyA, c.BodyB
	invMassA, invMassB := a.InverseMass(), b.InverseMass()
	invIA, invIB := a.InverseInertiaWorld(), b.InverseInertiaWorld()

	a.Velocity = a.Velocity.Sub(impulse.Mul(invMassA))
	a.AngularVelocity -= invIA * geom.Cross(p.rA, impulse)

	b.Velocity = b.Velocity.Add(impulse.Mul(invMassB))
	b.AngularVelocity += invIB * geom.Cross(p.rB, impulse)
}

// SolvePosition runs one position-correction iteration, pushing bodies
// apart by α·(depth−slop) along the normal, and reports whether every
// point has converged (remaining penetration ≤ slop) — §4.9 step 5.
func (c *ContactConstraint) SolvePosition() (converged bool) {
	if c.Sensor {
		return true
	}

	a, b := c.BodyA, c.BodyB
	invMassA, invMassB := a.InverseMass(), b.InverseMass()
	invIA, invIB := a.InverseInertiaWorld(), b.InverseInertiaWorld()

	converged = true
	for i := range c.Points {
		p := &c.Points[i]
		if !p.Enabled {
			continue
		}

		rA := p.Point.Sub(a.Transform.Position)
		rB := p.Point.Sub(b.Transform.Position)

		separation := c.Normal.Dot(rB.Sub(rA)) - p.Depth

		correction := clamp(c.Baumgarte*(-separation-c.LinearSlop), 0, 0.2)
		if correction <= 0 {
			continue
		}
		converged = false

		rnA := geom.Cross(rA, c.Normal)
		rnB := geom.Cross(rB, c.Normal)
		k := invMassA + invMassB + invIA*rnA*rnA + invIB*rnB*rnB
		if k < velocityEpsilon {
			continue
		}
		lambda := correction / k
		push := c.Normal.Mul(lambda)

		dAngleA := clampAngular(invIA*geom.Cross(rA, push), c.AngularTolerance)
		dAngleB := clampAngular(invIB*geom.Cross(rB, push), c.AngularTolerance)

		if a.BodyType == actor.BodyTypeDynamic {
			a.Transform.Position = a.Transform.Position.Sub(push.Mul(invMassA))
			a.Transform.SetAngle(a.Transform.Angle - dAngleA)
		}
		if b.BodyType == actor.BodyTypeDynamic {
			b.Transform.Position = b.Transform.Position.Add(push.Mul(invMassB))
			b.Transform.SetAngle(b.Transform.Angle + dAngleB)
		}
	}
	return converged
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampAngular caps the magnitude of a single position-iteration's
// angular correction at tolerance. A non-positive tolerance leaves
// dAngle uncapped.
func clampAngular(dAngle, tolerance float64) float64 {
	if tolerance <= 0 {
		return dAngle
	}
	if dAngle > tolerance {
		return tolerance
	}
	if dAngle < -tolerance {
		return -tolerance
	}
	return dAngle
}
