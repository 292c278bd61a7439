// Package solver implements the sequential-impulse island solver (§4.9,
// C9): integrate velocities, initialize constraints, run velocity
// iterations, integrate positions, run position iterations, then update
// sleep state — all scoped to one island at a time.
package solver

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/constraint"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/graph"
	"github.com/akmonengine/plume/joint"
)

// Settings carries the solver's iteration counts and sleep thresholds,
// §6's configurable knobs for this stage.
type Settings struct {
	Gravity geom.Vector2

	VelocityIterations int
	PositionIterations int

	SleepLinearThreshold  float64
	SleepAngularThreshold float64
	SleepTime             float64

	// MaxTranslation and MaxRotation cap how far a single step's
	// integrated velocity may move or turn a body (§6's anti-tunneling
	// clamp), applied by scaling velocity down before IntegratePosition
	// runs. Zero or negative disables the corresponding clamp.
	MaxTranslation float64
	MaxRotation    float64
}

// DefaultSettings returns the solver tunables spec.md §4.9 names as
// defaults ("default ~10" velocity iterations, "default ~3" position
// iterations).
func DefaultSettings() Settings {
	return Settings{
		Gravity:               geom.Vector2{0, -9.8},
		VelocityIterations:    10,
		PositionIterations:    3,
		SleepLinearThreshold:  0.05,
		SleepAngularThreshold: 0.05,
		SleepTime:             0.5,
		MaxTranslation:        2.0,
		MaxRotation:           0.5 * math.Pi,
	}
}

// clampMotion scales b's velocity and angular velocity down, if needed,
// so this step's translation/rotation stays within maxTranslation/
// maxRotation — the standard per-step anti-tunneling safety net, applied
// right before the clamped velocity is integrated into position.
func clampMotion(b *actor.RigidBody, dt, maxTranslation, maxRotation float64) {
	if maxTranslation > 0 {
		translation := b.Velocity.Mul(dt)
		if lenSqr := translation.LenSqr(); lenSqr > maxTranslation*maxTranslation {
			ratio := maxTranslation / math.Sqrt(lenSqr)
			b.Velocity = b.Velocity.Mul(ratio)
		}
	}

	if maxRotation > 0 {
		rotation := dt * b.AngularVelocity
		if math.Abs(rotation) > maxRotation {
			ratio := maxRotation / math.Abs(rotation)
			b.AngularVelocity *= ratio
		}
	}
}

// jointStep adapts Settings into the joint package's own Step/Settings
// shape, kept separate so joint implementations don't import solver.
func jointStep(dt float64) joint.Step {
	return joint.Step{Dt: dt, InvDt: invOrZero(dt)}
}

func invOrZero(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 / dt
}

// Solve runs one fixed-Δt step of §4.9's six sub-steps over a single
// island: contacts and joints belonging to bodies outside the island are
// untouched, and a fully asleep island is skipped entirely (§4.8 sleep
// rule) without even integrating velocities.
func Solve(island graph.Island, contacts []*constraint.ContactConstraint, dt float64, settings Settings) {
	if island.Asleep() {
		return
	}

	jStep := jointStep(dt)
	jSettings := joint.DefaultSettings()

	// 1. Integrate velocities.
	for _, b := range island.Bodies {
		b.IntegrateVelocity(dt, settings.Gravity)
	}

	// 2. Initialize constraints (effective masses, velocity bias,
	// warm start).
	for _, j := range island.Joints {
		j.InitializeConstraints(jStep, jSettings)
	}
	for _, c := range contacts {
		c.Initialize(dt)
	}

	// 3. Velocity iterations: joints, then contact friction, then
	// contact normal impulses (contact.SolveVelocity already orders
	// friction before normal internally).
	for i := 0; i < settings.VelocityIterations; i++ {
		for _, j := range island.Joints {
			j.SolveVelocityConstraints(jStep, jSettings)
		}
		for _, c := range contacts {
			c.SolveVelocity()
		}
	}

	// 4. Integrate positions, clamping translation/rotation first.
	for _, b := range island.Bodies {
		clampMotion(b, dt, settings.MaxTranslation, settings.MaxRotation)
		b.IntegratePosition(dt)
	}

	// 5. Position iterations: stop early once every constraint reports
	// converged.
	for i := 0; i < settings.PositionIterations; i++ {
		converged := true
		for _, j := range island.Joints {
			if !j.SolvePositionConstraints(jStep, jSettings) {
				converged = false
			}
		}
		for _, c := range contacts {
			if !c.SolvePosition() {
				converged = false
			}
		}
		if converged {
			break
		}
	}

	// 6. Sleep update.
	for _, b := range island.Bodies {
		b.TrySleep(dt, settings.SleepTime, minThreshold(settings.SleepLinearThreshold, settings.SleepAngularThreshold))
	}
}

// minThreshold folds the linear and angular sleep thresholds into the
// single velocity-magnitude threshold actor.RigidBody.TrySleep compares
// both linear speed and angular speed against. Taking the smaller
// (stricter) of the two means a body still spinning above its angular
// threshold, even with near-zero linear speed, is correctly kept awake.
func minThreshold(linear, angular float64) float64 {
	if angular < linear {
		return angular
	}
	return linear
}
