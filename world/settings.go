package world

import (
	"fmt"

	"github.com/akmonengine/plume/ccd"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
)

// ConfigError reports a programmer error in Settings: a misconfigured
// field caught at construction rather than left to surface as NaN
// positions or a panic three calls deep in the solver (§7, class 1).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("world: invalid setting %s: %s", e.Field, e.Reason)
}

// Settings carries every tunable the step pipeline needs: timing,
// solver iteration counts, tolerances, sleep thresholds, and the
// per-algorithm narrowphase/CCD budgets (§6.1).
type Settings struct {
	// StepFrequency is the number of steps per second the world is
	// authored to run at: Step divides its dt into sub-steps of
	// 1/StepFrequency seconds each.
	StepFrequency float64

	Gravity geom.Vector2

	MaxTranslation float64
	MaxRotation    float64

	VelocityIterations int
	PositionIterations int

	LinearTolerance  float64
	AngularTolerance float64

	SleepLinearThreshold  float64
	SleepAngularThreshold float64
	MaxAtRestTime         float64

	RestitutionVelocityThreshold float64

	Baumgarte float64

	GJK gjk.Settings
	EPA gjk.Settings
	CCD ccd.Settings
}

// DefaultSettings returns the tunables spec.md names as sane defaults,
// every algorithm's epsilon/iteration budget included.
func DefaultSettings() Settings {
	return Settings{
		StepFrequency: 60,

		Gravity: geom.Vector2{0, -9.8},

		MaxTranslation: 2.0,
		MaxRotation:    0.5 * 3.14159265358979,

		VelocityIterations: 10,
		PositionIterations: 3,

		LinearTolerance:  0.005,
		AngularTolerance: 2.0 / 180.0 * 3.14159265358979,

		SleepLinearThreshold:  0.05,
		SleepAngularThreshold: 0.05,
		MaxAtRestTime:         0.5,

		RestitutionVelocityThreshold: 0.5,

		Baumgarte: 0.2,

		GJK: gjk.DefaultSettings(),
		EPA: gjk.DefaultSettings(),
		CCD: ccd.DefaultSettings(),
	}
}

// Validate reports the first ConfigError found among Settings' fields,
// or nil if every field is within range. GJK's iteration budget has no
// floor beyond positivity; EPA and CCD both require at least
// ccd.MinIterations (§6.1) since both walk a polytope/conservative
// advance that can't converge usefully in fewer steps.
func (s Settings) Validate() error {
	if s.StepFrequency <= 0 {
		return &ConfigError{"StepFrequency", "must be positive"}
	}
	if s.MaxTranslation <= 0 {
		return &ConfigError{"MaxTranslation", "must be positive"}
	}
	if s.MaxRotation <= 0 {
		return &ConfigError{"MaxRotation", "must be positive"}
	}
	if s.VelocityIterations <= 0 {
		return &ConfigError{"VelocityIterations", "must be positive"}
	}
	if s.PositionIterations <= 0 {
		return &ConfigError{"PositionIterations", "must be positive"}
	}
	if s.LinearTolerance <= 0 {
		return &ConfigError{"LinearTolerance", "must be positive"}
	}
	if s.AngularTolerance <= 0 {
		return &ConfigError{"AngularTolerance", "must be positive"}
	}
	if s.SleepLinearThreshold <= 0 {
		return &ConfigError{"SleepLinearThreshold", "must be positive"}
	}
	if s.SleepAngularThreshold <= 0 {
		return &ConfigError{"SleepAngularThreshold", "must be positive"}
	}
	if s.MaxAtRestTime <= 0 {
		return &ConfigError{"MaxAtRestTime", "must be positive"}
	}
	if s.RestitutionVelocityThreshold <= 0 {
		return &ConfigError{"RestitutionVelocityThreshold", "must be positive"}
	}
	if s.Baumgarte <= 0 {
		return &ConfigError{"Baumgarte", "must be positive"}
	}

	if s.GJK.MaxIterations <= 0 {
		return &ConfigError{"GJK.MaxIterations", "must be positive"}
	}
	if s.GJK.DistanceEpsilon <= 0 {
		return &ConfigError{"GJK.DistanceEpsilon", "must be positive"}
	}
	if s.EPA.MaxIterations < ccd.MinIterations {
		return &ConfigError{"EPA.MaxIterations", fmt.Sprintf("must be at least %d", ccd.MinIterations)}
	}
	if s.EPA.DistanceEpsilon <= 0 {
		return &ConfigError{"EPA.DistanceEpsilon", "must be positive"}
	}
	if s.CCD.MaxIterations < ccd.MinIterations {
		return &ConfigError{"CCD.MaxIterations", fmt.Sprintf("must be at least %d", ccd.MinIterations)}
	}
	if s.CCD.DistanceEpsilon <= 0 {
		return &ConfigError{"CCD.DistanceEpsilon", "must be positive"}
	}

	return nil
}
