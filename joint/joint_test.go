package joint

import (
	"math"
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
)

func twoDynamicBodies(ax, ay, bx, by float64) (*actor.RigidBody, *actor.RigidBody) {
	circle := &geom.Circle{Radius: 0.5}
	a := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{ax, ay}, 0), circle, actor.BodyTypeDynamic, 1)
	b := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{bx, by}, 0), circle, actor.BodyTypeDynamic, 1)
	return a, b
}

func TestDistance_HoldsRestLengthUnderSeparatingVelocity(t *testing.T) {
	a, b := twoDynamicBodies(0, 0, 2, 0)
	d := NewDistance(a, b, geom.Vector2{}, geom.Vector2{})
	if math.Abs(d.Length-2) > 1e-9 {
		t.Fatalf("expected rest length 2, got %v", d.Length)
	}

	b.Velocity = geom.Vector2{5, 0}
	step := Step{Dt: 1.0 / 60, InvDt: 60}
	settings := DefaultSettings()

	for i := 0; i < 20; i++ {
		d.InitializeConstraints(step, settings)
		d.SolveVelocityConstraints(step, settings)
	}

	closing := d.axis.Dot(b.Velocity.Sub(a.Velocity))
	if closing > 1e-3 {
		t.Errorf("expected separating velocity along the constraint axis to be absorbed, got %v", closing)
	}
}

func TestDistance_PositionSolveConverges(t *testing.T) {
	a, b := twoDynamicBodies(0, 0, 2, 0)
	d := NewDistance(a, b, geom.Vector2{}, geom.Vector2{})
	b.Transform = geom.NewTransformAt(geom.Vector2{2.5, 0}, 0)

	settings := DefaultSettings()
	step := Step{Dt: 1.0 / 60, InvDt: 60}

	converged := false
	for i := 0; i < 50 && !converged; i++ {
		converged = d.SolvePositionConstraints(step, settings)
	}

	if !converged {
		t.Fatal("expected distance joint position solve to converge")
	}
	sep := b.Transform.Position.Sub(a.Transform.Position).Len()
	if math.Abs(sep-2) > settings.LinearSlop*2 {
		t.Errorf("expected separation near rest length 2, got %v", sep)
	}
}

func TestRevolute_PivotStaysCoincidentUnderVelocity(t *testing.T) {
	a, b := twoDynamicBodies(0, 0, 1, 0)
	r := NewRevolute(a, b, geom.Vector2{0.5, 0})

	b.Velocity = geom.Vector2{0, 3}
	step := Step{Dt: 1.0 / 60, InvDt: 60}
	settings := DefaultSettings()

	for i := 0; i < 20; i++ {
		r.InitializeConstraints(step, settings)
		r.SolveVelocityConstraints(step, settings)
	}

	vA := a.Velocity.Add(geom.CrossSV(a.AngularVelocity, r.rA))
	vB := b.Velocity.Add(geom.CrossSV(b.AngularVelocity, r.rB))
	relative := vB.Sub(vA)
	if relative.Len() > 1e-3 {
		t.Errorf("expected pivot point velocities to match, got relative %v", relative)
	}
}

func TestRevolute_Bodies_ReturnsBothEnds(t *testing.T) {
	a, b := twoDynamicBodies(0, 0, 1, 0)
	r := NewRevolute(a, b, geom.Vector2{0.5, 0})
	bodies := r.Bodies()
	if len(bodies) != 2 || bodies[0] != a || bodies[1] != b {
		t.Errorf("expected Bodies() to return [a, b], got %v", bodies)
	}
}

// jointCollisionAllowed mirrors §4.8's joint-collision-allowed rule:
// collision between two jointed bodies is allowed if at least one of
// the joints connecting them sets the flag.
func jointCollisionAllowed(joints []Joint) bool {
	for _, j := range joints {
		if j.CollisionAllowed() {
			return true
		}
	}
	return false
}

func TestJointCollisionRule_OneAllowedOneDisallowed_IsAllowed(t *testing.T) {
	a, b := twoDynamicBodies(0, 0, 1, 0)
	allowed := NewDistance(a, b, geom.Vector2{}, geom.Vector2{})
	allowed.AllowCollision = true
	disallowed := NewDistance(a, b, geom.Vector2{}, geom.Vector2{})
	disallowed.AllowCollision = false

	if !jointCollisionAllowed([]Joint{allowed, disallowed}) {
		t.Error("expected collision to be allowed when at least one joint permits it")
	}
}

func TestJointCollisionRule_BothDisallowed_IsDisallowed(t *testing.T) {
	a, b := twoDynamicBodies(0, 0, 1, 0)
	j1 := NewDistance(a, b, geom.Vector2{}, geom.Vector2{})
	j2 := NewDistance(a, b, geom.Vector2{}, geom.Vector2{})

	if jointCollisionAllowed([]Joint{j1, j2}) {
		t.Error("expected collision to stay disallowed when no joint permits it")
	}
}
