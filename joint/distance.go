package joint

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
)

// Distance pins the separation between two anchor points, one on each
// body, to a fixed rest length. It is the simplest worked joint: a
// single scalar constraint with a 1-D Jacobian.
type Distance struct {
	BodyA, BodyB *actor.RigidBody
	LocalAnchorA geom.Vector2
	LocalAnchorB geom.Vector2
	Length       float64

	// AllowCollision is this joint's contribution to §4.8's
	// joint-collision-allowed rule.
	AllowCollision bool

	impulse float64

	rA, rB geom.Vector2
	axis   geom.Vector2
	mass   float64
	bias   float64
}

var _ Joint = (*Distance)(nil)

// NewDistance builds a distance joint whose rest length is the current
// separation between the two world anchor points.
func NewDistance(a, b *actor.RigidBody, anchorA, anchorB geom.Vector2) *Distance {
	worldA := a.Transform.ToWorld(anchorA)
	worldB := b.Transform.ToWorld(anchorB)
	return &Distance{
		BodyA:        a,
		BodyB:        b,
		LocalAnchorA: anchorA,
		LocalAnchorB: anchorB,
		Length:       worldB.Sub(worldA).Len(),
	}
}

func (d *Distance) worldAnchors() (geom.Vector2, geom.Vector2) {
	return d.BodyA.Transform.Rotate(d.LocalAnchorA), d.BodyB.Transform.Rotate(d.LocalAnchorB)
}

func (d *Distance) InitializeConstraints(step Step, settings Settings) {
	d.rA, d.rB = d.worldAnchors()
	pA := d.BodyA.Transform.Position.Add(d.rA)
	pB := d.BodyB.Transform.Position.Add(d.rB)
	delta := pB.Sub(pA)

	length := delta.Len()
	if length < 1e-9 {
		d.axis = geom.Vector2{1, 0}
	} else {
		d.axis = delta.Mul(1 / length)
	}

	crA := geom.Cross(d.rA, d.axis)
	crB := geom.Cross(d.rB, d.axis)
	invMassA, invMassB := d.BodyA.InverseMass(), d.BodyB.InverseMass()
	k := invMassA + invMassB + d.BodyA.InverseInertiaWorld()*crA*crA + d.BodyB.InverseInertiaWorld()*crB*crB
	if k > 1e-9 {
		d.mass = 1 / k
	}

	c := length - d.Length
	d.bias = settings.Baumgarte * step.InvDt * c

	impulse := d.axis.Mul(d.impulse)
	applyJointImpulse(d.BodyA, d.BodyB, d.rA, d.rB, impulse)
}

func (d *Distance) SolveVelocityConstraints(step Step, settings Settings) {
	if d.mass == 0 {
		return
	}

	vA := d.BodyA.Velocity.Add(geom.CrossSV(d.BodyA.AngularVelocity, d.rA))
	vB := d.BodyB.Velocity.Add(geom.CrossSV(d.BodyB.AngularVelocity, d.rB))
	closingRate := d.axis.Dot(vB.Sub(vA))

	lambda := -d.mass * (closingRate + d.bias)
	d.impulse += lambda

	applyJointImpulse(d.BodyA, d.BodyB, d.rA, d.rB, d.axis.Mul(lambda))
}

func (d *Distance) SolvePositionConstraints(step Step, settings Settings) bool {
	rA, rB := d.worldAnchors()
	pA := d.BodyA.Transform.Position.Add(rA)
	pB := d.BodyB.Transform.Position.Add(rB)
	delta := pB.Sub(pA)
	length := delta.Len()

	var axis geom.Vector2
	if length < 1e-9 {
		axis = geom.Vector2{1, 0}
	} else {
		axis = delta.Mul(1 / length)
	}

	c := length - d.Length
	if math.Abs(c) < settings.LinearSlop {
		return true
	}

	crA := geom.Cross(rA, axis)
	crB := geom.Cross(rB, axis)
	invMassA, invMassB := d.BodyA.InverseMass(), d.BodyB.InverseMass()
	k := invMassA + invMassB + d.BodyA.InverseInertiaWorld()*crA*crA + d.BodyB.InverseInertiaWorld()*crB*crB
	if k < 1e-9 {
		return true
	}

	lambda := -c / k
	push := axis.Mul(lambda)

	if d.BodyA.BodyType == actor.BodyTypeDynamic {
		d.BodyA.Transform.Position = d.BodyA.Transform.Position.Sub(push.Mul(invMassA))
		d.BodyA.Transform.SetAngle(d.BodyA.Transform.Angle - d.BodyA.InverseInertiaWorld()*geom.Cross(rA, push))
	}
	if d.BodyB.BodyType == actor.BodyTypeDynamic {
		d.BodyB.Transform.Position = d.BodyB.Transform.Position.Add(push.Mul(invMassB))
		d.BodyB.Transform.SetAngle(d.BodyB.Transform.Angle + d.BodyB.InverseInertiaWorld()*geom.Cross(rB, push))
	}

	return false
}

func (d *Distance) ReactionForce(invDt float64) (float64, float64) {
	f := d.axis.Mul(d.impulse * invDt)
	return f.X(), f.Y()
}

func (d *Distance) ReactionTorque(invDt float64) float64 { return 0 }

func (d *Distance) Shift(dx, dy float64) {}

func (d *Distance) CollisionAllowed() bool { return d.AllowCollision }

func (d *Distance) Bodies() []*actor.RigidBody { return []*actor.RigidBody{d.BodyA, d.BodyB} }

// applyJointImpulse applies impulse at anchors rA/rB to both bodies,
// the same A-negative/B-positive convention contacts use.
func applyJointImpulse(a, b *actor.RigidBody, rA, rB geom.Vector2, impulse geom.Vector2) {
	a.Velocity = a.Velocity.Sub(impulse.Mul(a.InverseMass()))
	a.AngularVelocity -= a.InverseInertiaWorld() * geom.Cross(rA, impulse)

	b.Velocity = b.Velocity.Add(impulse.Mul(b.InverseMass()))
	b.AngularVelocity += b.InverseInertiaWorld() * geom.Cross(rB, impulse)
}
