package joint

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
)

// Revolute pins a single world point shared by both bodies, allowing
// free relative rotation about it (a hinge). Unlike Distance's 1-D
// constraint, the point-to-point constraint is 2-D: its effective mass
// is a 2x2 matrix, solved here directly rather than through
// geom.MatrixXxY helpers since it is the only joint that needs one.
type Revolute struct {
	BodyA, BodyB *actor.RigidBody
	LocalAnchorA geom.Vector2
	LocalAnchorB geom.Vector2

	AllowCollision bool

	impulse geom.Vector2

	rA, rB geom.Vector2
	k11, k12, k22 float64
}

var _ Joint = (*Revolute)(nil)

// NewRevolute builds a hinge joint at the given world-space pivot.
func NewRevolute(a, b *actor.RigidBody, pivot geom.Vector2) *Revolute {
	return &Revolute{
		BodyA:        a,
		BodyB:        b,
		LocalAnchorA: a.Transform.ToLocal(pivot),
		LocalAnchorB: b.Transform.ToLocal(pivot),
	}
}

func (r *Revolute) InitializeConstraints(step Step, settings Settings) {
	r.rA = r.BodyA.Transform.Rotate(r.LocalAnchorA)
	r.rB = r.BodyB.Transform.Rotate(r.LocalAnchorB)

	invMassA, invMassB := r.BodyA.InverseMass(), r.BodyB.InverseMass()
	invIA, invIB := r.BodyA.InverseInertiaWorld(), r.BodyB.InverseInertiaWorld()

	r.k11 = invMassA + invMassB + invIA*r.rA.Y()*r.rA.Y() + invIB*r.rB.Y()*r.rB.Y()
	r.k12 = -invIA*r.rA.X()*r.rA.Y() - invIB*r.rB.X()*r.rB.Y()
	r.k22 = invMassA + invMassB + invIA*r.rA.X()*r.rA.X() + invIB*r.rB.X()*r.rB.X()

	applyJointImpulse(r.BodyA, r.BodyB, r.rA, r.rB, r.impulse)
}

func (r *Revolute) SolveVelocityConstraints(step Step, settings Settings) {
	vA := r.BodyA.Velocity.Add(geom.CrossSV(r.BodyA.AngularVelocity, r.rA))
	vB := r.BodyB.Velocity.Add(geom.CrossSV(r.BodyB.AngularVelocity, r.rB))
	cDot := vB.Sub(vA)

	lambda, ok := solve2x2(r.k11, r.k12, r.k22, -cDot.X(), -cDot.Y())
	if !ok {
		return
	}
	r.impulse = r.impulse.Add(lambda)

	applyJointImpulse(r.BodyA, r.BodyB, r.rA, r.rB, lambda)
}

func (r *Revolute) SolvePositionConstraints(step Step, settings Settings) bool {
	rA := r.BodyA.Transform.Rotate(r.LocalAnchorA)
	rB := r.BodyB.Transform.Rotate(r.LocalAnchorB)

	pA := r.BodyA.Transform.Position.Add(rA)
	pB := r.BodyB.Transform.Position.Add(rB)
	c := pB.Sub(pA)

	if c.Len() < settings.LinearSlop {
		return true
	}

	invMassA, invMassB := r.BodyA.InverseMass(), r.BodyB.InverseMass()
	invIA, invIB := r.BodyA.InverseInertiaWorld(), r.BodyB.InverseInertiaWorld()

	k11 := invMassA + invMassB + invIA*rA.Y()*rA.Y() + invIB*rB.Y()*rB.Y()
	k12 := -invIA*rA.X()*rA.Y() - invIB*rB.X()*rB.Y()
	k22 := invMassA + invMassB + invIA*rA.X()*rA.X() + invIB*rB.X()*rB.X()

	push, ok := solve2x2(k11, k12, k22, -c.X(), -c.Y())
	if !ok {
		return true
	}

	if r.BodyA.BodyType == actor.BodyTypeDynamic {
		r.BodyA.Transform.Position = r.BodyA.Transform.Position.Sub(push.Mul(invMassA))
		r.BodyA.Transform.SetAngle(r.BodyA.Transform.Angle - invIA*geom.Cross(rA, push))
	}
	if r.BodyB.BodyType == actor.BodyTypeDynamic {
		r.BodyB.Transform.Position = r.BodyB.Transform.Position.Add(push.Mul(invMassB))
		r.BodyB.Transform.SetAngle(r.BodyB.Transform.Angle + invIB*geom.Cross(rB, push))
	}

	return false
}

func (r *Revolute) ReactionForce(invDt float64) (float64, float64) {
	return r.impulse.X() * invDt, r.impulse.Y() * invDt
}

func (r *Revolute) ReactionTorque(invDt float64) float64 { return 0 }

func (r *Revolute) Shift(dx, dy float64) {}

func (r *Revolute) CollisionAllowed() bool { return r.AllowCollision }

func (r *Revolute) Bodies() []*actor.RigidBody { return []*actor.RigidBody{r.BodyA, r.BodyB} }

// solve2x2 solves the symmetric system [[k11,k12],[k12,k22]]·x = b for x,
// reporting false if the matrix is singular (both bodies hinged at the
// same point with no mass between them).
func solve2x2(k11, k12, k22, bx, by float64) (geom.Vector2, bool) {
	det := k11*k22 - k12*k12
	if det < 1e-12 {
		return geom.Vector2{}, false
	}
	invDet := 1 / det
	return geom.Vector2{
		invDet * (k22*bx - k12*by),
		invDet * (k11*by - k12*bx),
	}, true
}
