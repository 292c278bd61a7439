package actor

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/akmonengine/plume/geom"
)

// BodyType represents the type of rigid body.
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and
	// collisions. They have finite mass and can move freely.
	BodyTypeDynamic BodyType = iota

	// BodyTypeKinematic bodies have infinite mass; the solver never
	// applies forces or impulses to them. The step integrates only
	// dynamic bodies, so a Velocity set on a kinematic body does not move
	// it.
	BodyTypeKinematic

	// BodyTypeStatic bodies are immovable and have infinite mass. They
	// are not affected by forces, gravity, or impulses (ground, walls).
	BodyTypeStatic
)

// Material carries the per-body physical properties the mixing rules
// (§3 "Contact constraint") combine pairwise into μ and e.
type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // 0.0-1.0, typical 0.01
	AngularDamping  float64 // 0.0-1.0, typical 0.05

	// RestitutionThreshold overrides the world's default closing-speed
	// threshold below which this material never bounces (§4.9's
	// restitution-velocity-threshold mixing rule). Zero means "no
	// per-material override" — the world default applies.
	RestitutionThreshold float64
}

func (m Material) GetMass() float64 {
	return m.mass
}

// Fixture attaches a shape to a body with its own material and sensor
// flag; a body may carry several (a compound shape).
type Fixture struct {
	Shape     geom.Shape
	Material  Material
	IsTrigger bool

	aabb geom.AABB
}

func (f *Fixture) AABB() geom.AABB { return f.aabb }

// RigidBody is a 2D rigid body: mass properties, current and previous
// transform, linear/angular motion state, accumulated forces, a sleep
// state, a bullet (CCD) flag, and its fixtures (§3 "Body").
type RigidBody struct {
	Id uint64

	// Mutex is available to callers that share a body across goroutines;
	// AddForce, AddTorque and the world step do not lock it.
	Mutex sync.Mutex

	PreviousTransform geom.Transform
	Transform         geom.Transform

	PresolveVelocity geom.Vector2
	Velocity         geom.Vector2 // linear velocity (m/s)

	PresolveAngularVelocity float64
	AngularVelocity         float64 // rad/s

	InertiaLocal        float64 // scalar Izz in 2D
	InverseInertiaLocal float64

	accumulatedForce  geom.Vector2
	accumulatedTorque float64

	IsSleeping bool
	SleepTimer float64

	// Bullet enables conservative-advancement CCD (§4.6, §4.10) for this
	// body: the world's TOI resolution loop only considers bullet bodies
	// and the pairs they broadphase-overlap.
	Bullet bool

	Material Material
	BodyType BodyType

	Fixtures []*Fixture
}

var nextBodyId uint64

// NextBodyId hands out process-unique body identifiers so manifold point
// IDs and event payloads can reference bodies stably without holding
// pointers across steps.
func NextBodyId() uint64 {
	return atomic.AddUint64(&nextBodyId, 1)
}

// NewRigidBody creates a rigid body with a single fixture. density is
// used to compute mass for dynamic bodies (ignored for static/kinematic,
// which carry infinite mass and zero inverse mass).
func NewRigidBody(transform geom.Transform, shape geom.Shape, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Id:                NextBodyId(),
		PreviousTransform: transform,
		Transform:         transform,
		BodyType:          bodyType,
	}

	if bodyType == BodyTypeStatic || bodyType == BodyTypeKinematic {
		rb.Material = Material{mass: math.Inf(1)}
		rb.InertiaLocal = math.Inf(1)
		rb.InverseInertiaLocal = 0
	} else {
		mass := shape.Mass(density)
		rb.Material = Material{Density: density, mass: mass}
		rb.InertiaLocal = shape.Inertia(mass)
		if rb.InertiaLocal > 1e-12 {
			rb.InverseInertiaLocal = 1 / rb.InertiaLocal
		}
	}

	rb.Fixtures = []*Fixture{{Shape: shape, Material: rb.Material}}
	rb.refreshAABBs()

	return rb
}

// InverseMass returns 0 for static/kinematic bodies (infinite mass).
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType != BodyTypeDynamic || rb.Material.mass < 1e-12 {
		return 0
	}
	return 1 / rb.Material.mass
}

func (rb *RigidBody) refreshAABBs() {
	for _, f := range rb.Fixtures {
		f.aabb = f.Shape.AABB(rb.Transform)
	}
}

// WorldAABB returns the union of every fixture's current AABB.
func (rb *RigidBody) WorldAABB() geom.AABB {
	box := rb.Fixtures[0].aabb
	for _, f := range rb.Fixtures[1:] {
		box = box.Union(f.aabb)
	}
	return box
}

// IsTrigger reports whether any of the body's fixtures is a sensor. A
// pair where either body answers true reports overlap events instead of
// taking part in the solver (§4.7).
func (rb *RigidBody) IsTrigger() bool {
	for _, f := range rb.Fixtures {
		if f.IsTrigger {
			return true
		}
	}
	return false
}

func (rb *RigidBody) TrySleep(dt, timeThreshold, velocityThreshold float64) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	if rb.Velocity.Len() < velocityThreshold && math.Abs(rb.AngularVelocity) < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0
	rb.ClearForces()
	rb.Velocity = geom.Vector2{}
	rb.AngularVelocity = 0
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0
}

// Integrate advances velocity then position by dt under the given
// gravitational acceleration in one call: semi-implicit Euler, linear
// and angular damping applied multiplicatively, angle integrated
// directly since 2D rotation has no quaternion drift to renormalize
// away. It is IntegrateVelocity immediately followed by
// IntegratePosition, kept for callers (and existing tests) that don't
// need a constraint solve in between; the solver package calls the two
// halves separately (§4.9 steps 1 and 4).
func (rb *RigidBody) Integrate(dt float64, gravity geom.Vector2) {
	rb.IntegrateVelocity(dt, gravity)
	rb.IntegratePosition(dt)
}

// IntegrateVelocity applies gravity, accumulated force/torque, and
// damping to velocity and angular velocity, recording the result as
// PresolveVelocity/PresolveAngularVelocity for the contact solver's
// restitution comparison (§4.9 step 1).
func (rb *RigidBody) IntegrateVelocity(dt float64, gravity geom.Vector2) {
	if rb.BodyType != BodyTypeDynamic || rb.IsSleeping {
		return
	}

	invMass := rb.InverseMass()
	rb.Velocity = rb.Velocity.Add(gravity.Mul(dt))
	rb.Velocity = rb.Velocity.Add(rb.accumulatedForce.Mul(invMass * dt))
	rb.Velocity = rb.Velocity.Mul(1 / (1 + dt*rb.Material.LinearDamping))

	invInertia := rb.InverseInertiaWorld()
	rb.AngularVelocity += rb.accumulatedTorque * invInertia * dt
	rb.AngularVelocity /= 1 + dt*rb.Material.AngularDamping

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity

	rb.ClearForces()
}

// IntegratePosition advances the transform by the current (solved)
// velocity, snapshotting the pre-step transform into PreviousTransform
// first (§4.9 step 4).
func (rb *RigidBody) IntegratePosition(dt float64) {
	if rb.BodyType != BodyTypeDynamic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform.Position = rb.Transform.Position
	rb.PreviousTransform.Angle = rb.Transform.Angle

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))
	rb.Transform.SetAngle(rb.Transform.Angle + rb.AngularVelocity*dt)

	rb.refreshAABBs()
}

// Update re-derives velocity from the transform delta left behind by
// the solver's position-correction pass, mirroring the teacher's
// predicted-position commit step.
func (rb *RigidBody) Update(dt float64) {
	if rb.BodyType != BodyTypeDynamic || rb.IsSleeping || dt <= 0 {
		return
	}
	rb.Velocity = rb.Transform.Position.Sub(rb.PreviousTransform.Position).Mul(1 / dt)
	rb.AngularVelocity = (rb.Transform.Angle - rb.PreviousTransform.Angle) / dt
}

// AddForce accumulates a linear force (N) applied at the center of mass.
func (rb *RigidBody) AddForce(force geom.Vector2) {
	if rb.BodyType == BodyTypeDynamic {
		rb.Awake()
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque (N·m).
func (rb *RigidBody) AddTorque(torque float64) {
	if rb.BodyType == BodyTypeDynamic {
		rb.Awake()
		rb.accumulatedTorque += torque
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = geom.Vector2{}
	rb.accumulatedTorque = 0
}

// SupportWorld returns the world-space support point of the body's
// first fixture along world-space direction d. Multi-fixture bodies are
// queried fixture-by-fixture by the narrowphase instead.
func (rb *RigidBody) SupportWorld(d geom.Vector2) geom.Vector2 {
	fixture := geom.Fixture{Shape: rb.Fixtures[0].Shape, Transform: rb.Transform}
	return fixture.SupportWorld(d)
}

// InertiaWorld returns the rotational inertia about the body's center.
// In 2D, Izz is rotation-invariant, so this is just InertiaLocal.
func (rb *RigidBody) InertiaWorld() float64 {
	return rb.InertiaLocal
}

// InverseInertiaWorld mirrors InertiaWorld: rotation-invariant in 2D.
func (rb *RigidBody) InverseInertiaWorld() float64 {
	if rb.BodyType != BodyTypeDynamic {
		return 0
	}
	return rb.InverseInertiaLocal
}
