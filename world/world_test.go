package world

import (
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/event"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/joint"
)

func groundAndBox(startY float64) (*actor.RigidBody, *actor.RigidBody) {
	box := geom.NewBox(1, 1)
	ground := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{0, -1}, 0), box, actor.BodyTypeStatic, 1)
	falling := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{0, startY}, 0), box, actor.BodyTypeDynamic, 1)
	return ground, falling
}

func TestNew_PanicsOnInvalidSettings(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected New to panic on an invalid Settings value")
		}
	}()
	New(Settings{})
}

func TestValidate_RejectsNonPositiveFields(t *testing.T) {
	s := DefaultSettings()
	s.StepFrequency = 0
	if err := s.Validate(); err == nil {
		t.Fatal("expected ConfigError for StepFrequency <= 0")
	}

	s = DefaultSettings()
	s.EPA.MaxIterations = 1
	if err := s.Validate(); err == nil {
		t.Fatal("expected ConfigError for EPA.MaxIterations below the CCD floor")
	}

	s = DefaultSettings()
	s.GJK.MaxIterations = 1
	if err := s.Validate(); err != nil {
		t.Fatalf("GJK.MaxIterations has no floor beyond positivity, got %v", err)
	}
}

func TestAddBody_PanicsOnDuplicate(t *testing.T) {
	w := New(DefaultSettings())
	ground, _ := groundAndBox(2)
	w.AddBody(ground)

	defer func() {
		if recover() == nil {
			t.Fatal("expected AddBody to panic on a body already added")
		}
	}()
	w.AddBody(ground)
}

func TestRemoveBody_DropsFromWorldAndGraph(t *testing.T) {
	w := New(DefaultSettings())
	ground, falling := groundAndBox(2)
	w.AddBody(ground)
	w.AddBody(falling)

	w.RemoveBody(ground)
	if len(w.Bodies) != 1 || w.Bodies[0] != falling {
		t.Fatalf("expected only falling left in w.Bodies, got %v", w.Bodies)
	}
}

func TestRemoveBody_NotifiesDestructionListener(t *testing.T) {
	w := New(DefaultSettings())
	ground, _ := groundAndBox(2)
	w.AddBody(ground)

	var destroyed *actor.RigidBody
	w.Destruction = destructionFunc{bodyDestroyed: func(b *actor.RigidBody) { destroyed = b }}

	w.RemoveBody(ground)
	if destroyed != ground {
		t.Fatal("expected DestructionListener.BodyDestroyed to fire with the removed body")
	}
}

// destructionFunc adapts a couple of closures to event.DestructionListener
// without needing a full struct per test.
type destructionFunc struct {
	bodyDestroyed    func(*actor.RigidBody)
	jointDestroyed   func([]*actor.RigidBody)
	contactDestroyed func(*actor.Fixture, *actor.Fixture)
}

func (d destructionFunc) BodyDestroyed(b *actor.RigidBody) {
	if d.bodyDestroyed != nil {
		d.bodyDestroyed(b)
	}
}
func (d destructionFunc) JointDestroyed(bodies []*actor.RigidBody) {
	if d.jointDestroyed != nil {
		d.jointDestroyed(bodies)
	}
}
func (d destructionFunc) ContactDestroyed(a, b *actor.Fixture) {
	if d.contactDestroyed != nil {
		d.contactDestroyed(a, b)
	}
}

func TestStep_RestsBoxOnGroundWithoutPenetrating(t *testing.T) {
	w := New(DefaultSettings())
	ground, falling := groundAndBox(1.1) // resting with a tiny gap
	w.AddBody(ground)
	w.AddBody(falling)

	dt := 1.0 / 60.0
	for i := 0; i < 120; i++ {
		w.Step(dt, 4)
	}

	// The box should have settled on the ground (top of ground at y=0,
	// bottom of falling box at y-1) with at most a slop-scale penetration.
	separation := falling.Transform.Position.Y() - 1 - (ground.Transform.Position.Y() + 1)
	if separation < -0.05 {
		t.Errorf("expected the falling box to rest near the ground, got separation %v", separation)
	}
}

func TestStep_CapsSubstepsAtMaxSteps(t *testing.T) {
	w := New(DefaultSettings())
	ran := w.Step(10.0, 3)
	if ran != 3 {
		t.Errorf("expected Step to cap at maxSteps=3, ran %d", ran)
	}
}

func TestStep_DispatchesStepListenerInOrder(t *testing.T) {
	w := New(DefaultSettings())
	var calls []string
	w.StepListener = recordingStepListener{calls: &calls}

	w.Step(1.0/60.0, 1)

	want := []string{"begin", "updatePerformed", "postSolve", "end"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}

type recordingStepListener struct {
	calls *[]string
}

func (r recordingStepListener) Begin(dt float64)           { *r.calls = append(*r.calls, "begin") }
func (r recordingStepListener) UpdatePerformed(dt float64) { *r.calls = append(*r.calls, "updatePerformed") }
func (r recordingStepListener) PostSolve(dt float64)       { *r.calls = append(*r.calls, "postSolve") }
func (r recordingStepListener) End(dt float64)             { *r.calls = append(*r.calls, "end") }

func TestStep_EmitsCollisionEnterThenStayThenExit(t *testing.T) {
	w := New(DefaultSettings())
	ground, falling := groundAndBox(0.99) // already overlapping
	w.AddBody(ground)
	w.AddBody(falling)

	var seen []event.Type
	record := func(kind event.Type) event.Listener {
		return func(e event.Event) { seen = append(seen, kind) }
	}
	w.Events.Subscribe(event.CollisionEnter, record(event.CollisionEnter))
	w.Events.Subscribe(event.CollisionStay, record(event.CollisionStay))
	w.Events.Subscribe(event.CollisionExit, record(event.CollisionExit))

	dt := 1.0 / 60.0
	w.Step(dt, 1) // bodies overlap: enter
	w.Step(dt, 1) // still overlapping: stay

	// Integration (not a direct position write) is what refreshes the
	// cached fixture AABBs the broadphase reads, so separation has to
	// happen through a large velocity rather than by poking Transform.
	falling.Velocity = geom.Vector2{0, 500}
	w.Step(dt, 1) // broadphase runs before integration: still stay
	w.Step(dt, 1) // moved far away: exit

	if len(seen) < 3 {
		t.Fatalf("expected at least enter, stay, exit events, got %v", seen)
	}
	if seen[0] != event.CollisionEnter {
		t.Errorf("expected first event to be CollisionEnter, got %v", seen[0])
	}
	last := seen[len(seen)-1]
	if last != event.CollisionExit {
		t.Errorf("expected last event to be CollisionExit, got %v", last)
	}
}

func TestAddJoint_PanicsOnUnregisteredBody(t *testing.T) {
	w := New(DefaultSettings())
	ground, falling := groundAndBox(2)
	w.AddBody(ground)

	defer func() {
		if recover() == nil {
			t.Fatal("expected AddJoint to panic on a joint referencing a body not in the world")
		}
	}()
	w.AddJoint(joint.NewDistance(ground, falling, geom.Vector2{}, geom.Vector2{}))
}

func TestCheckBounds_ReportsBodyOutsideBoundary(t *testing.T) {
	w := New(DefaultSettings())
	w.Boundary = &geom.AABB{Min: geom.Vector2{-10, -10}, Max: geom.Vector2{10, 10}}

	var reported *actor.RigidBody
	w.Bounds = boundsFunc(func(b *actor.RigidBody) { reported = b })

	box := geom.NewBox(0.5, 0.5)
	far := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{100, 100}, 0), box, actor.BodyTypeDynamic, 1)
	w.AddBody(far)

	w.checkBounds()
	if reported != far {
		t.Fatal("expected the out-of-bounds body to be reported")
	}
}

type boundsFunc func(*actor.RigidBody)

func (f boundsFunc) OutOfBounds(b *actor.RigidBody) { f(b) }

func TestRaycast_HitsNearestFirst(t *testing.T) {
	w := New(DefaultSettings())
	circle := &geom.Circle{Radius: 0.5}
	near := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{3, 0}, 0), circle, actor.BodyTypeStatic, 1)
	far := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{6, 0}, 0), circle, actor.BodyTypeStatic, 1)
	w.AddBody(far)
	w.AddBody(near)

	hits := w.Raycast(geom.Vector2{0, 0}, geom.Vector2{1, 0}, 20, DefaultSettings().GJK)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Body != near || hits[1].Body != far {
		t.Fatal("expected hits sorted nearest-first")
	}
}
