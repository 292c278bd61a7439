package event

import (
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
)

func twoBodies() (*actor.RigidBody, *actor.RigidBody) {
	box := geom.NewBox(1, 1)
	a := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{0, 0}, 0), box, actor.BodyTypeDynamic, 1)
	b := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{1, 0}, 0), box, actor.BodyTypeDynamic, 1)
	return a, b
}

func TestBus_FirstRecordedPairEmitsEnter(t *testing.T) {
	a, b := twoBodies()
	bus := NewBus()

	var got []Type
	bus.Subscribe(CollisionEnter, func(e Event) { got = append(got, e.Type()) })

	bus.RecordPair(a, b)
	bus.Flush()

	if len(got) != 1 || got[0] != CollisionEnter {
		t.Errorf("expected a single CollisionEnter event, got %v", got)
	}
}

func TestBus_PersistedPairEmitsStay(t *testing.T) {
	a, b := twoBodies()
	bus := NewBus()

	var enters, stays int
	bus.Subscribe(CollisionEnter, func(e Event) { enters++ })
	bus.Subscribe(CollisionStay, func(e Event) { stays++ })

	bus.RecordPair(a, b)
	bus.Flush()

	bus.RecordPair(a, b)
	bus.Flush()

	if enters != 1 || stays != 1 {
		t.Errorf("expected 1 enter and 1 stay, got enters=%d stays=%d", enters, stays)
	}
}

func TestBus_DroppedPairEmitsExit(t *testing.T) {
	a, b := twoBodies()
	bus := NewBus()

	var exits int
	bus.Subscribe(CollisionExit, func(e Event) { exits++ })

	bus.RecordPair(a, b)
	bus.Flush()

	bus.Flush() // no RecordPair this step: the pair vanished

	if exits != 1 {
		t.Errorf("expected 1 exit event, got %d", exits)
	}
}

func TestBus_TriggerFixtureEmitsTriggerEvents(t *testing.T) {
	a, b := twoBodies()
	a.Fixtures[0].IsTrigger = true
	bus := NewBus()

	var got Type
	var ok bool
	bus.Subscribe(TriggerEnter, func(e Event) { got = e.Type(); ok = true })

	bus.RecordPair(a, b)
	bus.Flush()

	if !ok || got != TriggerEnter {
		t.Error("expected a sensor fixture to produce a TriggerEnter instead of CollisionEnter")
	}
}

func TestBus_BothSleepingPairIsSkipped(t *testing.T) {
	a, b := twoBodies()
	a.Sleep()
	b.Sleep()
	bus := NewBus()

	var count int
	bus.Subscribe(CollisionEnter, func(e Event) { count++ })
	bus.Subscribe(CollisionStay, func(e Event) { count++ })

	bus.RecordPair(a, b)
	bus.Flush()

	if count != 0 {
		t.Errorf("expected no events for a fully-asleep pair, got %d", count)
	}
}

func TestBus_ProcessSleepEvents_EmitsSleepThenWake(t *testing.T) {
	a, _ := twoBodies()
	bus := NewBus()

	var sleeps, wakes int
	bus.Subscribe(OnSleep, func(e Event) { sleeps++ })
	bus.Subscribe(OnWake, func(e Event) { wakes++ })

	bus.ProcessSleepEvents([]*actor.RigidBody{a})
	bus.Flush()

	a.Sleep()
	bus.ProcessSleepEvents([]*actor.RigidBody{a})
	bus.Flush()

	a.Awake()
	bus.ProcessSleepEvents([]*actor.RigidBody{a})
	bus.Flush()

	if sleeps != 1 || wakes != 1 {
		t.Errorf("expected 1 sleep and 1 wake transition, got sleeps=%d wakes=%d", sleeps, wakes)
	}
}

func TestBus_ForgetBody_DropsPairAndSleepTracking(t *testing.T) {
	a, b := twoBodies()
	bus := NewBus()

	bus.RecordPair(a, b)
	bus.Flush()

	bus.ForgetBody(a)

	var exits int
	bus.Subscribe(CollisionExit, func(e Event) { exits++ })
	bus.Flush()

	if exits != 0 {
		t.Error("expected ForgetBody to drop the pair without emitting an exit for it")
	}
}
