// Package event defines the listener registries and buffered-dispatch
// machinery §6 names: collision/trigger enter-stay-exit, sleep/wake, and
// contact-point lifecycle, collected during a step and flushed once the
// solver's mutable work is done.
package event

import (
	"unsafe"

	"github.com/akmonengine/plume/actor"
)

// Type identifies one of the events this package can emit.
type Type uint8

const (
	TriggerEnter Type = iota
	CollisionEnter
	TriggerStay
	CollisionStay
	TriggerExit
	CollisionExit
	OnSleep
	OnWake
)

// Event is implemented by every concrete event payload.
type Event interface {
	Type() Type
}

type TriggerEnterEvent struct{ BodyA, BodyB *actor.RigidBody }
type TriggerStayEvent struct{ BodyA, BodyB *actor.RigidBody }
type TriggerExitEvent struct{ BodyA, BodyB *actor.RigidBody }
type CollisionEnterEvent struct{ BodyA, BodyB *actor.RigidBody }
type CollisionStayEvent struct{ BodyA, BodyB *actor.RigidBody }
type CollisionExitEvent struct{ BodyA, BodyB *actor.RigidBody }
type SleepEvent struct{ Body *actor.RigidBody }
type WakeEvent struct{ Body *actor.RigidBody }

func (e TriggerEnterEvent) Type() Type   { return TriggerEnter }
func (e TriggerStayEvent) Type() Type    { return TriggerStay }
func (e TriggerExitEvent) Type() Type    { return TriggerExit }
func (e CollisionEnterEvent) Type() Type { return CollisionEnter }
func (e CollisionStayEvent) Type() Type  { return CollisionStay }
func (e CollisionExitEvent) Type() Type  { return CollisionExit }
func (e SleepEvent) Type() Type          { return OnSleep }
func (e WakeEvent) Type() Type           { return OnWake }

// Listener receives events of one Type.
type Listener func(Event)

type bodyPairKey struct {
	a, b *actor.RigidBody
}

func newBodyPairKey(a, b *actor.RigidBody) bodyPairKey {
	if uintptr(unsafe.Pointer(b)) < uintptr(unsafe.Pointer(a)) {
		a, b = b, a
	}
	return bodyPairKey{a, b}
}

// Bus is the per-world event buffer and listener registry: pairs are
// tracked across steps to derive Enter/Stay/Exit transitions, and sleep
// transitions are tracked per body.
type Bus struct {
	listeners map[Type][]Listener
	buffer    []Event

	previousActivePairs map[bodyPairKey]bool
	currentActivePairs  map[bodyPairKey]bool

	sleepStates map[*actor.RigidBody]bool
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{
		listeners:           make(map[Type][]Listener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[bodyPairKey]bool),
		currentActivePairs:  make(map[bodyPairKey]bool),
		sleepStates:         make(map[*actor.RigidBody]bool),
	}
}

// Subscribe registers listener for events of the given type.
func (b *Bus) Subscribe(t Type, listener Listener) {
	b.listeners[t] = append(b.listeners[t], listener)
}

// RecordPair marks (a, b) as an active contacting pair for this step's
// Enter/Stay/Exit derivation, called once per active contact pair
// before SolveVelocity/SolvePosition run.
func (b *Bus) RecordPair(a, bb *actor.RigidBody) {
	b.currentActivePairs[newBodyPairKey(a, bb)] = true
}

// ForgetBody drops every trace of body from pair/sleep tracking, called
// when a body is removed from the world.
func (b *Bus) ForgetBody(body *actor.RigidBody) {
	delete(b.sleepStates, body)
	for pair := range b.previousActivePairs {
		if pair.a == body || pair.b == body {
			delete(b.previousActivePairs, pair)
		}
	}
	for pair := range b.currentActivePairs {
		if pair.a == body || pair.b == body {
			delete(b.currentActivePairs, pair)
		}
	}
}

// processCollisionEvents compares this step's active pairs against the
// previous step's to emit Enter/Stay/Exit, then rotates the pair sets.
func (b *Bus) processCollisionEvents() {
	for pair := range b.currentActivePairs {
		if pair.a.IsSleeping && pair.b.IsSleeping {
			continue
		}

		isTrigger := pair.a.IsTrigger() || pair.b.IsTrigger()
		if b.previousActivePairs[pair] {
			if isTrigger {
				b.buffer = append(b.buffer, TriggerStayEvent{pair.a, pair.b})
			} else {
				b.buffer = append(b.buffer, CollisionStayEvent{pair.a, pair.b})
			}
		} else {
			if isTrigger {
				b.buffer = append(b.buffer, TriggerEnterEvent{pair.a, pair.b})
			} else {
				b.buffer = append(b.buffer, CollisionEnterEvent{pair.a, pair.b})
			}
		}
	}

	for pair := range b.previousActivePairs {
		if b.currentActivePairs[pair] {
			continue
		}
		isTrigger := pair.a.IsTrigger() || pair.b.IsTrigger()
		if isTrigger {
			b.buffer = append(b.buffer, TriggerExitEvent{pair.a, pair.b})
		} else {
			b.buffer = append(b.buffer, CollisionExitEvent{pair.a, pair.b})
		}
	}

	b.previousActivePairs, b.currentActivePairs = b.currentActivePairs, b.previousActivePairs
	clear(b.currentActivePairs)
}

// ProcessSleepEvents diffs every body's sleep flag against its last
// tracked state and buffers Sleep/Wake transitions.
func (b *Bus) ProcessSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		tracked, exists := b.sleepStates[body]
		if !exists {
			b.sleepStates[body] = body.IsSleeping
			continue
		}

		if !tracked && body.IsSleeping {
			b.buffer = append(b.buffer, SleepEvent{Body: body})
			b.sleepStates[body] = true
		} else if tracked && !body.IsSleeping {
			b.buffer = append(b.buffer, WakeEvent{Body: body})
			b.sleepStates[body] = false
		}
	}
}

// Flush derives this step's collision transitions, then dispatches
// every buffered event to its subscribers and clears the buffer. Called
// once per world Step, after the solver has released its mutable
// borrows of the world (§5).
func (b *Bus) Flush() {
	b.processCollisionEvents()

	for _, e := range b.buffer {
		for _, listener := range b.listeners[e.Type()] {
			listener(e)
		}
	}
	b.buffer = b.buffer[:0]
}
