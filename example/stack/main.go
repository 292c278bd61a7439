// Command stack builds a small stack of falling boxes on a static
// ground body and steps it forward, printing per-step instrumentation
// the way the teacher's own example scene did with raw fmt.Printf
// calls, but routed through world.PrintInstrumentation instead.
package main

import (
	"fmt"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/event"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/world"
)

type loggingContacts struct{}

func (loggingContacts) Begin(a, b *actor.Fixture) {
	fmt.Printf("contact begin: %p <-> %p\n", a, b)
}
func (loggingContacts) Persist(a, b *actor.Fixture) {}
func (loggingContacts) End(a, b *actor.Fixture) {
	fmt.Printf("contact end: %p <-> %p\n", a, b)
}
func (loggingContacts) PreSolve(a, b *actor.Fixture) bool { return true }
func (loggingContacts) PostSolve(a, b *actor.Fixture, normalImpulse, tangentImpulse float64) {}
func (loggingContacts) Destroyed(a, b *actor.Fixture)                                        {}

// setupStack builds a static ground box and three dynamic boxes resting
// one above the next, offset slightly so they settle instead of
// balancing perfectly.
func setupStack(w *world.World) {
	boxShape := geom.NewBox(0.5, 0.5)
	groundShape := geom.NewBox(10, 0.5)

	ground := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{0, -0.5}, 0), groundShape, actor.BodyTypeStatic, 1)
	w.AddBody(ground)

	offsets := []float64{0.05, -0.03, 0.02}
	for i, dx := range offsets {
		y := 0.5 + float64(i)*1.05
		box := actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{dx, y}, 0), boxShape, actor.BodyTypeDynamic, 1)
		box.Material.StaticFriction = 0.6
		box.Material.DynamicFriction = 0.5
		w.AddBody(box)
	}
}

func main() {
	settings := world.DefaultSettings()
	w := world.New(settings)
	w.Instrumentation = world.PrintInstrumentation{}
	w.Contact = loggingContacts{}

	var sleepCount int
	w.Events.Subscribe(event.OnSleep, func(e event.Event) { sleepCount++ })

	setupStack(w)

	const dt = 1.0 / 60.0
	const maxSteps = 4
	const totalSteps = 180

	for i := 0; i < totalSteps; i++ {
		w.Step(dt, maxSteps)
	}

	fmt.Printf("\nfinal resting positions after %d steps:\n", totalSteps)
	for i, b := range w.Bodies {
		fmt.Printf("  body %d: pos=%v asleep=%v\n", i, b.Transform.Position, b.IsSleeping)
	}
	fmt.Printf("bodies put to sleep: %d\n", sleepCount)
}
