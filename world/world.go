// Package world is the external collaborator (C10): it owns the body
// and joint registry, runs one step's broadphase → narrowphase → cache
// → island → solver → TOI pipeline, and dispatches buffered events once
// the step's mutable work is done (§5).
package world

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/broadphase"
	"github.com/akmonengine/plume/constraint"
	"github.com/akmonengine/plume/event"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/graph"
	"github.com/akmonengine/plume/joint"
	"github.com/akmonengine/plume/solver"
)

// DefaultWorkers matches the teacher's own single-worker default: most
// scenes are too small for parallelism to pay for its own overhead.
const DefaultWorkers = 1

// World owns every body and joint in a simulation, plus the broadphase
// grid, contact cache, constraint graph, and event bus that a Step
// drives in sequence.
type World struct {
	Bodies []*actor.RigidBody

	Settings Settings
	Workers  int

	// Boundary, when set, is the world's playable extent: bodies whose
	// world AABB leaves it are reported to Bounds (§6).
	Boundary *geom.AABB

	Instrumentation Instrumentation
	Bounds          event.BoundsListener
	Collision       event.CollisionListener
	Contact         event.ContactListener
	StepListener    event.StepListener
	Destruction     event.DestructionListener
	TOI             event.TOIListener

	Events *event.Bus

	graph *graph.Graph
	grid  *broadphase.Grid
	cache *constraint.Cache

	joints []joint.Joint
}

// New constructs a World from validated Settings, panicking on an
// invalid Settings value since a misconfigured world is a programmer
// error caught at construction (§7 class 1), not a condition a caller
// should need to handle at every call site downstream.
func New(settings Settings) *World {
	if err := settings.Validate(); err != nil {
		panic(err)
	}

	w := &World{
		Settings:        settings,
		Workers:         DefaultWorkers,
		Instrumentation: NoopInstrumentation{},
		Events:          event.NewBus(),
		graph:           graph.New(),
		grid:            broadphase.New(2.0, 256),
	}
	w.cache = constraint.NewCache(w)
	w.cache.Tuning = constraint.Tuning{
		Baumgarte:            settings.Baumgarte,
		LinearSlop:           settings.LinearTolerance,
		RestitutionThreshold: settings.RestitutionVelocityThreshold,
		AngularTolerance:     settings.AngularTolerance,
	}
	return w
}

// AddBody registers body with the world. Adding the same body twice is
// a programmer error (§7 class 1).
func (w *World) AddBody(body *actor.RigidBody) {
	for _, b := range w.Bodies {
		if b == body {
			panic("world: body already added")
		}
	}
	w.Bodies = append(w.Bodies, body)
	w.graph.AddBody(body)
}

// RemoveBody drops body from the world, the graph, and every tracking
// structure keyed on it.
func (w *World) RemoveBody(body *actor.RigidBody) {
	for i, b := range w.Bodies {
		if b == body {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			break
		}
	}
	w.graph.RemoveBody(body)
	w.Events.ForgetBody(body)
	if w.Destruction != nil {
		w.Destruction.BodyDestroyed(body)
	}
}

// AddJoint adds j to the graph and the set of joints the solver
// considers. A joint referencing a body not yet in the world is a
// programmer error (§7 class 1).
func (w *World) AddJoint(j joint.Joint) {
	for _, b := range j.Bodies() {
		found := false
		for _, wb := range w.Bodies {
			if wb == b {
				found = true
				break
			}
		}
		if !found {
			panic("world: joint references a body not in the world")
		}
	}
	w.joints = append(w.joints, j)
	w.graph.AddJoint(j)
}

// RemoveJoint removes j from the graph and the solver's joint set.
func (w *World) RemoveJoint(j joint.Joint) {
	for i, existing := range w.joints {
		if existing == j {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			break
		}
	}
	w.graph.RemoveJoint(j)
	if w.Destruction != nil {
		w.Destruction.JointDestroyed(j.Bodies())
	}
}

// Step runs as many whole fixed-size sub-steps of 1/Settings.StepFrequency
// as fit in dt, at most maxSteps of them, and returns the number run. A
// remainder of dt shorter than one sub-step is dropped; it is not carried
// over to the next call.
func (w *World) Step(dt float64, maxSteps int) int {
	w.Instrumentation.StepStarted(dt)
	if w.StepListener != nil {
		w.StepListener.Begin(dt)
	}

	subDt := 1.0 / w.Settings.StepFrequency
	steps := int(dt / subDt)
	if steps > maxSteps {
		steps = maxSteps
	}

	for i := 0; i < steps; i++ {
		w.substep(subDt)
	}

	if w.StepListener != nil {
		w.StepListener.UpdatePerformed(dt)
	}

	w.Events.ProcessSleepEvents(w.Bodies)
	w.Events.Flush()

	if w.StepListener != nil {
		w.StepListener.PostSolve(dt)
		w.StepListener.End(dt)
	}
	w.Instrumentation.StepFinished(dt)

	return steps
}

// substep runs one fixed-Δt pipeline pass: broadphase, narrowphase,
// cache update, island partitioning, per-island solve, then TOI
// resolution for bullet bodies.
func (w *World) substep(dt float64) {
	w.grid.Clear()
	for i, b := range w.Bodies {
		w.grid.Insert(i, b)
	}
	w.grid.SortCells()
	w.graph.ClearContacts()

	pairs := w.grid.FindPairs(w.Bodies)
	w.Instrumentation.BroadphasePairs(len(pairs))

	present := make(map[constraint.PairKey]bool)
	for _, pair := range pairs {
		if w.graph.IsJoined(pair.BodyA, pair.BodyB) && !w.graph.JointCollisionAllowed(pair.BodyA, pair.BodyB) {
			continue
		}

		results := collide(pair.BodyA, pair.BodyB, w.Settings, w.Collision)
		for _, r := range results {
			key := constraint.NewPairKey(r.fa, r.fb)
			present[key] = true

			c := w.cache.Update(r.bodyA, r.bodyB, r.fa, r.fb, r.manifold)
			if !c.Sensor {
				w.graph.AddContact(r.bodyA, r.bodyB)
			}
			w.Events.RecordPair(r.bodyA, r.bodyB)
		}
	}
	w.cache.Prune(present)

	active := w.cache.Active()
	solid := make([]*constraint.ContactConstraint, 0, len(active))
	for _, c := range active {
		if !c.Sensor {
			solid = append(solid, c)
		}
	}
	w.Instrumentation.ActiveContacts(len(solid))

	islands := w.graph.BuildIslands()
	w.Instrumentation.Islands(len(islands))

	solverSettings := solver.Settings{
		Gravity:               w.Settings.Gravity,
		VelocityIterations:    w.Settings.VelocityIterations,
		PositionIterations:    w.Settings.PositionIterations,
		SleepLinearThreshold:  w.Settings.SleepLinearThreshold,
		SleepAngularThreshold: w.Settings.SleepAngularThreshold,
		SleepTime:             w.Settings.MaxAtRestTime,
		MaxTranslation:        w.Settings.MaxTranslation,
		MaxRotation:           w.Settings.MaxRotation,
	}

	task(w.Workers, len(islands), func(start, end int) {
		for i := start; i < end; i++ {
			island := islands[i]
			contacts := contactsTouching(solid, island.Bodies)
			solver.Solve(island, contacts, dt, solverSettings)
		}
	})

	w.resolveTOI(dt)
	w.checkBounds()
}

// contactsTouching returns every contact constraint with at least one
// body in bodies, so each island's solve sees its own contacts,
// including those against static or kinematic bodies, which belong to no
// island (§4.8).
func contactsTouching(contacts []*constraint.ContactConstraint, bodies []*actor.RigidBody) []*constraint.ContactConstraint {
	member := make(map[*actor.RigidBody]bool, len(bodies))
	for _, b := range bodies {
		member[b] = true
	}

	var out []*constraint.ContactConstraint
	for _, c := range contacts {
		if member[c.BodyA] || member[c.BodyB] {
			out = append(out, c)
		}
	}
	return out
}
