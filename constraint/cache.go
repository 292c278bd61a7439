package constraint

import (
	"unsafe"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/manifold"
)

// PointEvent names a transition a cached contact point goes through as
// manifolds are replaced step over step (§4.7's New/Persisted/Removed
// per-point state machine).
type PointEvent int

const (
	// PointBegin fires when a point's ID has no match in the previous
	// manifold: it starts life with zero impulses.
	PointBegin PointEvent = iota
	// PointPersist fires when a point's ID matches a previous point:
	// its accumulated impulses are carried over for warm-starting.
	PointPersist
	// PointEnd fires when a point present last step has no match this
	// step, or its owning pair was dropped entirely.
	PointEnd
)

// Listener observes contact-pair and contact-point lifecycle events.
// Point may veto an individual point by returning false, disabling it
// for this step's solve (§4.7).
type Listener interface {
	PairBegin(a, b *actor.Fixture)
	PairEnd(a, b *actor.Fixture)
	Point(a, b *actor.Fixture, event PointEvent, pointID uint64) (enabled bool)
}

// PairKey identifies a fixture pair irrespective of argument order, so
// (a, b) and (b, a) look up the same cache entry.
type PairKey struct {
	a, b *actor.Fixture
}

// NewPairKey normalizes a fixture pair into a stable, order-independent
// key, ordering by address since fixtures carry no identity of their
// own.
func NewPairKey(a, b *actor.Fixture) PairKey {
	if uintptr(unsafe.Pointer(a)) > uintptr(unsafe.Pointer(b)) {
		a, b = b, a
	}
	return PairKey{a, b}
}

// Cache holds the Absent→Active→Absent per-pair state described in
// §4.7: one ContactConstraint per active fixture pair, persisted across
// steps so manifold points can be matched by ID and warm-started.
type Cache struct {
	active   map[PairKey]*ContactConstraint
	listener Listener

	// Tuning is applied to every constraint this cache builds (§6's
	// world-level Baumgarte/linear-tolerance/restitution-threshold
	// knobs). Defaults to DefaultTuning, matching a ContactConstraint
	// built directly via NewContactConstraint.
	Tuning Tuning
}

// NewCache returns an empty contact cache reporting lifecycle events to
// listener, which may be nil to disable reporting.
func NewCache(listener Listener) *Cache {
	return &Cache{active: make(map[PairKey]*ContactConstraint), listener: listener, Tuning: DefaultTuning()}
}

// Update replaces the cached constraint for fixtures (fa, fb) with one
// built from the freshly generated manifold m, carrying over warm-start
// impulses for points whose ID matches the previous step's manifold
// (§4.7 steps 1-2) and emitting begin/persist/end events.
func (c *Cache) Update(a, b *actor.RigidBody, fa, fb *actor.Fixture, m manifold.Manifold) *ContactConstraint {
	key := NewPairKey(fa, fb)
	previous, existed := c.active[key]

	next := NewContactConstraint(a, b, m).Tune(c.Tuning)
	next.Sensor = fa.IsTrigger || fb.IsTrigger

	if !existed && c.listener != nil {
		c.listener.PairBegin(fa, fb)
	}

	for i := range next.Points {
		p := &next.Points[i]
		event := PointBegin
		if existed {
			if old, found := findPoint(previous.Points, p.ID); found {
				p.NormalImpulse = old.NormalImpulse
				p.TangentImpulse = old.TangentImpulse
				event = PointPersist
			}
		}
		if c.listener != nil {
			p.Enabled = c.listener.Point(fa, fb, event, p.ID)
		}
	}

	if existed {
		for _, old := range previous.Points {
			if _, found := findPoint(next.Points, old.ID); !found && c.listener != nil {
				c.listener.Point(fa, fb, PointEnd, old.ID)
			}
		}
	}

	c.active[key] = next
	return next
}

// Prune removes every cached pair whose key is absent from present
// (the set of pairs the broadphase/narrowphase found overlapping this
// step), emitting PairEnd and PointEnd for each of its points (§4.7
// step 4).
func (c *Cache) Prune(present map[PairKey]bool) {
	for key, constraint := range c.active {
		if present[key] {
			continue
		}
		if c.listener != nil {
			for _, p := range constraint.Points {
				c.listener.Point(key.a, key.b, PointEnd, p.ID)
			}
			c.listener.PairEnd(key.a, key.b)
		}
		delete(c.active, key)
	}
}

// Active returns every currently cached contact constraint, for the
// solver to consume during a step.
func (c *Cache) Active() []*ContactConstraint {
	out := make([]*ContactConstraint, 0, len(c.active))
	for _, constraint := range c.active {
		out = append(out, constraint)
	}
	return out
}

func findPoint(points []SolverContact, id uint64) (SolverContact, bool) {
	for _, p := range points {
		if p.ID == id {
			return p, true
		}
	}
	return SolverContact{}, false
}
