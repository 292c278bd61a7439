package world

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/constraint"
)

// World itself implements constraint.Listener, forwarding to whatever
// event.ContactListener is currently set in w.Contact. Forwarding
// through a method (rather than capturing w.Contact once at
// construction) lets a caller set or replace Contact any time after
// New.
var _ constraint.Listener = (*World)(nil)

func (w *World) PairBegin(a, b *actor.Fixture) {
	if w.Contact != nil {
		w.Contact.Begin(a, b)
	}
}

func (w *World) PairEnd(a, b *actor.Fixture) {
	if w.Contact != nil {
		w.Contact.End(a, b)
	}
}

func (w *World) Point(a, b *actor.Fixture, pe constraint.PointEvent, pointID uint64) bool {
	if w.Contact == nil {
		return true
	}
	if pe == constraint.PointPersist {
		w.Contact.Persist(a, b)
	}
	return w.Contact.PreSolve(a, b)
}
