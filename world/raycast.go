package world

import (
	"sort"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
)

// BodyRaycastHit pairs a raycast hit with the body and fixture it
// struck, letting a caller resolve hits against game-side body state.
type BodyRaycastHit struct {
	gjk.RaycastHit
	Body    *actor.RigidBody
	Fixture *actor.Fixture
}

// byDistance implements sort.Interface over []BodyRaycastHit by
// ascending ray distance, the same sort.Ints idiom the broadphase grid
// uses for its cell body-index lists, applied here to raycast results.
type byDistance []BodyRaycastHit

func (h byDistance) Len() int           { return len(h) }
func (h byDistance) Less(i, j int) bool { return h[i].Distance < h[j].Distance }
func (h byDistance) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// Raycast queries every fixture in the world along (origin, direction)
// up to maxLength, returning every hit sorted nearest-first.
func (w *World) Raycast(origin, direction geom.Vector2, maxLength float64, settings gjk.Settings) []BodyRaycastHit {
	var hits []BodyRaycastHit

	for _, body := range w.Bodies {
		for _, f := range body.Fixtures {
			target := asFixture(body, f)
			hit, ok := gjk.Raycast(target, origin, direction, maxLength, settings)
			if !ok {
				continue
			}
			hits = append(hits, BodyRaycastHit{RaycastHit: hit, Body: body, Fixture: f})
		}
	}

	sort.Sort(byDistance(hits))
	return hits
}
