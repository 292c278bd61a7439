package broadphase

import (
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
)

func TestWorldToCell(t *testing.T) {
	grid := New(1.0, 16)

	tests := []struct {
		name     string
		position geom.Vector2
		expected CellKey
	}{
		{"origin", geom.Vector2{0, 0}, CellKey{0, 0}},
		{"positive", geom.Vector2{1.5, 2.3}, CellKey{1, 2}},
		{"negative", geom.Vector2{-1.5, -2.3}, CellKey{-2, -3}},
		{"fractional", geom.Vector2{0.5, 0.5}, CellKey{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCell_StaysWithinRange(t *testing.T) {
	grid := New(1.0, 16)

	keys := []CellKey{{0, 0}, {1, 2}, {-1, -2}, {100, 200}, {-100, 300}}
	for _, key := range keys {
		h := grid.hashCell(key)
		if h < 0 || h >= len(grid.cells) {
			t.Errorf("hashCell(%v) = %d, out of range [0, %d)", key, h, len(grid.cells))
		}
	}
}

func body(x, y float64, bodyType actor.BodyType) *actor.RigidBody {
	return actor.NewRigidBody(geom.NewTransformAt(geom.Vector2{x, y}, 0), geom.NewBox(0.5, 0.5), bodyType, 1)
}

func TestFindPairs_OverlappingDynamicBodiesArePaired(t *testing.T) {
	bodies := []*actor.RigidBody{
		body(0, 0, actor.BodyTypeDynamic),
		body(0.5, 0, actor.BodyTypeDynamic),
	}

	grid := New(2.0, 16)
	for i, b := range bodies {
		grid.Insert(i, b)
	}
	grid.SortCells()

	pairs := grid.FindPairs(bodies)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 overlapping pair, got %d", len(pairs))
	}
}

func TestFindPairs_DistantBodiesAreNotPaired(t *testing.T) {
	bodies := []*actor.RigidBody{
		body(0, 0, actor.BodyTypeDynamic),
		body(50, 50, actor.BodyTypeDynamic),
	}

	grid := New(2.0, 16)
	for i, b := range bodies {
		grid.Insert(i, b)
	}
	grid.SortCells()

	pairs := grid.FindPairs(bodies)
	if len(pairs) != 0 {
		t.Errorf("expected no pairs for distant bodies, got %d", len(pairs))
	}
}

func TestFindPairs_SkipsStaticStaticPairs(t *testing.T) {
	bodies := []*actor.RigidBody{
		body(0, 0, actor.BodyTypeStatic),
		body(0.1, 0, actor.BodyTypeStatic),
	}

	grid := New(2.0, 16)
	for i, b := range bodies {
		grid.Insert(i, b)
	}
	grid.SortCells()

	pairs := grid.FindPairs(bodies)
	if len(pairs) != 0 {
		t.Errorf("expected static-static pairs to be skipped, got %d", len(pairs))
	}
}

func TestFindPairs_SkipsBothSleeping(t *testing.T) {
	a := body(0, 0, actor.BodyTypeDynamic)
	b := body(0.1, 0, actor.BodyTypeDynamic)
	a.Sleep()
	b.Sleep()

	bodies := []*actor.RigidBody{a, b}
	grid := New(2.0, 16)
	for i, bb := range bodies {
		grid.Insert(i, bb)
	}
	grid.SortCells()

	pairs := grid.FindPairs(bodies)
	if len(pairs) != 0 {
		t.Errorf("expected sleeping-sleeping pairs to be skipped, got %d", len(pairs))
	}
}

func TestFindPairsParallel_MatchesSequentialCount(t *testing.T) {
	bodies := []*actor.RigidBody{
		body(0, 0, actor.BodyTypeDynamic),
		body(0.5, 0, actor.BodyTypeDynamic),
		body(0.25, 0.25, actor.BodyTypeDynamic),
		body(20, 20, actor.BodyTypeDynamic),
	}

	grid := New(2.0, 32)
	for i, b := range bodies {
		grid.Insert(i, b)
	}
	grid.SortCells()

	sequential := grid.FindPairs(bodies)

	grid2 := New(2.0, 32)
	for i, b := range bodies {
		grid2.Insert(i, b)
	}
	grid2.SortCells()

	var parallelCount int
	for range grid2.FindPairsParallel(bodies, 2) {
		parallelCount++
	}

	if parallelCount != len(sequential) {
		t.Errorf("parallel found %d pairs, sequential found %d", parallelCount, len(sequential))
	}
}

func TestClear_EmptiesCellsWithoutReleasingCapacity(t *testing.T) {
	grid := New(1.0, 16)
	grid.Insert(0, body(0, 0, actor.BodyTypeDynamic))
	grid.Clear()

	for _, cell := range grid.cells {
		if len(cell.bodyIndices) != 0 {
			t.Error("expected Clear to empty every cell")
		}
	}
}
