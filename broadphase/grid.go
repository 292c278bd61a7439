// Package broadphase finds candidate colliding pairs cheaply before the
// narrowphase runs GJK/EPA on them: a uniform spatial hash grid, the
// same broad-strokes structure as a 3D engine's grid with the Z axis
// dropped.
package broadphase

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/geom"
)

// CellKey identifies one cell in the 2D grid.
type CellKey struct {
	X, Y int
}

// Cell holds the indices of every body whose AABB occupies it.
type Cell struct {
	bodyIndices []int
}

// Pair is a candidate colliding pair the narrowphase should examine.
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// Grid is a uniform spatial hash grid over world-space AABBs, used as
// the broadphase stage ahead of GJK/EPA narrowphase.
type Grid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// New returns a grid with the given cell size, sized to at least
// numCells buckets (rounded up to a power of two for the hash mask).
func New(cellSize float64, numCells int) *Grid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &Grid{cellSize: cellSize, cells: cells, cellMask: numCells - 1}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert places bodyIndex into every cell its AABB overlaps.
func (g *Grid) Insert(bodyIndex int, body *actor.RigidBody) {
	aabb := body.WorldAABB()
	minCell := g.worldToCell(aabb.Min)
	maxCell := g.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			idx := g.hashCell(CellKey{x, y})
			g.cells[idx].bodyIndices = append(g.cells[idx].bodyIndices, bodyIndex)
		}
	}
}

// Clear empties every cell without releasing its backing array.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].bodyIndices = g.cells[i].bodyIndices[:0]
	}
}

// SortCells orders each cell's body indices, giving FindPairs a
// deterministic dedup rule (only test otherIdx > bodyIdx).
func (g *Grid) SortCells() {
	for i := range g.cells {
		if len(g.cells[i].bodyIndices) > 1 {
			sort.Ints(g.cells[i].bodyIndices)
		}
	}
}

// FindPairs scans every body's occupied cells and returns every
// candidate pair whose AABBs overlap, skipping static-static pairs (two
// immovable bodies can't collide) and sleeping-sleeping pairs (§4.8's
// sleep rule: nothing wakes a pair that's already fully at rest).
func (g *Grid) FindPairs(bodies []*actor.RigidBody) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)
	seen := make([]bool, len(bodies))

	for bodyIdx := 0; bodyIdx < len(bodies); bodyIdx++ {
		bodyA := bodies[bodyIdx]
		aabbA := bodyA.WorldAABB()
		minCell := g.worldToCell(aabbA.Min)
		maxCell := g.worldToCell(aabbA.Max)
		for i := range seen {
			seen[i] = false
		}

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				idx := g.hashCell(CellKey{x, y})

				for _, otherIdx := range g.cells[idx].bodyIndices {
					if otherIdx <= bodyIdx || seen[otherIdx] {
						continue
					}
					seen[otherIdx] = true

					bodyB := bodies[otherIdx]
					if skipPair(bodyA, bodyB) {
						continue
					}
					if aabbA.Overlaps(bodyB.WorldAABB()) {
						pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
					}
				}
			}
		}
	}

	return pairs
}

// FindPairsParallel splits the body range across numWorkers goroutines,
// each scanning its slice of bodies against the shared (read-only once
// built) grid and streaming candidate pairs back on a channel.
func (g *Grid) FindPairsParallel(bodies []*actor.RigidBody, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	bodiesPerWorker := len(bodies) / numWorkers
	if bodiesPerWorker == 0 {
		bodiesPerWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)

		start := w * bodiesPerWorker
		end := start + bodiesPerWorker
		if w == numWorkers-1 {
			end = len(bodies)
		}

		go func(start, end int) {
			defer wg.Done()
			seen := make([]bool, len(bodies))

			for bodyIdx := start; bodyIdx < end; bodyIdx++ {
				for i := range seen {
					seen[i] = false
				}

				bodyA := bodies[bodyIdx]
				aabbA := bodyA.WorldAABB()
				minCell := g.worldToCell(aabbA.Min)
				maxCell := g.worldToCell(aabbA.Max)

				for x := minCell.X; x <= maxCell.X; x++ {
					for y := minCell.Y; y <= maxCell.Y; y++ {
						idx := g.hashCell(CellKey{x, y})

						for _, otherIdx := range g.cells[idx].bodyIndices {
							if otherIdx <= bodyIdx || seen[otherIdx] {
								continue
							}
							seen[otherIdx] = true

							bodyB := bodies[otherIdx]
							if skipPair(bodyA, bodyB) {
								continue
							}
							if aabbA.Overlaps(bodyB.WorldAABB()) {
								pairsChan <- Pair{BodyA: bodyA, BodyB: bodyB}
							}
						}
					}
				}
			}
		}(start, end)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

func skipPair(a, b *actor.RigidBody) bool {
	if a.BodyType == actor.BodyTypeStatic && b.BodyType == actor.BodyTypeStatic {
		return true
	}
	if a.IsSleeping && b.IsSleeping {
		return true
	}
	return false
}

func (g *Grid) worldToCell(pos geom.Vector2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
	}
}

func (g *Grid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & g.cellMask
}
