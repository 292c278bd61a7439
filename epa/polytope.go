package epa

import (
	"container/heap"

	"github.com/akmonengine/plume/geom"
	"github.com/akmonengine/plume/gjk"
)

// queuedEdge pairs an edge with its insertion sequence number, used to
// tie-break equal-distance pops (§4.3: "pop the edge with minimum
// distance, tie-broken by insertion order").
type queuedEdge struct {
	edge Edge
	seq  int
}

// edgeQueue is a min-heap of edges ordered by distance to the origin.
type edgeQueue struct {
	items []queuedEdge
	next  int
}

func newEdgeQueue() *edgeQueue {
	q := &edgeQueue{}
	heap.Init(q)
	return q
}

func (q *edgeQueue) push(e Edge) {
	heap.Push(q, queuedEdge{edge: e, seq: q.next})
	q.next++
}

func (q *edgeQueue) popMin() Edge {
	return heap.Pop(q).(queuedEdge).edge
}

func (q *edgeQueue) Len() int { return len(q.items) }

func (q *edgeQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.edge.Distance != b.edge.Distance {
		return a.edge.Distance < b.edge.Distance
	}
	return a.seq < b.seq
}

func (q *edgeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *edgeQueue) Push(x interface{}) { q.items = append(q.items, x.(queuedEdge)) }

func (q *edgeQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

// polytope is the expanding polygon of §4.3: a ring of Minkowski support
// points with every edge live in a priority queue, so the next
// expansion step always reads off the globally closest edge in
// O(log n) instead of a linear scan.
type polytope struct {
	queue *edgeQueue
}

// newPolytope seeds the polygon from a GJK-terminal simplex. A 2D
// simplex enclosing the origin has 2 or 3 points; a 2-point (line)
// simplex means the origin lies exactly on the Minkowski boundary, so
// it is widened to a thin triangle by adding the segment's midpoint
// nudged along the line's normal, giving EPA a non-degenerate polygon to
// expand.
func newPolytope(simplex *gjk.Simplex) *polytope {
	p := &polytope{queue: newEdgeQueue()}

	pts := make([]geom.SupportPoint, simplex.Count)
	for i := 0; i < simplex.Count; i++ {
		pts[i] = simplex.Points[i]
	}
	if len(pts) == 2 {
		pts = widenToTriangle(pts[0], pts[1])
	}

	for i := range pts {
		j := (i + 1) % len(pts)
		p.queue.push(newEdge(pts[i], pts[j]))
	}
	return p
}

// widenToTriangle turns a degenerate 2-point simplex into a 3-point one
// by adding the midpoint of a and b, offset along the segment's normal by a small
// fraction of its length, giving the polygon a positive area to expand
// from.
func widenToTriangle(a, b geom.SupportPoint) []geom.SupportPoint {
	along := b.Diff.Sub(a.Diff)
	normal := geom.SafeNormalize(geom.RightPerp(along))
	nudge := along.Len()*0.01 + 1e-4

	mid := geom.SupportPoint{
		A:    a.A.Add(b.A).Mul(0.5),
		B:    a.B.Add(b.B).Mul(0.5),
		Diff: a.Diff.Add(b.Diff).Mul(0.5).Add(normal.Mul(nudge)),
	}
	return []geom.SupportPoint{a, b, mid}
}

// expand splits edge e by inserting support between its endpoints,
// replacing e with two new edges that share support as a vertex
// (§4.3 step 4).
func (p *polytope) expand(e Edge, support geom.SupportPoint) {
	p.queue.push(newEdge(e.A, support))
	p.queue.push(newEdge(support, e.B))
}
