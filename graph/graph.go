// Package graph maintains the constraint graph over bodies: which
// bodies are joined or in contact, and how they partition into
// independently solvable islands (§4.8, C8).
package graph

import (
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/joint"
)

// edgeKind distinguishes a contact edge from a joint edge so
// IsInContact and IsJoined can answer independently of one another.
type edgeKind int

const (
	edgeContact edgeKind = iota
	edgeJoint
)

type edge struct {
	kind             edgeKind
	other            *actor.RigidBody
	collisionAllowed bool
	joint            joint.Joint
}

// node is one body's adjacency list within the graph.
type node struct {
	body  *actor.RigidBody
	edges []edge
}

// Graph tracks every body and the contact/joint edges between them,
// per §4.8's addBody/removeBody/addJoint responsibilities.
type Graph struct {
	nodes map[*actor.RigidBody]*node
}

// New returns an empty constraint graph.
func New() *Graph {
	return &Graph{nodes: make(map[*actor.RigidBody]*node)}
}

// AddBody registers a body with no edges. A body already present is
// left untouched.
func (g *Graph) AddBody(b *actor.RigidBody) {
	if _, ok := g.nodes[b]; ok {
		return
	}
	g.nodes[b] = &node{body: b}
}

// RemoveBody deletes a body and cascades removal of every edge
// referencing it from its neighbors' adjacency lists (§4.8 removeBody).
func (g *Graph) RemoveBody(b *actor.RigidBody) {
	n, ok := g.nodes[b]
	if !ok {
		return
	}
	for _, e := range n.edges {
		if other := g.nodes[e.other]; other != nil {
			other.edges = removeEdgesTo(other.edges, b)
		}
	}
	delete(g.nodes, b)
}

func removeEdgesTo(edges []edge, target *actor.RigidBody) []edge {
	out := edges[:0]
	for _, e := range edges {
		if e.other != target {
			out = append(out, e)
		}
	}
	return out
}

// AddContact records a contact edge between a and b. Contacts are
// always collision-producing by construction (a contact IS a
// collision), so the edge carries no independent allow/disallow flag.
func (g *Graph) AddContact(a, b *actor.RigidBody) {
	g.AddBody(a)
	g.AddBody(b)
	g.nodes[a].edges = append(g.nodes[a].edges, edge{kind: edgeContact, other: b})
	g.nodes[b].edges = append(g.nodes[b].edges, edge{kind: edgeContact, other: a})
}

// RemoveContact deletes the contact edge (if any) between a and b.
func (g *Graph) RemoveContact(a, b *actor.RigidBody) {
	g.removeEdge(a, b, edgeContact)
	g.removeEdge(b, a, edgeContact)
}

func (g *Graph) removeEdge(from, to *actor.RigidBody, kind edgeKind) {
	n, ok := g.nodes[from]
	if !ok {
		return
	}
	out := n.edges[:0]
	for _, e := range n.edges {
		if e.kind == kind && e.other == to {
			continue
		}
		out = append(out, e)
	}
	n.edges = out
}

// AddJoint adds edges to every body j references (§4.8's addJoint,
// joints may be unary or n-ary). A unary joint (one body referencing
// itself, e.g. a motor) produces no edge since there is no second
// endpoint to flood through.
func (g *Graph) AddJoint(j joint.Joint) {
	bodies := j.Bodies()
	for _, b := range bodies {
		g.AddBody(b)
	}
	for i, a := range bodies {
		for _, b := range bodies[i+1:] {
			g.nodes[a].edges = append(g.nodes[a].edges, edge{kind: edgeJoint, other: b, collisionAllowed: j.CollisionAllowed(), joint: j})
			g.nodes[b].edges = append(g.nodes[b].edges, edge{kind: edgeJoint, other: a, collisionAllowed: j.CollisionAllowed(), joint: j})
		}
	}
}

// RemoveJoint removes every edge this specific joint instance
// contributed, leaving any other joints between the same bodies intact.
func (g *Graph) RemoveJoint(j joint.Joint) {
	for _, b := range j.Bodies() {
		n, ok := g.nodes[b]
		if !ok {
			continue
		}
		out := n.edges[:0]
		for _, e := range n.edges {
			if e.kind == edgeJoint && e.joint == j {
				continue
			}
			out = append(out, e)
		}
		n.edges = out
	}
}

// ClearContacts drops every contact edge in the graph, leaving joint
// edges untouched. The world calls this once per substep before
// re-adding the contact edges the fresh broadphase/narrowphase pass
// found, since contacts (unlike joints) are rebuilt from scratch every
// step rather than explicitly added/removed by a caller.
func (g *Graph) ClearContacts() {
	for _, n := range g.nodes {
		out := n.edges[:0]
		for _, e := range n.edges {
			if e.kind == edgeContact {
				continue
			}
			out = append(out, e)
		}
		n.edges = out
	}
}

// IsJoined reports whether any joint connects a and b directly.
func (g *Graph) IsJoined(a, b *actor.RigidBody) bool {
	n, ok := g.nodes[a]
	if !ok {
		return false
	}
	for _, e := range n.edges {
		if e.kind == edgeJoint && e.other == b {
			return true
		}
	}
	return false
}

// IsInContact reports whether a contact edge currently connects a and b.
func (g *Graph) IsInContact(a, b *actor.RigidBody) bool {
	n, ok := g.nodes[a]
	if !ok {
		return false
	}
	for _, e := range n.edges {
		if e.kind == edgeContact && e.other == b {
			return true
		}
	}
	return false
}

// JointCollisionAllowed implements §4.8's rule: collision between two
// jointed bodies is allowed if at least one joint connecting them sets
// the collision-allowed flag, disallowed if every joint between them
// has it cleared. Bodies with no joint between them are unaffected by
// this rule (callers should treat "not joined" as "allowed").
func (g *Graph) JointCollisionAllowed(a, b *actor.RigidBody) bool {
	n, ok := g.nodes[a]
	if !ok {
		return true
	}
	found := false
	for _, e := range n.edges {
		if e.kind != edgeJoint || e.other != b {
			continue
		}
		found = true
		if e.collisionAllowed {
			return true
		}
	}
	if !found {
		return true
	}
	return false
}

// Island is a set of dynamic bodies transitively connected by contact
// or joint edges, plus the joints among them, solved independently by
// the solver (§4.8 island formation).
type Island struct {
	Bodies []*actor.RigidBody
	Joints []joint.Joint
}

// BuildIslands partitions the graph's dynamic bodies into islands via a
// depth-first flood over contact and joint edges. The flood stops at
// static and kinematic bodies (they connect islands without merging
// them — a single static ground body can touch many separate islands).
func (g *Graph) BuildIslands() []Island {
	visited := make(map[*actor.RigidBody]bool)
	var islands []Island

	for b := range g.nodes {
		if b.BodyType != actor.BodyTypeDynamic || visited[b] {
			continue
		}

		island := Island{}
		seenJoints := make(map[joint.Joint]bool)
		stack := []*actor.RigidBody{b}
		visited[b] = true

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island.Bodies = append(island.Bodies, current)

			for _, e := range g.nodes[current].edges {
				if e.kind == edgeJoint && e.joint != nil && !seenJoints[e.joint] {
					seenJoints[e.joint] = true
					island.Joints = append(island.Joints, e.joint)
				}
				if e.other.BodyType != actor.BodyTypeDynamic || visited[e.other] {
					continue
				}
				visited[e.other] = true
				stack = append(stack, e.other)
			}
		}

		islands = append(islands, island)
	}

	return islands
}

// Asleep reports whether every dynamic body in the island is currently
// sleeping (§4.8 sleep rule: an island skipped only when ALL its
// dynamic bodies are at rest).
func (island Island) Asleep() bool {
	for _, b := range island.Bodies {
		if !b.IsSleeping {
			return false
		}
	}
	return len(island.Bodies) > 0
}

// Wake marks every dynamic body in the island awake, the atomic
// per-island wake §3's invariants require when any constraint or
// impulse touches one of its bodies.
func (island Island) Wake() {
	for _, b := range island.Bodies {
		b.Awake()
	}
}
