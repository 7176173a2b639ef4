// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package octree implements the space-partitioned octree node (this
// file) and the directed octree walker (walker.go) that the entity
// index and ray tracer build on.
//
// This is a classical arena-owned tree: the root owns all nodes
// transitively through children, and parent is a non-owning
// back-reference used for root-walks, level computation, and the
// walker's step-back. Grounded in
// roscopecoltran-octatron/trace/raytracer.go's flat-array
// octreeNode{children [8]uint32} idiom, adapted from array-of-indices
// to a pointer tree (outside growth needs to swap the designated root,
// which an index-into-a-shared-slice representation makes awkward), and
// in physics/body.go's parent/child bookkeeping for GetRoot/GetLevel.
package octree

import (
	"fmt"

	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/space"
)

// Dim is a node's geometric dimension: pos is the vertex adjacent to
// child 0, size is the cube edge length.
type Dim struct {
	Pos  geom.Point
	Size float64
}

// IndexError reports an out-of-range octant index - always a
// programming error.
type IndexError struct {
	Op    string
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("octree: %s: octant index %d out of range [0,8)", e.Op, e.Index)
}

// childKind tags what, if anything, occupies a child slot.
type childKind int

const (
	kindEmpty childKind = iota
	kindSubtree
	kindLeaf
)

// Child is the tagged variant stored in each of a node's 8 slots:
// absent, a subtree, or a non-subtree leaf payload.
type Child struct {
	kind childKind
	node *Node
	leaf any
}

// IsEmpty reports an unoccupied child slot.
func (c Child) IsEmpty() bool { return c.kind == kindEmpty }

// IsSubtree reports a child slot occupied by a subtree.
func (c Child) IsSubtree() bool { return c.kind == kindSubtree }

// IsLeaf reports a child slot occupied by a non-subtree payload.
func (c Child) IsLeaf() bool { return c.kind == kindLeaf }

// Subtree returns the child's subtree node, or nil if this slot isn't
// a subtree.
func (c Child) Subtree() *Node { return c.node }

// Leaf returns the child's leaf payload, or nil if this slot isn't a leaf.
func (c Child) Leaf() any { return c.leaf }

// Node is an eight-child octree node. Each child is either absent,
// another Node (a subtree), or a non-subtree leaf payload. Value is a
// payload carried by the node itself - for the entity index this is
// the node's entity set.
type Node struct {
	id            Dim
	parent        *Node
	indexInParent int8 // -1 for the absolute root
	children      [8]Child
	value         any
	invalidated   bool
}

// NewRoot creates the absolute root of a tree with the given dimension
// and no parent.
func NewRoot(id Dim) *Node {
	return &Node{id: id, indexInParent: -1}
}

// ID returns the node's geometric dimension.
func (n *Node) ID() Dim { return n.id }

// Parent returns the node's parent, or nil if n is the absolute root.
func (n *Node) Parent() *Node { return n.parent }

// IndexInParent returns the octant index this node occupies within its
// parent, or -1 if n is the absolute root.
func (n *Node) IndexInParent() int { return int(n.indexInParent) }

// Value returns the payload attached to this node.
func (n *Node) Value() any { return n.value }

// SetValue attaches a payload to this node, returning the old value.
func (n *Node) SetValue(v any) (old any) {
	old = n.value
	n.value = v
	return old
}

// Get returns the child occupying slot i.
func (n *Node) Get(i int) Child {
	checkIndex("Get", i)
	return n.children[i]
}

// Set places child c in slot i, returning the slot's previous
// occupant. Replacing a subtree invalidates it (recursively) unless
// the caller has already detached it by hand.
func (n *Node) Set(i int, c Child) (old Child) {
	checkIndex("Set", i)
	old = n.children[i]
	if old.kind == kindSubtree && old.node != c.node {
		old.node.Invalidate(true)
	}
	n.children[i] = c
	return old
}

// NewSubtree creates a child subtree at slot i with the canonical
// sub-dimension (half the parent's size, positioned at the canonical
// child offset). It errors if the slot is already occupied.
func (n *Node) NewSubtree(i int) (*Node, error) {
	checkIndex("NewSubtree", i)
	if !n.children[i].IsEmpty() {
		return nil, fmt.Errorf("octree: NewSubtree: slot %d already occupied", i)
	}
	child := &Node{
		id:            canonicalChildDim(n.id, i),
		parent:        n,
		indexInParent: int8(i),
	}
	n.children[i] = Child{kind: kindSubtree, node: child}
	return child, nil
}

// Subtree returns the subtree at slot i, erroring if that slot isn't a
// subtree (empty or a leaf payload).
func (n *Node) Subtree(i int) (*Node, error) {
	checkIndex("Subtree", i)
	c := n.children[i]
	if !c.IsSubtree() {
		return nil, fmt.Errorf("octree: Subtree: slot %d is not a subtree", i)
	}
	return c.node, nil
}

// SetLeaf places a non-subtree payload in slot i, invalidating any
// subtree that previously occupied it.
func (n *Node) SetLeaf(i int, payload any) (old Child) {
	checkIndex("SetLeaf", i)
	return n.Set(i, Child{kind: kindLeaf, leaf: payload})
}

// GetRoot walks the parent chain to the absolute root. Orphan-safe: a
// node detached mid-walk (e.g. during outside growth) still resolves to
// whatever its current parent chain points at.
func (n *Node) GetRoot() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// GetLevel returns the depth of n below the absolute root (0 for the root).
func (n *Node) GetLevel() int {
	level := 0
	for cur := n; cur.parent != nil; cur = cur.parent {
		level++
	}
	return level
}

// GetRelativeLevel returns the depth of n below the given ancestor
// root, or -1 if root is not an ancestor of n.
func (n *Node) GetRelativeLevel(root *Node) int {
	level := 0
	for cur := n; cur != nil; cur = cur.parent {
		if cur == root {
			return level
		}
		level++
	}
	return -1
}

// Invalidate marks n (and, if recursive, every subtree beneath it) as
// invalidated. Invalidated subtrees may still be traversed structurally
// but are skipped by the walker.
func (n *Node) Invalidate(recursive bool) {
	n.invalidated = true
	if !recursive {
		return
	}
	for i := range n.children {
		if c := n.children[i]; c.IsSubtree() {
			c.node.Invalidate(true)
		}
	}
}

// IsInvalid reports whether n has been invalidated.
func (n *Node) IsInvalid() bool { return n.invalidated }

// Box returns n's extent as a space.Box, for membership tests.
func (n *Node) Box() space.Box {
	return space.Box{Pos: n.id.Pos, Size: n.id.Size}
}

// octantOf returns the child index of the octant of n's box containing
// p. p is assumed to already lie within n's box.
func (n *Node) octantOf(p geom.Point) int {
	return octantAt(n.Box(), p)
}

// octantAt computes which of a box's eight canonical octants contains
// p, under the closed-open convention: ind = floor((p-pos)*2/size),
// combined as ind.z<<2 | ind.y<<1 | ind.x. p is assumed to lie within box.
func octantAt(box space.Box, p geom.Point) int {
	half := box.Size / 2
	bx, by, bz := 0, 0, 0
	if p.X() >= box.Pos.X()+half {
		bx = 1
	}
	if p.Y() >= box.Pos.Y()+half {
		by = 1
	}
	if p.Z() >= box.Pos.Z()+half {
		bz = 1
	}
	return space.ChildIndex(bx, by, bz)
}

// NodeAtPos descends from root to the deepest existing node whose
// octant slot (the returned octant) contains p without that slot
// itself being a further subtree - i.e. it stops one level above any
// more deeply nested subtree. It returns ok=false if p does not lie
// within root's box at all.
func NodeAtPos(root *Node, p geom.Point) (tree *Node, octant int, ok bool) {
	if !space.PointIn(p, root.Box()) {
		return nil, 0, false
	}
	cur := root
	for {
		i := cur.octantOf(p)
		c := cur.Get(i)
		if !c.IsSubtree() {
			return cur, i, true
		}
		cur = c.Subtree()
	}
}

// canonicalChildDim computes child i's dimension from its parent's:
// half the edge length, positioned at the canonical child offset - the
// only bit-mapping between octant index and spatial direction used
// anywhere in the system.
func canonicalChildDim(parent Dim, i int) Dim {
	offset := space.ChildOffset(i, parent.Size)
	return Dim{Pos: geom.Add(parent.Pos, offset), Size: parent.Size / 2}
}

func checkIndex(op string, i int) {
	if i < 0 || i >= 8 {
		panic(&IndexError{Op: op, Index: i})
	}
}
