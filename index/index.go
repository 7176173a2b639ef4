// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package index is the entity index: an octree whose nodes each carry
// an entity set, with insertion that grows the tree both inward
// (subdividing to cover an AABB) and outward (wrapping a new root).
//
// Grounded in physics/broad.go's bid-keyed body bookkeeping, reworked
// from a flat body slice with broad-phase pairing into an octree-keyed
// entity set, and in physics/body.go's parent/child traversal idiom
// for the upward covering-node search.
package index

import (
	"fmt"
	"math"

	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/octree"
	"github.com/racetrace/racetrace/scene"
	"github.com/racetrace/racetrace/space"
)

// Set is the unordered, membership-tested collection of entities
// attached to one octree node.
type Set map[scene.Entity]struct{}

func newSet() Set { return make(Set) }

// Add inserts e into the set.
func (s Set) Add(e scene.Entity) { s[e] = struct{}{} }

// Remove deletes e from the set.
func (s Set) Remove(e scene.Entity) { delete(s, e) }

// Contains reports set membership.
func (s Set) Contains(e scene.Entity) bool {
	_, ok := s[e]
	return ok
}

// Each calls fn for every entity in the set, stopping early if fn
// returns false.
func (s Set) Each(fn func(scene.Entity) bool) {
	for e := range s {
		if !fn(e) {
			return
		}
	}
}

// Limits bounds how far an insertion may grow the tree in each
// direction before it is considered a failure.
type Limits struct {
	MaxInDepth  int
	MaxOutDepth int
}

// DefaultLimits is a generous bound suitable for typical scenes.
var DefaultLimits = Limits{MaxInDepth: 32, MaxOutDepth: 32}

// ErrOutsideGrowthExceeded is returned by Add when an entity's AABB
// still does not fit after MaxOutDepth outward-growth steps. It
// carries the last-grown absolute root so the caller may retry with a
// larger budget or reject the scene.
type ErrOutsideGrowthExceeded struct {
	Root *octree.Node
}

func (e *ErrOutsideGrowthExceeded) Error() string {
	return fmt.Sprintf("index: entity AABB does not fit after outward growth (last root size %.6g)", e.Root.ID().Size)
}

// Tree is a rooted entity octree. Outside growth replaces Tree's root,
// so callers must always go through Tree.Root() rather than caching a
// *octree.Node across calls to Add.
type Tree struct {
	root *octree.Node
}

// NewEntityOctree creates an entity index rooted at the given
// dimension, with an empty entity set at every node it creates.
func NewEntityOctree(dim octree.Dim) *Tree {
	root := octree.NewRoot(dim)
	root.SetValue(newSet())
	return &Tree{root: root}
}

// Root returns the current absolute root.
func (t *Tree) Root() *octree.Node { return t.root }

// Add inserts entity e, growing the tree as needed per limits, and
// returns the node e was ultimately attached to.
func (t *Tree) Add(e scene.Entity, limits Limits) (*octree.Node, error) {
	aabb := e.AABB()
	node, ok := t.coveringNode(aabb)
	if !ok {
		grown, err := t.growOutside(aabb, limits.MaxOutDepth)
		if err != nil {
			return nil, err
		}
		node = grown
	}
	node = t.growInside(node, aabb, limits.MaxInDepth)
	ensureSet(node).Add(e)
	return node, nil
}

// GetCoveringNodeForEntity returns the deepest existing node whose
// sub-box wholly contains e's AABB, or ok=false if no existing node
// does (the entity does not fit in the tree at all yet).
func (t *Tree) GetCoveringNodeForEntity(e scene.Entity) (*octree.Node, bool) {
	return t.coveringNode(e.AABB())
}

func (t *Tree) coveringNode(aabb geom.AABB) (*octree.Node, bool) {
	origin := aabbOrigin(aabb)
	if !space.PointIn(origin, t.root.Box()) {
		return nil, false
	}
	node, _, ok := octree.NodeAtPos(t.root, origin)
	if !ok {
		return nil, false
	}
	for cur := node; cur != nil; cur = cur.Parent() {
		if space.AABBIn(aabb, cur.Box()) {
			return cur, true
		}
	}
	return nil, false
}

// growOutside iteratively wraps the current root in a new, twice-as-
// large parent, positioned so the entity's AABB moves toward the
// interior, until it fits or maxOutDepth is exceeded.
func (t *Tree) growOutside(aabb geom.AABB, maxOutDepth int) (*octree.Node, error) {
	origin := aabbOrigin(aabb)
	for i := 0; i < maxOutDepth; i++ {
		if space.AABBIn(aabb, t.root.Box()) {
			return t.root, nil
		}
		bits := wrapBits(origin, t.root.ID())
		size := t.root.ID().Size
		newPos := geom.Add(t.root.ID().Pos, geom.New3(
			float64(bits[0])*size, float64(bits[1])*size, float64(bits[2])*size,
		))
		newRoot := octree.NewRoot(octree.Dim{Pos: newPos, Size: size * 2})
		newRoot.SetValue(newSet())
		oldIndex := space.ChildIndex(-bits[0], -bits[1], -bits[2])
		if err := newRoot.AdoptChild(oldIndex, t.root); err != nil {
			return nil, err
		}
		t.root = newRoot
	}
	if space.AABBIn(aabb, t.root.Box()) {
		return t.root, nil
	}
	return nil, &ErrOutsideGrowthExceeded{Root: t.root}
}

// wrapBits computes, per axis, clamp(round((p-pos)/size), -1, 0): which
// of the eight surrounding positions the new parent's origin should
// take so that p moves toward the new tree's interior.
func wrapBits(p geom.Point, id octree.Dim) [3]int {
	var bits [3]int
	for i := 0; i < 3; i++ {
		raw := (p.At(i) - id.Pos.At(i)) / id.Size
		r := math.Round(raw)
		bits[i] = int(geom.Clamp(r, -1, 0))
	}
	return bits
}

// growInside descends from node, subdividing as long as a single child
// sub-box still contains the whole AABB and depth allows, stopping
// when subdivision would straddle it.
func (t *Tree) growInside(node *octree.Node, aabb geom.AABB, maxInDepth int) *octree.Node {
	cur := node
	for depth := 0; depth < maxInDepth; depth++ {
		octant, ok := singleChildContaining(cur.Box(), aabb)
		if !ok {
			break
		}
		child, err := cur.Subtree(octant)
		if err != nil {
			child, err = cur.NewSubtree(octant)
			if err != nil {
				break
			}
			child.SetValue(newSet())
		}
		cur = child
	}
	return cur
}

// singleChildContaining reports which single octant of box wholly
// contains aabb, if any - false if aabb straddles the midplane on any
// axis.
func singleChildContaining(box space.Box, aabb geom.AABB) (octant int, ok bool) {
	half := box.Size / 2
	var bits [3]int
	for i := 0; i < 3; i++ {
		lo := aabb.Center.At(i) - aabb.Size.At(i)/2
		hi := aabb.Center.At(i) + aabb.Size.At(i)/2
		mid := box.Pos.At(i) + half
		switch {
		case hi <= mid:
			bits[i] = 0
		case lo >= mid:
			bits[i] = 1
		default:
			return 0, false
		}
	}
	return space.ChildIndex(bits[0], bits[1], bits[2]), true
}

// EntityAtPos finds the deepest node containing p, then walks upward
// returning the first entity whose IsWithin(p) holds.
func EntityAtPos(root *octree.Node, p geom.Point) (scene.Entity, bool) {
	node, _, ok := octree.NodeAtPos(root, p)
	if !ok {
		return nil, false
	}
	for cur := node; cur != nil; cur = cur.Parent() {
		set, ok := cur.Value().(Set)
		if !ok {
			continue
		}
		var found scene.Entity
		var hit bool
		set.Each(func(e scene.Entity) bool {
			if e.IsWithin(p) {
				found, hit = e, true
				return false
			}
			return true
		})
		if hit {
			return found, true
		}
	}
	return nil, false
}

func ensureSet(n *octree.Node) Set {
	v := n.Value()
	if v == nil {
		s := newSet()
		n.SetValue(s)
		return s
	}
	return v.(Set)
}

// aabbOrigin returns the AABB's minimum corner.
func aabbOrigin(aabb geom.AABB) geom.Point {
	half := geom.Scale(aabb.Size, 0.5)
	return geom.Sub(aabb.Center, half)
}
