// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package octree

import (
	"errors"

	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/space"
)

// ErrZeroDirection is returned by SetPosAndDir when given a zero-length
// direction - a walk has no well-defined next boundary without one.
var ErrZeroDirection = errors.New("octree: walker: direction must be non-zero")

// Stop is one item of the walker's output: a visit to a child slot, or
// to the absolute root itself (only ever the very first stop, and only
// when the walk starts outside the tree).
type Stop struct {
	// Owner is the node whose child slot this stop visits. Nil when
	// this stop is the root itself.
	Owner *Node
	// Octant is the slot index within Owner. -1 when Owner is nil.
	Octant int
	// Node is the subtree occupying the slot, or nil if the slot is
	// empty or a non-subtree leaf.
	Node *Node
	// Leaf is the slot's non-subtree payload, or nil.
	Leaf any
	// Box is the slot's spatial extent.
	Box space.Box
}

// frame is one level of the walker's depth stack: a selection of
// octant within owner's box. owner is nil only for the sentinel
// "root itself" frame used when a walk starts outside the tree.
type frame struct {
	owner     *Node
	octant    int
	returned  bool
	steppedIn bool
}

// Walker streams the leaf octants a ray crosses through a node tree,
// in the order the ray first enters them, via iterative slab-stepping
// and a depth stack - no recursion, no generator machinery needed.
// When a walk starts inside a subtree, the slots enclosing the start
// point are each reported once, as the walk steps back out of them.
// Grounded in roscopecoltran-octatron/trace/raytracer.go's
// intersectTree stepping idiom, reworked from its array-of-node-index
// representation to the pointer-tree Node of this package, and in
// bufio.Scanner's pull style (Next/Stop) for the iterator shape itself.
type Walker struct {
	root         *Node
	includeEmpty bool

	pos geom.Point
	dir geom.Vector

	stack     []frame
	exhausted bool
}

// NewWalker creates a walker over root. Call SetPosAndDir before the
// first Next.
func NewWalker(root *Node) *Walker {
	return &Walker{root: root, exhausted: true}
}

// SetIncludeEmpty controls whether Next emits stops for empty child
// slots (and invalidated subtrees, which are treated as empty). Off by
// default.
func (w *Walker) SetIncludeEmpty(include bool) {
	w.includeEmpty = include
}

// SetPosAndDir (re)seats the walker at p heading in direction dir and
// resets its internal state, ready for a fresh Next sequence. dir need
// not be unit length but must be non-zero. startNode, if non-nil, is
// used in place of the walker's root as the starting point for initial
// placement when p lies within it - used by the tracer to reseat a ray
// after a hit without re-descending from the absolute root.
func (w *Walker) SetPosAndDir(p geom.Point, dir geom.Vector, startNode *Node) error {
	if geom.IsZero(dir) {
		return ErrZeroDirection
	}
	w.dir = dir
	w.stack = nil
	w.exhausted = false

	search := w.root
	if startNode != nil {
		search = startNode
	}

	if space.PointIn(p, search.Box()) {
		tree, octant, _ := NodeAtPos(search, p)
		w.pos = p
		w.stack = buildStackTo(tree, octant)
		for i := range w.stack[:len(w.stack)-1] {
			w.stack[i].steppedIn = true
		}
		return nil
	}

	aabb := boxToAABB(w.root.Box())
	entry, _, ok := aabb.Slab(geom.Ray{Start: p, Dir: dir})
	if !ok || entry.T < 0 {
		w.exhausted = true
		return nil
	}
	w.pos = geom.Ray{Start: p, Dir: dir}.At(entry.T)
	w.stack = []frame{{owner: nil, octant: -1}}
	return nil
}

// Next advances the walker and returns its next stop, or ok=false once
// the walk is exhausted.
func (w *Walker) Next() (Stop, bool) {
	if w.exhausted {
		return Stop{}, false
	}
	for {
		if len(w.stack) == 0 {
			w.exhausted = true
			return Stop{}, false
		}
		top := &w.stack[len(w.stack)-1]
		box := w.frameBox(*top)
		subtree, isSubtree, leaf, isLeaf := w.frameOccupant(*top)
		skip := (isSubtree && subtree.IsInvalid()) || (!isSubtree && !isLeaf)

		if !top.returned {
			top.returned = true
			if !skip || w.includeEmpty {
				return Stop{Owner: top.owner, Octant: top.octant, Node: subtreeOrNil(isSubtree, skip, subtree), Leaf: leaf, Box: box}, true
			}
		}

		if isSubtree && !skip && !top.steppedIn {
			top.steppedIn = true
			entryOctant := octantAt(subtree.Box(), w.pos)
			w.stack = append(w.stack, frame{owner: subtree, octant: entryOctant})
			continue
		}

		if w.advanceWithinParent(top, box) {
			continue
		}

		w.stack = w.stack[:len(w.stack)-1]
		if len(w.stack) == 0 {
			w.exhausted = true
			return Stop{}, false
		}
	}
}

// subtreeOrNil reports a stop's Node field: nil for empty/invalidated
// slots even though an invalidated subtree is technically present,
// since an invalidated subtree must read as absent to callers.
func subtreeOrNil(isSubtree, skip bool, subtree *Node) *Node {
	if isSubtree && !skip {
		return subtree
	}
	return nil
}

// frameOccupant resolves what occupies a frame's slot: the sentinel
// root frame always reports the root itself as a subtree.
func (w *Walker) frameOccupant(f frame) (subtree *Node, isSubtree bool, leaf any, isLeaf bool) {
	if f.owner == nil {
		return w.root, true, nil, false
	}
	c := f.owner.Get(f.octant)
	switch {
	case c.IsSubtree():
		return c.Subtree(), true, nil, false
	case c.IsLeaf():
		return nil, false, c.Leaf(), true
	default:
		return nil, false, nil, false
	}
}

// frameBox returns the spatial extent of a frame's slot.
func (w *Walker) frameBox(f frame) space.Box {
	if f.owner == nil {
		return w.root.Box()
	}
	return childBox(f.owner.Box(), f.octant)
}

func childBox(parent space.Box, octant int) space.Box {
	off := space.ChildOffset(octant, parent.Size)
	return space.Box{Pos: geom.Add(parent.Pos, off), Size: parent.Size / 2}
}

// advanceWithinParent moves the ray to the next neighboring octant
// within top's own sibling group by slab-testing top's box against the
// walker's fixed direction. It updates w.pos and top in place and
// returns false when the ray exits top's parent entirely (signaling
// the caller to step back).
func (w *Walker) advanceWithinParent(top *frame, box space.Box) bool {
	if top.owner == nil {
		// the sentinel root frame has no siblings to move within.
		return false
	}
	aabb := boxToAABB(box)
	ray := geom.Ray{Start: w.pos, Dir: w.dir}
	_, exit, ok := aabb.Slab(ray)
	if !ok {
		return false
	}
	axis, sign := axisSignFromNormal(exit.Normal)
	neighbor, within := neighborOctant(top.octant, axis, sign)
	if !within {
		return false
	}
	w.pos = ray.At(exit.T)
	top.octant = neighbor
	top.returned = false
	top.steppedIn = false
	return true
}

// neighborOctant shifts octant's bit vector by one step along axis in
// the given sign direction. ok is false when the step leaves the
// parent's [0,1]^3 bit cube entirely.
func neighborOctant(octant, axis, sign int) (neighbor int, ok bool) {
	bx, by, bz := space.ChildBits(octant)
	bits := [3]int{bx, by, bz}
	bits[axis] += sign
	if bits[axis] < 0 || bits[axis] > 1 {
		return 0, false
	}
	return space.ChildIndex(bits[0], bits[1], bits[2]), true
}

// axisSignFromNormal extracts the single nonzero axis and its sign
// from a canonical face normal.
func axisSignFromNormal(n geom.Vector) (axis, sign int) {
	for i := 0; i < 3; i++ {
		v := n.At(i)
		if v > 0.5 {
			return i, 1
		}
		if v < -0.5 {
			return i, -1
		}
	}
	return 0, 1
}

// boxToAABB converts a cube space.Box into the geom.AABB representation
// the slab test operates on.
func boxToAABB(box space.Box) geom.AABB {
	half := box.Size / 2
	center := geom.Add(box.Pos, geom.New3(half, half, half))
	return geom.AABB{Center: center, Size: geom.New3(box.Size, box.Size, box.Size)}
}

// buildStackTo reconstructs the ancestor chain from root to tree as a
// depth stack, so the walker can step back out of an initial placement
// that started several levels deep.
func buildStackTo(tree *Node, octant int) []frame {
	chain := []*Node{}
	for cur := tree; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	stack := make([]frame, 0, len(chain))
	for idx, node := range chain {
		if idx == len(chain)-1 {
			stack = append(stack, frame{owner: node, octant: octant})
			continue
		}
		childNode := chain[idx+1]
		stack = append(stack, frame{owner: node, octant: childNode.IndexInParent()})
	}
	return stack
}
