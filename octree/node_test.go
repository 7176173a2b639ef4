// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package octree

import (
	"testing"

	"github.com/racetrace/racetrace/geom"
)

func newTestRoot() *Node {
	return NewRoot(Dim{Pos: geom.New3(0, 0, 0), Size: 8})
}

func TestNewSubtreeCanonicalDim(t *testing.T) {
	root := newTestRoot()
	child, err := root.NewSubtree(7)
	if err != nil {
		t.Fatal(err)
	}
	want := geom.New3(4, 4, 4)
	if !child.ID().Pos.Eq(want) {
		t.Errorf("child 7 pos: got %v want %v", child.ID().Pos, want)
	}
	if child.ID().Size != 4 {
		t.Errorf("child size: got %f want 4", child.ID().Size)
	}
	if child.IndexInParent() != 7 {
		t.Errorf("indexInParent: got %d want 7", child.IndexInParent())
	}
	if child.Parent() != root {
		t.Error("expected parent to be root")
	}
}

func TestNewSubtreeRejectsOccupiedSlot(t *testing.T) {
	root := newTestRoot()
	if _, err := root.NewSubtree(0); err != nil {
		t.Fatal(err)
	}
	if _, err := root.NewSubtree(0); err == nil {
		t.Error("expected error creating subtree over an occupied slot")
	}
}

func TestGetSetOutOfRangePanics(t *testing.T) {
	root := newTestRoot()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out-of-range index")
		} else if _, ok := r.(*IndexError); !ok {
			t.Errorf("expected *IndexError, got %T", r)
		}
	}()
	root.Get(8)
}

func TestGetRootAndLevel(t *testing.T) {
	root := newTestRoot()
	a, _ := root.NewSubtree(0)
	b, _ := a.NewSubtree(3)
	if b.GetRoot() != root {
		t.Error("GetRoot should resolve to the absolute root")
	}
	if got := b.GetLevel(); got != 2 {
		t.Errorf("GetLevel: got %d want 2", got)
	}
	if got := b.GetRelativeLevel(a); got != 1 {
		t.Errorf("GetRelativeLevel(a): got %d want 1", got)
	}
	if got := b.GetRelativeLevel(root); got != 2 {
		t.Errorf("GetRelativeLevel(root): got %d want 2", got)
	}
}

func TestGetRelativeLevelNotAncestor(t *testing.T) {
	root := newTestRoot()
	a, _ := root.NewSubtree(0)
	b, _ := root.NewSubtree(1)
	if got := a.GetRelativeLevel(b); got != -1 {
		t.Errorf("expected -1 for non-ancestor, got %d", got)
	}
}

func TestInvalidateRecursive(t *testing.T) {
	root := newTestRoot()
	a, _ := root.NewSubtree(0)
	b, _ := a.NewSubtree(0)
	root.Invalidate(true)
	if !a.IsInvalid() || !b.IsInvalid() {
		t.Error("expected recursive invalidation to reach grandchildren")
	}
}

func TestInvalidateNonRecursiveLeavesChildren(t *testing.T) {
	root := newTestRoot()
	a, _ := root.NewSubtree(0)
	root.Invalidate(false)
	if a.IsInvalid() {
		t.Error("non-recursive invalidate should not reach children")
	}
}

func TestSetReplacingSubtreeInvalidatesOld(t *testing.T) {
	root := newTestRoot()
	old, _ := root.NewSubtree(0)
	root.Set(0, Child{kind: kindLeaf, leaf: "replacement"})
	if !old.IsInvalid() {
		t.Error("expected replaced subtree to be invalidated")
	}
}

func TestNodeAtPosDescends(t *testing.T) {
	root := newTestRoot()
	a, _ := root.NewSubtree(7) // pos (4,4,4) size 4, covers [4,8)^3
	b, _ := a.NewSubtree(0)    // pos (4,4,4) size 2

	got, octant, ok := NodeAtPos(root, geom.New3(5, 5, 5))
	if !ok {
		t.Fatal("expected point to be found within root")
	}
	if got != b {
		t.Errorf("expected deepest subtree b, got node with box %v", got.Box())
	}
	// b covers [4,6)^3, so (5,5,5) sits in its upper octant on every axis.
	if octant != 7 {
		t.Errorf("expected octant 7 within b, got %d", octant)
	}
}

func TestNodeAtPosStopsAtEmptyOctant(t *testing.T) {
	root := newTestRoot()
	root.NewSubtree(0) // occupy octant 0 only
	got, octant, ok := NodeAtPos(root, geom.New3(7, 7, 7))
	if !ok {
		t.Fatal("expected point within root bounds")
	}
	if got != root {
		t.Errorf("expected to stop at root since octant 7 is empty, got %v", got.Box())
	}
	if octant != 7 {
		t.Errorf("expected octant 7, got %d", octant)
	}
}

func TestNodeAtPosOutsideRoot(t *testing.T) {
	root := newTestRoot()
	if _, _, ok := NodeAtPos(root, geom.New3(100, 100, 100)); ok {
		t.Error("expected point outside root to report false")
	}
}

func TestValuePayload(t *testing.T) {
	root := newTestRoot()
	old := root.SetValue([]int{1, 2, 3})
	if old != nil {
		t.Errorf("expected nil old value, got %v", old)
	}
	if v, ok := root.Value().([]int); !ok || len(v) != 3 {
		t.Errorf("unexpected value: %v", root.Value())
	}
}
