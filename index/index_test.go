// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package index

import (
	"testing"

	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/octree"
	"github.com/racetrace/racetrace/scene"
	"github.com/racetrace/racetrace/space"
)

func unitRoot() *Tree {
	return NewEntityOctree(octree.Dim{Pos: geom.New3(0, 0, 0), Size: 1})
}

func TestAddEntityOddAlignment(t *testing.T) {
	tree := unitRoot()
	limits := Limits{MaxInDepth: 10, MaxOutDepth: 10}

	s1 := &scene.Sphere{Center: geom.New3(0.25, 0.25, 0.25), Diameter: 0.5, Sub: scene.Vacuum}
	node, err := tree.Add(s1, limits)
	if err != nil {
		t.Fatal(err)
	}
	if node.GetLevel() != 1 {
		t.Errorf("expected depth-1 node, got level %d", node.GetLevel())
	}
	if node.IndexInParent() != 0 {
		t.Errorf("expected octant 0, got %d", node.IndexInParent())
	}
	set := node.Value().(Set)
	if !set.Contains(s1) {
		t.Error("expected entity in the fitting node's set")
	}

	s2 := &scene.Sphere{Center: geom.New3(0.5, 0.25, 0.5), Diameter: 0.25, Sub: scene.Vacuum}
	node2, err := tree.Add(s2, limits)
	if err != nil {
		t.Fatal(err)
	}
	if node2 != tree.Root() {
		t.Errorf("expected straddling entity to stay at root, got level %d", node2.GetLevel())
	}
}

func TestOutsideGrowth(t *testing.T) {
	tree := unitRoot()
	limits := Limits{MaxInDepth: 10, MaxOutDepth: 10}

	// entity far outside the unit root at (0,0,0)-(1,1,1).
	s := &scene.Sphere{Center: geom.New3(10, 10, 10), Diameter: 0.1, Sub: scene.Vacuum}
	originalRoot := tree.Root()
	node, err := tree.Add(s, limits)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Root() == originalRoot {
		t.Error("expected root to be replaced by outside growth")
	}
	if !space.AABBIn(s.AABB(), node.Box()) {
		t.Error("fitting node should wholly contain the entity AABB")
	}
}

func TestOutsideGrowthExceeded(t *testing.T) {
	tree := unitRoot()
	s := &scene.Sphere{Center: geom.New3(1e9, 1e9, 1e9), Diameter: 0.1, Sub: scene.Vacuum}
	_, err := tree.Add(s, Limits{MaxInDepth: 10, MaxOutDepth: 2})
	if err == nil {
		t.Fatal("expected outside-growth-exceeded error")
	}
	if _, ok := err.(*ErrOutsideGrowthExceeded); !ok {
		t.Errorf("expected *ErrOutsideGrowthExceeded, got %T", err)
	}
}

func TestEntityAtPos(t *testing.T) {
	tree := unitRoot()
	limits := Limits{MaxInDepth: 10, MaxOutDepth: 10}
	s := &scene.Sphere{Center: geom.New3(0.25, 0.25, 0.25), Diameter: 0.5, Sub: scene.Vacuum}
	if _, err := tree.Add(s, limits); err != nil {
		t.Fatal(err)
	}
	got, ok := EntityAtPos(tree.Root(), geom.New3(0.25, 0.25, 0.25))
	if !ok || got != s {
		t.Errorf("expected to find s at its center, got %v, %v", got, ok)
	}
	if _, ok := EntityAtPos(tree.Root(), geom.New3(0.9, 0.9, 0.9)); ok {
		t.Error("expected no entity at an empty point")
	}
}

func TestEntityBelongsToExactlyOneSet(t *testing.T) {
	tree := unitRoot()
	limits := Limits{MaxInDepth: 10, MaxOutDepth: 10}
	s := &scene.Sphere{Center: geom.New3(0.25, 0.25, 0.25), Diameter: 0.5, Sub: scene.Vacuum}
	node, err := tree.Add(s, limits)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	var walk func(n *octree.Node)
	walk = func(n *octree.Node) {
		if set, ok := n.Value().(Set); ok && set.Contains(s) {
			count++
		}
		for i := 0; i < 8; i++ {
			if c := n.Get(i); c.IsSubtree() {
				walk(c.Subtree())
			}
		}
	}
	walk(tree.Root())
	if count != 1 {
		t.Errorf("expected entity in exactly one node's set, found in %d", count)
	}
	_ = node
}
