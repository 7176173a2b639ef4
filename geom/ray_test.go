// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

import "testing"

func TestSphereIntersectOrdered(t *testing.T) {
	s := Sphere{Center: New3(0, 0, 0), Radius: 1}
	r := Ray{Start: New3(-5, 0, 0), Dir: New3(1, 0, 0)}
	hits := s.Intersect(r)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].T > hits[1].T {
		t.Errorf("expected near-then-far ordering, got %v", hits)
	}
	if !Aeq(hits[0].T, 4) || !Aeq(hits[1].T, 6) {
		t.Errorf("unexpected hit distances: %v", hits)
	}
}

func TestSphereMiss(t *testing.T) {
	s := Sphere{Center: New3(0, 10, 0), Radius: 1}
	r := Ray{Start: New3(-5, 0, 0), Dir: New3(1, 0, 0)}
	if hits := s.Intersect(r); hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
}

func TestAABBSlabEntryExit(t *testing.T) {
	box := AABB{Center: New3(0, 0, 0), Size: New3(2, 2, 2)} // [-1,1]^3
	r := Ray{Start: New3(-5, 0, 0), Dir: New3(1, 0, 0)}
	entry, exit, ok := box.Slab(r)
	if !ok {
		t.Fatal("expected hit")
	}
	if !Aeq(entry.T, 4) || !Aeq(exit.T, 6) {
		t.Errorf("unexpected entry/exit t: %v %v", entry, exit)
	}
	if !entry.Normal.Eq(New3(-1, 0, 0)) {
		t.Errorf("expected entry normal -x, got %v", entry.Normal)
	}
	if !exit.Normal.Eq(New3(1, 0, 0)) {
		t.Errorf("expected exit normal +x, got %v", exit.Normal)
	}
}

func TestAABBSlabParallelMiss(t *testing.T) {
	box := AABB{Center: New3(0, 0, 0), Size: New3(2, 2, 2)}
	r := Ray{Start: New3(-5, 5, 0), Dir: New3(1, 0, 0)} // parallel to y/z slabs, outside on y
	if _, _, ok := box.Slab(r); ok {
		t.Error("expected miss for parallel ray outside slab")
	}
}

func TestAABBSlabDiagonal(t *testing.T) {
	box := AABB{Center: New3(0, 0, 0), Size: New3(2, 2, 2)}
	r := Ray{Start: New3(-5, -5, -5), Dir: Normalize(New3(1, 1, 1))}
	entry, exit, ok := box.Slab(r)
	if !ok {
		t.Fatal("expected hit")
	}
	if entry.T >= exit.T {
		t.Errorf("entry should precede exit: %v %v", entry, exit)
	}
}

func TestPlaneIntersect(t *testing.T) {
	p := Plane{Normal: New3(0, 1, 0), Pos: New3(0, 0, 0)}
	r := Ray{Start: New3(0, 5, 0), Dir: New3(0, -1, 0)}
	hit, ok := p.Intersect(r, false)
	if !ok {
		t.Fatal("expected hit")
	}
	if !Aeq(hit.T, 5) {
		t.Errorf("expected t=5, got %f", hit.T)
	}
}

func TestPlaneParallelMiss(t *testing.T) {
	p := Plane{Normal: New3(0, 1, 0), Pos: New3(0, 0, 0)}
	r := Ray{Start: New3(0, 5, 0), Dir: New3(1, 0, 0)}
	if _, ok := p.Intersect(r, false); ok {
		t.Error("expected no intersection for parallel ray")
	}
}

func TestNewCube(t *testing.T) {
	c := NewCube(New3(1, 2, 3), 4)
	if c.Size.X() != 4 || c.Size.Y() != 4 || c.Size.Z() != 4 {
		t.Errorf("expected uniform edge size, got %v", c.Size)
	}
}
