// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package space

import (
	"testing"

	"github.com/racetrace/racetrace/geom"
)

func TestPointInHalfOpen(t *testing.T) {
	box := Box{Pos: geom.New3(0, 0, 0), Size: 1}
	if !PointIn(geom.New3(0, 0, 0), box) {
		t.Error("origin should be in box (closed lower bound)")
	}
	if PointIn(geom.New3(1, 0, 0), box) {
		t.Error("upper bound should be exclusive (open)")
	}
	if !PointIn(geom.New3(0.999, 0.999, 0.999), box) {
		t.Error("just inside upper bound should be in box")
	}
}

func TestAABBInClosedBothEnds(t *testing.T) {
	box := Box{Pos: geom.New3(0, 0, 0), Size: 1}
	// an AABB whose far face exactly touches the box's upper bound
	// must still count as fitting (closed on both ends).
	inner := geom.AABB{Center: geom.New3(0.5, 0.5, 0.5), Size: geom.New3(1, 1, 1)}
	if !AABBIn(inner, box) {
		t.Error("AABB touching the box's far face should still fit")
	}
	outer := geom.AABB{Center: geom.New3(0.5, 0.5, 0.5), Size: geom.New3(1.1, 1, 1)}
	if AABBIn(outer, box) {
		t.Error("AABB exceeding the box should not fit")
	}
}

func TestOverlapVolume(t *testing.T) {
	a := geom.AABB{Center: geom.New3(0, 0, 0), Size: geom.New3(2, 2, 2)}
	b := geom.AABB{Center: geom.New3(1, 0, 0), Size: geom.New3(2, 2, 2)}
	if got := OverlapVolume(a, b); got <= 0 {
		t.Errorf("expected positive overlap, got %f", got)
	}
	c := geom.AABB{Center: geom.New3(10, 0, 0), Size: geom.New3(2, 2, 2)}
	if got := OverlapVolume(a, c); got != 0 {
		t.Errorf("expected zero overlap for disjoint boxes, got %f", got)
	}
}

func TestChildOffsetCanonical(t *testing.T) {
	cases := []struct {
		i          int
		bx, by, bz int
	}{
		{0, 0, 0, 0},
		{1, 1, 0, 0},
		{2, 0, 1, 0},
		{3, 1, 1, 0},
		{4, 0, 0, 1},
		{7, 1, 1, 1},
	}
	for _, c := range cases {
		off := ChildOffset(c.i, 1.0)
		want := geom.New3(float64(c.bx)*0.5, float64(c.by)*0.5, float64(c.bz)*0.5)
		if !off.Eq(want) {
			t.Errorf("ChildOffset(%d): got %v want %v", c.i, off, want)
		}
		if bx, by, bz := ChildBits(c.i); bx != c.bx || by != c.by || bz != c.bz {
			t.Errorf("ChildBits(%d): got (%d,%d,%d) want (%d,%d,%d)", c.i, bx, by, bz, c.bx, c.by, c.bz)
		}
		if got := ChildIndex(c.bx, c.by, c.bz); got != c.i {
			t.Errorf("ChildIndex(%d,%d,%d) = %d, want %d", c.bx, c.by, c.bz, got, c.i)
		}
	}
}
