// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rng

import "testing"

func TestSeededSourceIsReproducible(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("sample %d diverged: %v != %v", i, x, y)
		}
	}
}

func TestNextStaysInUnitInterval(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		x := s.Next()
		if x < 0 || x >= 1 {
			t.Fatalf("sample %d out of [0,1): %v", i, x)
		}
	}
}

func TestDeriveProducesIndependentStream(t *testing.T) {
	s := New(1)
	d := s.Derive()
	same := true
	for i := 0; i < 20; i++ {
		if s.Next() != d.Next() {
			same = false
			break
		}
	}
	if same {
		t.Error("derived source should not track the parent stream")
	}
}
