// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

import "testing"

func TestRefractRoundTrip(t *testing.T) {
	n := New3(0, 1, 0)
	dir := Normalize(New3(0.3, -1, 0))
	refracted, ok := Refract(dir, n, 1.0, 1.5)
	if !ok {
		t.Fatal("expected refraction, not TIR")
	}
	// reverse through the same interface: send the refracted ray back
	// the way it came, flip the normal to face the new medium, swap the
	// indices. The result is the incoming direction, reversed.
	back, ok := Refract(Negate(refracted), Negate(n), 1.5, 1.0)
	if !ok {
		t.Fatal("expected reverse refraction, not TIR")
	}
	if !Negate(back).Eq(dir) {
		t.Errorf("refract round trip: got %v want %v", Negate(back), dir)
	}
}

func TestRefractTotalInternalReflection(t *testing.T) {
	n := New3(0, 1, 0)
	// steep grazing angle from dense to sparse medium triggers TIR.
	dir := Normalize(New3(0.99, -0.1, 0))
	if _, ok := Refract(dir, n, 1.5, 1.0); ok {
		t.Error("expected total internal reflection")
	}
}
