// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package sky implements scene.Sky: a background color as a function
// of ray direction.
//
// Grounded in eg/rt.go's sample() miss-high branch - a sky that
// lightens toward the horizon by raising (1-dir.z) to an even power -
// generalized from a single hardcoded tint into a two-color vertical
// gradient between a horizon and a zenith color.
package sky

import (
	"math"

	"github.com/racetrace/racetrace/geom"
)

// Gradient blends linearly from Horizon (dir.Y() == 0) to Zenith
// (dir.Y() == 1), using dir.Y() raised to Falloff as the blend weight -
// eg/rt.go's p = p*p*p*p idiom generalized to a configurable exponent.
type Gradient struct {
	Horizon geom.Vector
	Zenith  geom.Vector
	Falloff float64
}

// NewGradient creates a Gradient with the reference falloff (an even
// power of 4, i.e. p^4).
func NewGradient(horizon, zenith geom.Vector) Gradient {
	return Gradient{Horizon: horizon, Zenith: zenith, Falloff: 4}
}

// GetColor implements scene.Sky.
func (g Gradient) GetColor(dir geom.Vector) geom.Vector {
	up := dir.Y()
	if up < 0 {
		up = 0
	}
	w := math.Pow(up, g.Falloff)
	return geom.Add(geom.Scale(g.Horizon, 1-w), geom.Scale(g.Zenith, w))
}
