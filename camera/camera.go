// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package camera derives a per-pixel ray direction from an eye point, a
// facing direction, and an image size, streaming (x, y, dir) lazily.
//
// Grounded in camera.go's Ray(mx, my, ww, wh) idiom (deriving a world
// space ray from screen coordinates) generalized from a single
// mouse-pick ray to one ray per image pixel, and in eg/rt.go's
// rayTrace()'s a/b/c basis-vector setup (forward, up, right scaled by a
// fixed pixel pitch) which this package's New reproduces.
package camera

import (
	"math"

	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/rng"
)

// Camera holds the eye point and the orthonormal basis (forward, up,
// right) used to derive a ray direction for any pixel.
type Camera struct {
	Eye     geom.Point
	Forward geom.Vector
	Up      geom.Vector
	Right   geom.Vector

	Width, Height int
	FOV           float64 // vertical field of view, in radians.
}

// New builds a Camera looking from eye toward target, with the given
// image size and vertical field of view in radians. world is the
// scene's up vector (usually (0,1,0)); it need not be orthogonal to
// forward.
func New(eye, target geom.Point, world geom.Vector, width, height int, fov float64) *Camera {
	forward := geom.Normalize(geom.Sub(target, eye))
	right := geom.Normalize(geom.Cross3(forward, world))
	up := geom.Cross3(right, forward)
	return &Camera{Eye: eye, Forward: forward, Up: up, Right: right, Width: width, Height: height, FOV: fov}
}

// Pixel is one stream element from IterPixels: the integer pixel
// coordinate and the world-space ray direction through it.
type Pixel struct {
	X, Y int
	Dir  geom.Vector
}

// RayFor derives the unit ray direction through pixel (x, y), adding
// (jx, jy) sub-pixel jitter in [0,1) for stochastic antialiasing - the
// eg/rt.go rnda/rndb per-sample jitter idiom.
func (c *Camera) RayFor(x, y int, jx, jy float64) geom.Vector {
	aspect := float64(c.Width) / float64(c.Height)
	halfHeight := math.Tan(c.FOV / 2)
	halfWidth := aspect * halfHeight

	// normalized device coords in [-1,1], Y flipped so row 0 is the top.
	px := (2*(float64(x)+jx)/float64(c.Width) - 1) * halfWidth
	py := (1 - 2*(float64(y)+jy)/float64(c.Height)) * halfHeight

	dir := geom.Add(c.Forward, geom.Add(geom.Scale(c.Right, px), geom.Scale(c.Up, py)))
	return geom.Normalize(dir)
}

// IterPixels streams every (x, y, dir) for one sample pass over the
// image, calling fn for each. samplesPerPixel controls how many
// jittered rays are produced per pixel (1 disables jitter and samples
// the pixel center). Iteration stops early if fn returns false.
func (c *Camera) IterPixels(samplesPerPixel int, source *rng.Source, fn func(x, y int, dir geom.Vector) bool) {
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			for s := 0; s < samplesPerPixel; s++ {
				jx, jy := 0.5, 0.5
				if samplesPerPixel > 1 {
					jx, jy = source.Next(), source.Next()
				}
				if !fn(x, y, c.RayFor(x, y, jx, jy)) {
					return
				}
			}
		}
	}
}
