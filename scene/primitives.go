// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package scene

import (
	"math"

	"github.com/racetrace/racetrace/geom"
)

// Sphere is a sphere entity: center plus diameter.
type Sphere struct {
	Center   geom.Point
	Diameter float64
	Mat      Material
	Tex      Texture
	Sub      Substance
}

func (s *Sphere) Pos() geom.Point { return s.Center }

func (s *Sphere) AABB() geom.AABB {
	return geom.NewCube(s.Center, s.Diameter)
}

func (s *Sphere) IsWithin(p geom.Point) bool {
	r := s.Diameter / 2
	return geom.LengthSq(geom.Sub(p, s.Center)) <= r*r
}

func (s *Sphere) CollisionInfo(r geom.Ray) (Collision, bool) {
	hits := (geom.Sphere{Center: s.Center, Radius: s.Diameter / 2}).Intersect(r)
	for _, h := range hits {
		if h.T >= 0 {
			p := r.At(h.T)
			return Collision{Point: p, Material: s.Mat, Texture: s.Tex, Normal: h.Normal}, true
		}
	}
	return Collision{}, false
}

// MapUV uses a standard spherical (latitude/longitude) projection.
func (s *Sphere) MapUV(p geom.Point) (u, v float64) {
	d := geom.Normalize(geom.Sub(p, s.Center))
	u = 0.5 + math.Atan2(d.Z(), d.X())/(2*math.Pi)
	v = 0.5 - math.Asin(clampUnit(d.Y()))/math.Pi
	return u, v
}

func (s *Sphere) Substance() Substance { return s.Sub }

// Cube is an axis-aligned cube entity: center plus edge length.
type Cube struct {
	Center geom.Point
	Edge   float64
	Mat    Material
	Tex    Texture
	Sub    Substance
}

func (c *Cube) Pos() geom.Point { return c.Center }

func (c *Cube) AABB() geom.AABB {
	return geom.NewCube(c.Center, c.Edge)
}

func (c *Cube) IsWithin(p geom.Point) bool {
	half := c.Edge / 2
	for i := 0; i < 3; i++ {
		if math.Abs(p.At(i)-c.Center.At(i)) > half {
			return false
		}
	}
	return true
}

func (c *Cube) CollisionInfo(r geom.Ray) (Collision, bool) {
	box := geom.NewCube(c.Center, c.Edge)
	entry, _, ok := box.Slab(r)
	if !ok || entry.T < 0 {
		return Collision{}, false
	}
	p := r.At(entry.T)
	return Collision{Point: p, Material: c.Mat, Texture: c.Tex, Normal: entry.Normal}, true
}

// MapUV projects onto the face that was hit, using the two axes
// orthogonal to the face normal.
func (c *Cube) MapUV(p geom.Point) (u, v float64) {
	half := c.Edge / 2
	local := geom.Sub(p, c.Center)
	ax := dominantAxis(local)
	switch ax {
	case 0:
		return (local.Y()/half + 1) / 2, (local.Z()/half + 1) / 2
	case 1:
		return (local.X()/half + 1) / 2, (local.Z()/half + 1) / 2
	default:
		return (local.X()/half + 1) / 2, (local.Y()/half + 1) / 2
	}
}

func (c *Cube) Substance() Substance { return c.Sub }

func dominantAxis(v geom.Vector) int {
	best, bestMag := 0, math.Abs(v.X())
	if m := math.Abs(v.Y()); m > bestMag {
		best, bestMag = 1, m
	}
	if m := math.Abs(v.Z()); m > bestMag {
		best, bestMag = 2, m
	}
	return best
}

func clampUnit(x float64) float64 {
	return geom.Clamp(x, -1, 1)
}
