// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

// Ray is a directed line: points on the ray are start + t*dir for
// t in R. Intersection parameters returned by the routines below are
// signed; forward-only callers filter t >= 0 themselves.
//
// Grounded in physics/caster.go's ray-plane and ray-sphere algebra,
// generalized from the fixed V3-based Body/Shape dispatch there to the
// plain value types this package works with.
type Ray struct {
	Start Point
	Dir   Vector
}

// At returns the point start + t*dir.
func (r Ray) At(t float64) Point { return Add(r.Start, Scale(r.Dir, t)) }

// Hit is one intersection: the ray parameter and the outward surface
// normal at that point.
type Hit struct {
	T      float64
	Normal Vector
}

// Plane is an infinite flat area described by its normal and a point
// that lies on it.
type Plane struct {
	Normal Vector
	Pos    Point
}

// Intersect returns the single intersection of r with p, if any. A ray
// parallel to the plane (dir.normal == 0) returns ok=false unless
// allowInfinity is set, in which case it returns t=+Inf. Neither the
// walker nor the tracer calls it; the walker steps with AABB.Slab.
func (p Plane) Intersect(r Ray, allowInfinity bool) (hit Hit, ok bool) {
	denom := Dot(r.Dir, p.Normal)
	if AeqZ(denom) {
		if allowInfinity {
			return Hit{T: posInf, Normal: p.Normal}, true
		}
		return Hit{}, false
	}
	diff := Sub(p.Pos, r.Start)
	t := Dot(diff, p.Normal) / denom
	return Hit{T: t, Normal: p.Normal}, true
}

// Sphere is centered at Center with the given radius.
type Sphere struct {
	Center Point
	Radius float64
}

// Intersect returns zero or two intersections of r with s, ordered
// near-then-far (smaller t first). Callers filter for t >= 0.
func (s Sphere) Intersect(r Ray) []Hit {
	oc := Sub(r.Start, s.Center)
	a := LengthSq(r.Dir)
	if a == 0 {
		return nil
	}
	b := 2 * Dot(oc, r.Dir)
	c := LengthSq(oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	normalAt := func(t float64) Vector { return Normalize(Sub(r.At(t), s.Center)) }
	return []Hit{{T: t0, Normal: normalAt(t0)}, {T: t1, Normal: normalAt(t1)}}
}

// AABB is an axis aligned bounding box: a center point plus a
// per-axis edge-length (size) vector, which makes non-cubic half-open
// spaces representable, as the octree walker requires. NewCube builds
// the cube case entities use.
type AABB struct {
	Center Point
	Size   Vector // full edge length per axis
}

// NewCube returns a cubic AABB, center plus a single edge length.
func NewCube(center Point, edge float64) AABB {
	if center.Dim() == 2 {
		return AABB{Center: center, Size: New2(edge, edge)}
	}
	return AABB{Center: center, Size: New3(edge, edge, edge)}
}

// faceNormals is the canonical face-id -> outward-normal table:
// 0/1 = -x/+x, 2/3 = -y/+y, 4/5 = -z/+z.
var faceNormals = [6]Vector{
	New3(-1, 0, 0), New3(1, 0, 0),
	New3(0, -1, 0), New3(0, 1, 0),
	New3(0, 0, -1), New3(0, 0, 1),
}

// FaceNormal returns the canonical outward normal for a slab face id
// (0..5, see faceNormals above).
func FaceNormal(face int) Vector { return faceNormals[face] }

// Slab intersects r with the AABB using the standard per-axis slab
// test: the three per-axis [t_lo, t_hi] intervals are intersected and
// the face ids of the surviving extrema become the entry/exit normals.
// Returns ok=false if the ray misses the box, including the classic
// "parallel to a slab, origin outside it" degenerate case.
func (box AABB) Slab(r Ray) (entry, exit Hit, ok bool) {
	tMin, tMax := negInf, posInf
	entryFace, exitFace := -1, -1

	for axis := 0; axis < box.Center.Dim(); axis++ {
		lo := box.Center.At(axis) - box.Size.At(axis)/2
		hi := box.Center.At(axis) + box.Size.At(axis)/2
		d := r.Dir.At(axis)
		o := r.Start.At(axis)

		negFace, posFace := 2*axis, 2*axis+1

		if AeqZ(d) {
			if o < lo || o > hi {
				return Hit{}, Hit{}, false
			}
			continue
		}

		t0 := (lo - o) / d
		t1 := (hi - o) / d
		f0, f1 := negFace, posFace
		if t0 > t1 {
			t0, t1 = t1, t0
			f0, f1 = f1, f0
		}
		if t0 > tMin {
			tMin, entryFace = t0, f0
		}
		if t1 < tMax {
			tMax, exitFace = t1, f1
		}
		if tMin > tMax {
			return Hit{}, Hit{}, false
		}
	}
	if entryFace < 0 || exitFace < 0 {
		return Hit{}, Hit{}, false
	}
	return Hit{T: tMin, Normal: FaceNormal(entryFace)},
		Hit{T: tMax, Normal: FaceNormal(exitFace)}, true
}
