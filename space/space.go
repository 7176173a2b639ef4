// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package space provides the half-open point/box membership tests and
// octant geometry shared by the octree node, walker, and entity index.
// There is exactly one bit-mapping between octant index and spatial
// direction in the whole system, defined here as ChildOffset.
//
// Grounded in physics/shape.go's Abox.Overlaps (closed-interval overlap
// test) generalized to the closed-open convention the octree needs so
// that octant membership is unambiguous at shared boundaries.
package space

import "github.com/racetrace/racetrace/geom"

// Box is a node's spatial extent: pos is the vertex adjacent to child
// 0, size is the edge length along every axis (octree nodes are always
// cubes).
type Box struct {
	Pos  geom.Point
	Size float64
}

// PointIn reports whether p lies in box under the closed-open
// convention: pos[i] <= p[i] < pos[i]+size on every axis. The half-open
// upper bound makes octant membership unambiguous at shared faces -
// callers that need "exactly at the exit face" must offset themselves.
func PointIn(p geom.Point, box Box) bool {
	dim := box.Pos.Dim()
	for i := 0; i < dim; i++ {
		lo := box.Pos.At(i)
		hi := lo + box.Size
		if p.At(i) < lo || p.At(i) >= hi {
			return false
		}
	}
	return true
}

// AABBIn reports whether the AABB inner is fully contained within box,
// closed on both ends of box's upper bound (tree growth needs an AABB
// that exactly touches a child's far face to still count as fitting).
func AABBIn(inner geom.AABB, box Box) bool {
	dim := inner.Center.Dim()
	for i := 0; i < dim; i++ {
		innerLo := inner.Center.At(i) - inner.Size.At(i)/2
		innerHi := inner.Center.At(i) + inner.Size.At(i)/2
		boxLo := box.Pos.At(i)
		boxHi := boxLo + box.Size
		if innerLo < boxLo || innerHi > boxHi {
			return false
		}
	}
	return true
}

// OverlapVolume returns the product of the clamped per-axis overlap of
// two AABBs - zero if they don't overlap on some axis.
func OverlapVolume(a, b geom.AABB) float64 {
	dim := a.Center.Dim()
	volume := 1.0
	for i := 0; i < dim; i++ {
		aLo, aHi := a.Center.At(i)-a.Size.At(i)/2, a.Center.At(i)+a.Size.At(i)/2
		bLo, bHi := b.Center.At(i)-b.Size.At(i)/2, b.Center.At(i)+b.Size.At(i)/2
		lo, hi := max(aLo, bLo), min(aHi, bHi)
		overlap := hi - lo
		if overlap < 0 {
			return 0
		}
		volume *= overlap
	}
	return volume
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// NumChildren is the fixed octree fan-out: one child per octant.
const NumChildren = 8

// ChildOffset returns the canonical unit offset of child i within a
// parent of the given size: child i is placed at
// ((i&1), (i>>1)&1, (i>>2)&1) * size/2. This is the only bit-mapping
// between octant index and spatial direction used anywhere in the
// system.
func ChildOffset(i int, size float64) geom.Vector {
	half := size / 2
	bx, by, bz := ChildBits(i)
	return geom.New3(float64(bx)*half, float64(by)*half, float64(bz)*half)
}

// ChildBits decomposes an octant index back into its per-axis bit
// vector (bx, by, bz) each in {0,1} - the inverse of ChildIndex's
// packing bz<<2 | by<<1 | bx.
func ChildBits(i int) (bx, by, bz int) {
	return i & 1, (i >> 1) & 1, (i >> 2) & 1
}

// ChildIndex packs a per-axis bit vector back into an octant index.
func ChildIndex(bx, by, bz int) int {
	return (bz << 2) | (by << 1) | bx
}
