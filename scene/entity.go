// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package scene defines the entities, materials, textures, and
// substances the ray tracer consumes, and the two concrete entity
// kinds the core ships a reference implementation for: spheres and
// axis-aligned cubes.
//
// Grounded in physics/shape.go's Sphere/Abox value types (geometry) and
// physics/collider.go's polymorphic-shape-behind-an-interface idiom,
// reworked from rigid-body collision response to ray collision.
package scene

import (
	"github.com/racetrace/racetrace/geom"
)

// Entity is anything the entity index can hold and the tracer can hit:
// position, bounding box, point containment, ray collision, UV
// mapping, and the substance it's made of.
type Entity interface {
	Pos() geom.Point
	AABB() geom.AABB
	IsWithin(p geom.Point) bool
	CollisionInfo(r geom.Ray) (Collision, bool)
	MapUV(p geom.Point) (u, v float64)
	Substance() Substance
}

// Collision is what CollisionInfo reports for a ray/entity hit.
type Collision struct {
	Point    geom.Point
	Material Material
	Texture  Texture
	Normal   geom.Vector
}

// Substance is the medium a ray currently travels through; it carries
// a refractive index and changes on transmission.
type Substance interface {
	RefractiveIndex() float64
}

// ResponseType classifies how a material responds to an incoming ray.
type ResponseType int

const (
	ResponseReflection ResponseType = iota
	ResponseTransmission
	ResponseBoth
)

// Material is the polymorphic surface-response capability set the
// tracer dispatches on.
type Material interface {
	ResponseType(p geom.Point) ResponseType
	IsMirror(p geom.Point) bool
	IsLightSource() bool
	RoughnessIndex() float64
	// AlterRay mutates ray color to reflect the hit; returns false if
	// the alteration could not be applied (e.g. degenerate UV).
	AlterRay(color *geom.Vector, tex Texture, u, v float64) bool
}

// Texture maps (u,v) in [0,1) to an RGB color sample (a 3D vector).
type Texture interface {
	GetColor(u, v float64) geom.Vector
}

// Sky maps a ray direction to a background color.
type Sky interface {
	GetColor(dir geom.Vector) geom.Vector
}
