// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package trace implements the per-ray state machine and the frame
// loop that drives the octree walker.
//
// Grounded in eg/rt.go's sample/trace split (sample accumulates color
// across bounces, trace resolves one hit) and physics/caster.go's
// cast-dispatch idiom, reworked from a single flat sphere-list scene
// into the octree-indexed entity lookup this package drives through
// package octree and package index.
package trace

import (
	"log/slog"

	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/index"
	"github.com/racetrace/racetrace/octree"
	"github.com/racetrace/racetrace/scene"
)

// White and Black are the ray color extremes used at the start of a
// trace and on termination-by-absorption.
var (
	White = geom.New3(1, 1, 1)
	Black = geom.New3(0, 0, 0)
)

// Sampler is the PRNG capability the tracer needs - satisfied by
// package rng.
type Sampler interface {
	Next() float64
}

// SubstanceResolver resolves the substance a ray enters after crossing
// a transmissive surface at p - typically index.EntityAtPos against the
// scene's entity index, falling back to an ambient default when no
// entity is found there.
type SubstanceResolver func(p geom.Point, current scene.Substance) scene.Substance

// Config bounds and tunes a trace: the bounce budget and the inverse-
// square light attenuation coefficient.
type Config struct {
	RefMax          int
	Attenuation     float64
	TransmitEpsilon float64
}

// DefaultConfig matches the reference design's defaults.
var DefaultConfig = Config{RefMax: 8, Attenuation: 1, TransmitEpsilon: 1e-4}

// Tracer owns the entity index root, the sky, and the PRNG for one
// frame's worth of tracing. The entity index must not be mutated while
// a Tracer is in use - see DESIGN.md on the concurrency model.
type Tracer struct {
	Root              *octree.Node
	Sky               scene.Sky
	RNG               Sampler
	Config            Config
	Log               *slog.Logger
	SubstanceResolver SubstanceResolver
}

// NewTracer creates a tracer over root, using cfg and the given sky and
// RNG. A nil logger defaults to slog.Default(). The substance resolver
// defaults to index.EntityAtPos against root, falling back to the ray's
// current substance when no entity covers the point.
func NewTracer(root *octree.Node, sky scene.Sky, rng Sampler, cfg Config, log *slog.Logger) *Tracer {
	if log == nil {
		log = slog.Default()
	}
	t := &Tracer{Root: root, Sky: sky, RNG: rng, Config: cfg, Log: log}
	t.SubstanceResolver = func(p geom.Point, current scene.Substance) scene.Substance {
		if e, ok := index.EntityAtPos(t.Root, p); ok {
			return e.Substance()
		}
		return current
	}
	return t
}

// hit bundles a selected collision with the entity and distance it was
// found at, for nearest-forward-hit selection within one octant.
type hit struct {
	entity scene.Entity
	col    scene.Collision
	dist   float64
}

// TraceRay evolves one ray from start in direction dir, starting in
// substance sub, through the travelling/evaluating-hit/reflecting/
// refracting/done state machine, and returns its final color.
func (t *Tracer) TraceRay(start geom.Point, dir geom.Vector, sub scene.Substance) geom.Vector {
	if geom.IsZero(dir) {
		t.Log.Warn("trace: zero ray direction")
		return Black
	}

	color := White
	refcount := 0
	pathDistance := 0.0
	refpoint := start
	substance := sub

	walker := octree.NewWalker(t.Root)
	if err := walker.SetPosAndDir(refpoint, dir, nil); err != nil {
		t.Log.Warn("trace: could not seat walker", "err", err)
		return Black
	}

	lightHit := false
travelling:
	for {
		stop, ok := walker.Next()
		if !ok {
			break
		}
		if stop.Node == nil {
			continue
		}
		set, ok := stop.Node.Value().(index.Set)
		if !ok || len(set) == 0 {
			continue
		}
		best, found := nearestForwardHit(set, refpoint, dir)
		if !found {
			continue
		}

		if geom.Dot(dir, best.col.Normal) >= 0 {
			t.Log.Warn("trace: degenerate hit normal, terminating ray")
			return Black
		}

		refcount++
		mat := best.col.Material
		u, v := best.entity.MapUV(best.col.Point)
		if mat != nil {
			mat.AlterRay(&color, best.col.Texture, u, v)
		}
		pathDistance += geom.Length(geom.Sub(best.col.Point, refpoint))
		refpoint = best.col.Point

		if mat != nil && mat.IsLightSource() {
			lightHit = true
			break travelling
		}

		var done bool
		dir, substance, done = t.respond(mat, best.col, dir, substance)
		if done {
			return Black
		}

		if refcount >= t.Config.RefMax {
			color = Black
			break travelling
		}

		startNode, _, _ := octree.NodeAtPos(t.Root, refpoint)
		if err := walker.SetPosAndDir(refpoint, dir, startNode); err != nil {
			t.Log.Warn("trace: could not reseat walker", "err", err)
			return Black
		}
	}

	switch {
	case lightHit:
		d := t.Config.Attenuation * pathDistance
		atten := 1 / (t.Config.TransmitEpsilon + d*d)
		return geom.Scale(color, atten)
	case color.Eq(Black):
		return color
	default:
		return geom.Hadamard(color, t.Sky.GetColor(dir))
	}
}

// respond dispatches the reflect/refract/absorb decision for one hit.
// done=true means the ray is absorbed (terminated black) right here.
func (t *Tracer) respond(mat scene.Material, col scene.Collision, dir geom.Vector, substance scene.Substance) (newDir geom.Vector, newSub scene.Substance, done bool) {
	if mat == nil {
		return dir, substance, true
	}
	switch mat.ResponseType(col.Point) {
	case scene.ResponseTransmission:
		return t.refract(dir, col, substance)
	case scene.ResponseBoth:
		if mat.IsMirror(col.Point) {
			return t.reflect(mat, dir, col), substance, false
		}
		return t.refract(dir, col, substance)
	default: // ResponseReflection
		if !mat.IsMirror(col.Point) {
			// non-mirror reflection has no scattering model yet and is
			// treated as absorption (see DESIGN.md).
			return dir, substance, true
		}
		return t.reflect(mat, dir, col), substance, false
	}
}

func (t *Tracer) reflect(mat scene.Material, dir geom.Vector, col scene.Collision) geom.Vector {
	reflected := geom.Reflect(dir, col.Normal)
	rough := mat.RoughnessIndex()
	if rough <= 0 {
		return reflected
	}
	sample := geom.IsotropicSphereSample(t.RNG)
	if geom.Dot(sample, col.Normal) < 0 {
		sample = geom.Negate(sample)
	}
	blended := geom.Add(geom.Scale(reflected, 1-rough), geom.Scale(sample, rough))
	return geom.Normalize(blended)
}

func (t *Tracer) refract(dir geom.Vector, col scene.Collision, substance scene.Substance) (geom.Vector, scene.Substance, bool) {
	nudged := geom.Add(col.Point, geom.Scale(dir, t.Config.TransmitEpsilon))
	nextSub := t.SubstanceResolver(nudged, substance)
	refracted, ok := geom.Refract(dir, col.Normal, substance.RefractiveIndex(), nextSub.RefractiveIndex())
	if !ok {
		// total internal reflection.
		return geom.Reflect(dir, col.Normal), substance, false
	}
	return refracted, nextSub, false
}

// nearestForwardHit scans an octant's entity set and selects the
// nearest hit with t >= 0. An octant's entity set is unordered, so this
// is the deterministic tiebreak for more than one candidate hit within
// the same octant (see DESIGN.md).
func nearestForwardHit(set index.Set, refpoint geom.Point, dir geom.Vector) (hit, bool) {
	var best hit
	found := false
	set.Each(func(e scene.Entity) bool {
		col, ok := e.CollisionInfo(geom.Ray{Start: refpoint, Dir: dir})
		if !ok {
			return true
		}
		delta := geom.Sub(col.Point, refpoint)
		if geom.Dot(delta, dir) < 0 {
			return true // behind the ray origin.
		}
		dist := geom.Length(delta)
		if !found || dist < best.dist {
			best = hit{entity: e, col: col, dist: dist}
			found = true
		}
		return true
	})
	return best, found
}
