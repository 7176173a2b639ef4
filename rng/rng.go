// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package rng wraps math/rand as the tracer's PRNG source, following
// the house pattern of land/noise.go's seedable generator and
// eg/rt.go's per-worker rand.Uint32 seeding.
package rng

import (
	"math/rand"
	"time"
)

// Source is a seedable stream of reals in [0,1), satisfying
// trace.Sampler and geom's internal sampler contract.
type Source struct {
	seed   int64
	random *rand.Rand
}

// New creates a Source from seed. Use 0 to seed from the current time,
// useful for reproducible renders when a nonzero seed is supplied.
func New(seed int64) *Source {
	s := &Source{seed: seed}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	s.random = rand.New(rand.NewSource(s.seed))
	return s
}

// Seed reports the seed this source was created with.
func (s *Source) Seed() int64 { return s.seed }

// Next returns the next pseudo-random real in [0,1).
func (s *Source) Next() float64 { return s.random.Float64() }

// Derive creates an independent Source for a parallel worker, seeded
// from this source's stream - mirrors eg/rt.go's rand.Uint32()-per-
// worker idiom so concurrent frame workers don't share one *rand.Rand.
func (s *Source) Derive() *Source {
	return New(int64(s.random.Uint64()))
}
