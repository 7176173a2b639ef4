// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package config reduces the render-driver API footprint using
// functional options.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis
package config

// Config contains the attributes that control one invocation of the
// tracer: image size, sampling budget, and the PRNG seed.
type Config struct {
	Width, Height int // output image size in pixels.

	SamplesPerPixel int // stochastic samples per pixel per frame.
	Frames          int // accumulated frames (exposure passes).
	RefMax          int // bounce budget per ray.

	Attenuation     float64 // inverse-square light attenuation coefficient.
	TransmitEpsilon float64 // epsilon nudge past a transmissive surface.

	Seed int64 // PRNG seed; 0 means "seed from the current time".

	Supersample int // box-filter downsample factor, 1 disables it.
}

// defaultConfig provides reasonable defaults so a render runs even if
// no attributes are set.
var defaultConfig = Config{
	Width:           512,
	Height:          512,
	SamplesPerPixel: 16,
	Frames:          1,
	RefMax:          8,
	Attenuation:     1,
	TransmitEpsilon: 1e-4,
	Seed:            0,
	Supersample:     1,
}

// Attr defines an optional configuration override.
//
//	cfg := config.New(
//	    config.Size(800, 600),
//	    config.Samples(64),
//	    config.Seed(42),
//	)
type Attr func(*Config)

// New builds a Config from defaultConfig plus the given overrides.
func New(attrs ...Attr) Config {
	c := defaultConfig
	for _, attr := range attrs {
		attr(&c)
	}
	return c
}

// Size sets the output image dimensions in pixels.
func Size(w, h int) Attr {
	return func(c *Config) {
		if w > 0 && w < 100_000 {
			c.Width = w
		}
		if h > 0 && h < 100_000 {
			c.Height = h
		}
	}
}

// Samples sets the number of stochastic samples traced per pixel.
func Samples(n int) Attr {
	return func(c *Config) {
		if n > 0 {
			c.SamplesPerPixel = n
		}
	}
}

// Frames sets the number of accumulated exposure frames.
func Frames(n int) Attr {
	return func(c *Config) {
		if n > 0 {
			c.Frames = n
		}
	}
}

// RefMax sets the per-ray bounce budget.
func RefMax(n int) Attr {
	return func(c *Config) {
		if n >= 0 {
			c.RefMax = n
		}
	}
}

// Attenuation sets the inverse-square light attenuation coefficient.
func Attenuation(a float64) Attr {
	return func(c *Config) {
		if a >= 0 {
			c.Attenuation = a
		}
	}
}

// Seed sets the PRNG seed. A zero seed means "seed from the current
// time" (see package rng).
func Seed(s int64) Attr {
	return func(c *Config) { c.Seed = s }
}

// Supersample sets the box-filter downsample factor.
func Supersample(n int) Attr {
	return func(c *Config) {
		if n >= 1 {
			c.Supersample = n
		}
	}
}
