// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package buffer accumulates per-pixel exposure across frames and
// writes the tone-mapped result as a PNG.
//
// Grounded in load/png.go's image/png usage (decode side there, encode
// side here) and load/ttf.go's golang.org/x/image precedent, exercised
// here via a golang.org/x/image/draw box-filter kernel for
// supersampled renders.
package buffer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/racetrace/racetrace/geom"
)

// Exposure accumulates a running mean of per-pixel colors across
// frames, implementing the tracer's SetColor(x, y int, rgb geom.Vector)
// sink contract. SetColor is safe to call from a single
// goroutine that owns the buffer's pixel range; concurrent frame
// workers each accumulate into their own Exposure and fold the result
// in with MergeFrom. MergeFrom and Image (and so WritePNG) are the
// methods that lock.
type Exposure struct {
	mu            sync.Mutex
	width, height int
	sum           []geom.Vector // running sum, pre-division.
	count         []int         // samples accumulated per pixel.
}

// New creates an Exposure buffer of the given pixel dimensions.
func New(width, height int) *Exposure {
	n := width * height
	return &Exposure{
		width:  width,
		height: height,
		sum:    make([]geom.Vector, n),
		count:  make([]int, n),
	}
}

// SetColor accumulates one sample of rgb into pixel (x, y). The final
// pixel value is the running mean of every sample accumulated there -
// weight 1/(1+frameCount) per sample, matching a running-mean blend.
func (e *Exposure) SetColor(x, y int, rgb geom.Vector) {
	i := y*e.width + x
	if i < 0 || i >= len(e.sum) {
		return
	}
	e.sum[i] = geom.Add(e.sum[i], rgb)
	e.count[i]++
}

// MergeFrom folds other's accumulated sums and counts into e, for
// combining a worker's single-frame buffer into the shared result.
// Safe for concurrent callers merging into the same e.
func (e *Exposure) MergeFrom(other *Exposure) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.sum {
		e.sum[i] = geom.Add(e.sum[i], other.sum[i])
		e.count[i] += other.count[i]
	}
}

// mean returns the accumulated running-mean color at (x, y), or black
// if no sample has landed there yet.
func (e *Exposure) mean(x, y int) geom.Vector {
	i := y*e.width + x
	if e.count[i] == 0 {
		return geom.New3(0, 0, 0)
	}
	return geom.Scale(e.sum[i], 1/float64(e.count[i]))
}

// Image tone-maps the accumulated exposure into an *image.NRGBA using
// a simple Reinhard operator (c/(1+c)) followed by gamma 2.2, then
// downsamples by factor using a box filter if factor > 1.
func (e *Exposure) Image(factor int) *image.NRGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	full := image.NewNRGBA(image.Rect(0, 0, e.width, e.height))
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			full.SetNRGBA(x, y, toneMap(e.mean(x, y)))
		}
	}
	if factor <= 1 {
		return full
	}
	outW, outH := e.width/factor, e.height/factor
	if outW < 1 || outH < 1 {
		return full
	}
	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	// a constant kernel of support 0.5, which draw widens by the
	// downsample ratio: every source pixel under an output pixel gets
	// the same weight.
	box := &draw.Kernel{Support: 0.5, At: func(float64) float64 { return 1 }}
	box.Scale(out, out.Bounds(), full, full.Bounds(), draw.Over, nil)
	return out
}

// WritePNG tone-maps and writes the accumulated exposure to w.
func (e *Exposure) WritePNG(w io.Writer, factor int) error {
	if err := png.Encode(w, e.Image(factor)); err != nil {
		return fmt.Errorf("buffer: encode png: %w", err)
	}
	return nil
}

// toneMap applies Reinhard tone mapping and gamma 2.2 to one linear
// color, clamping to [0,255] per channel.
func toneMap(c geom.Vector) color.NRGBA {
	return color.NRGBA{
		R: toByte(c.X()),
		G: toByte(c.Y()),
		B: toByte(c.Z()),
		A: 255,
	}
}

func toByte(linear float64) uint8 {
	if linear < 0 {
		linear = 0
	}
	mapped := linear / (1 + linear)
	gamma := math.Pow(mapped, 1/2.2)
	v := gamma * 255
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
