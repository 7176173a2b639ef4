// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package buffer

import (
	"bytes"
	"testing"

	"github.com/racetrace/racetrace/geom"
)

func TestRunningMeanAccumulates(t *testing.T) {
	e := New(2, 2)
	e.SetColor(0, 0, geom.New3(1, 1, 1))
	e.SetColor(0, 0, geom.New3(0, 0, 0))
	got := e.mean(0, 0)
	want := geom.New3(0.5, 0.5, 0.5)
	if !got.Eq(want) {
		t.Errorf("running mean: got %v want %v", got, want)
	}
}

func TestUnsampledPixelIsBlack(t *testing.T) {
	e := New(2, 2)
	got := e.mean(1, 1)
	if !got.Eq(geom.New3(0, 0, 0)) {
		t.Errorf("unsampled pixel: got %v want black", got)
	}
}

func TestWritePNGProducesValidStream(t *testing.T) {
	e := New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			e.SetColor(x, y, geom.New3(0.5, 0.5, 0.5))
		}
	}
	var buf bytes.Buffer
	if err := e.WritePNG(&buf, 1); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty PNG output")
	}
	sig := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.Equal(buf.Bytes()[:4], sig) {
		t.Error("output does not start with a PNG signature")
	}
}

func TestSupersampleDownsamples(t *testing.T) {
	e := New(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			e.SetColor(x, y, geom.New3(1, 1, 1))
		}
	}
	img := e.Image(2)
	b := img.Bounds()
	if b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("expected 4x4 downsampled image, got %dx%d", b.Dx(), b.Dy())
	}
}
