// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command racetrace loads a YAML scene, renders it with the octree-
// accelerated path tracer, and writes a tone-mapped PNG.
//
// Grounded in eg/rt.go's rayTrace()/worker() whole-image dispatch: one
// worker goroutine per CPU (runtime.NumCPU), fed image rows over a channel,
// synchronized with a sync.WaitGroup - generalized here to dispatch
// whole *frames* rather than rows within one frame: a frame's tree must
// be frozen for the whole of its trace, but distinct frames against the
// same frozen tree may run concurrently (see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"sync"

	"github.com/racetrace/racetrace/buffer"
	"github.com/racetrace/racetrace/camera"
	cfgpkg "github.com/racetrace/racetrace/config"
	"github.com/racetrace/racetrace/geom"
	"github.com/racetrace/racetrace/index"
	"github.com/racetrace/racetrace/octree"
	"github.com/racetrace/racetrace/rng"
	"github.com/racetrace/racetrace/scene"
	"github.com/racetrace/racetrace/sky"
	"github.com/racetrace/racetrace/trace"
)

func main() {
	scenePath := flag.String("scene", "", "path to a YAML scene description")
	outPath := flag.String("out", "out.png", "output PNG path")
	width := flag.Int("width", 512, "image width in pixels")
	height := flag.Int("height", 512, "image height in pixels")
	samples := flag.Int("samples", 16, "samples per pixel per frame")
	frames := flag.Int("frames", 1, "accumulated exposure frames")
	refmax := flag.Int("refmax", 8, "per-ray bounce budget")
	seed := flag.Int64("seed", 0, "PRNG seed (0 = seed from current time)")
	supersample := flag.Int("supersample", 1, "box-filter downsample factor")
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "racetrace: -scene is required")
		os.Exit(2)
	}

	log := slog.Default()

	data, err := os.ReadFile(*scenePath)
	if err != nil {
		log.Error("racetrace: read scene", "err", err)
		os.Exit(1)
	}
	desc, err := scene.Load(data)
	if err != nil {
		log.Error("racetrace: load scene", "err", err)
		os.Exit(1)
	}

	cfg := cfgpkg.New(
		cfgpkg.Size(*width, *height),
		cfgpkg.Samples(*samples),
		cfgpkg.Frames(*frames),
		cfgpkg.RefMax(*refmax),
		cfgpkg.Seed(*seed),
		cfgpkg.Supersample(*supersample),
	)

	tree := index.NewEntityOctree(octree.Dim{Pos: geom.New3(-1, -1, -1), Size: 2})
	for _, e := range desc.Entities {
		if _, err := tree.Add(e, index.DefaultLimits); err != nil {
			log.Error("racetrace: add entity", "err", err)
			os.Exit(1)
		}
	}

	cam := camera.New(desc.Camera.Eye, desc.Camera.Target, desc.Camera.Up, cfg.Width, cfg.Height, desc.Camera.FOVDegrees*math.Pi/180)
	background := sky.NewGradient(desc.Sky.Horizon, desc.Sky.Zenith)
	source := rng.New(cfg.Seed)
	exposure := buffer.New(cfg.Width, cfg.Height)

	renderFrames(tree.Root(), background, cam, source, exposure, cfg, log)

	out, err := os.Create(*outPath)
	if err != nil {
		log.Error("racetrace: create output", "err", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := exposure.WritePNG(out, cfg.Supersample); err != nil {
		log.Error("racetrace: write png", "err", err)
		os.Exit(1)
	}
}

// renderFrames dispatches one worker goroutine per available processor,
// each pulling whole frame indices from a channel, rendering every
// pixel of that frame into a frame-local exposure buffer, and merging
// that buffer into the shared one with MergeFrom. The entity tree
// is read-only for the whole call and never mutated, so concurrent
// frame workers may safely share it.
func renderFrames(root *octree.Node, background scene.Sky, cam *camera.Camera, source *rng.Source, exposure *buffer.Exposure, cfg cfgpkg.Config, log *slog.Logger) {
	procs := runtime.NumCPU()
	frameIdx := make(chan int, cfg.Frames)
	var wg sync.WaitGroup
	wg.Add(procs)
	for w := 0; w < procs; w++ {
		workerSource := source.Derive()
		go func(src *rng.Source) {
			defer wg.Done()
			for range frameIdx {
				local := buffer.New(cfg.Width, cfg.Height)
				renderOneFrame(root, background, cam, src, local, cfg)
				exposure.MergeFrom(local)
			}
		}(workerSource)
	}
	for f := 0; f < cfg.Frames; f++ {
		frameIdx <- f
	}
	close(frameIdx)
	wg.Wait()
	log.Info("racetrace: render complete", "frames", cfg.Frames, "width", cfg.Width, "height", cfg.Height)
}

// renderOneFrame traces every pixel of the image once, accumulating
// SamplesPerPixel jittered rays per pixel into exposure.
func renderOneFrame(root *octree.Node, background scene.Sky, cam *camera.Camera, source *rng.Source, exposure *buffer.Exposure, cfg cfgpkg.Config) {
	tracer := trace.NewTracer(root, background, source, trace.Config{
		RefMax:          cfg.RefMax,
		Attenuation:     cfg.Attenuation,
		TransmitEpsilon: cfg.TransmitEpsilon,
	}, nil)
	cam.IterPixels(cfg.SamplesPerPixel, source, func(x, y int, dir geom.Vector) bool {
		color := tracer.TraceRay(cam.Eye, dir, scene.Vacuum)
		exposure.SetColor(x, y, color)
		return true
	})
}
