// Package render wires the sample space, worker pool, accumulator and colour
// mapper into one run.
package render

import (
	"fmt"
	"image"
	"slices"
	"time"

	fractal "github.com/lesguillemets/rgae"
	"github.com/lesguillemets/rgae/colour"
	"github.com/lesguillemets/rgae/dispatch"
	"github.com/lesguillemets/rgae/grid"
	"github.com/lesguillemets/rgae/iterate"
	"github.com/lesguillemets/rgae/sample"
)

// outcome is what a worker forwards to the accumulator for one sample.
type outcome struct {
	index    int
	n        int
	diverged bool
	orbit    []complex128
}

// RendererImpl renders configurations on the local CPUs.
type RendererImpl struct {
	// OnProgress receives the number of merged samples.
	OnProgress func(done, total int)

	// OnCheckpoint receives the live grid at most once per CheckpointEvery.
	// It runs on the merging goroutine and must not keep g.
	CheckpointEvery time.Duration
	OnCheckpoint    func(g *grid.Grid) error
}

// Accumulate runs every sample of cfg through the iterator and returns the completed grid.
func (r RendererImpl) Accumulate(cfg fractal.Config) (*grid.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	space, err := sample.ForConfig(cfg)
	if err != nil {
		return nil, err
	}

	acc := grid.NewAccumulator(cfg.View)
	pool := &dispatch.Pool[outcome]{
		Workers:         cfg.Workers,
		OnProgress:      r.OnProgress,
		CheckpointEvery: r.CheckpointEvery,
	}
	if r.OnCheckpoint != nil {
		pool.Checkpoint = func() error { return r.OnCheckpoint(acc.Grid()) }
	}

	newWorker := func() func(int) outcome {
		return func(i int) outcome {
			n, diverged := iterate.Escape(space.At(i).C, cfg.MaxIterations, cfg.Threshold)
			return outcome{index: i, n: n, diverged: diverged}
		}
	}
	merge := func(o outcome) error {
		if !o.diverged {
			return nil
		}
		return acc.SetEscape(o.index, o.n)
	}

	if cfg.Mode == fractal.OrbitDensity {
		newWorker = func() func(int) outcome {
			var scratch []complex128
			return func(i int) outcome {
				zs, diverged := iterate.Orbit(space.At(i).C, cfg.MaxIterations, cfg.Threshold, scratch)
				if !diverged {
					return outcome{index: i}
				}
				scratch = zs
				return outcome{index: i, diverged: true, orbit: slices.Clone(zs)}
			}
		}
		merge = func(o outcome) error {
			if !o.diverged {
				return nil
			}
			return acc.AddOrbit(o.orbit)
		}
	}

	if err := pool.Run(space.Len(), newWorker, merge); err != nil {
		return nil, fmt.Errorf("render %v: %w", cfg.Mode, err)
	}
	return acc.Grid(), nil
}

// Render implements fractal.Renderer.
func (r RendererImpl) Render(cfg fractal.Config) (*image.RGBA, error) {
	p, err := colour.ByName(cfg.Palette)
	if err != nil {
		return nil, err
	}
	g, err := r.Accumulate(cfg)
	if err != nil {
		return nil, err
	}
	return colour.Map(g, cfg.Transfer, p), nil
}

var _ fractal.Renderer = RendererImpl{}
