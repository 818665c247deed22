// Package sample enumerates the seeds fed to the iterator.
//
// A Space is indexable so that the dispatcher can hand worker j every sample
// whose index is congruent to j modulo the worker count.
package sample

import (
	"fmt"
	"math"
	"math/rand"

	fractal "github.com/lesguillemets/rgae"
)

// Sample is one seed of the quadratic map.
type Sample struct {
	C complex128
	// Random is set for seeds drawn from a random source rather than a pixel.
	Random bool
}

// Space is a finite, indexable sequence of samples.
type Space interface {
	Len() int
	At(i int) Sample
}

// Pixels yields one sample per pixel of a viewport in row-major order.
// It holds no state, so it can be enumerated any number of times.
type Pixels struct {
	View fractal.Viewport
}

func (p Pixels) Len() int { return p.View.Pixels() }

func (p Pixels) At(i int) Sample { return Sample{C: p.View.Point(i)} }

// Seeds is a pre-drawn sequence of random seeds.
type Seeds []complex128

func (s Seeds) Len() int { return len(s) }

func (s Seeds) At(i int) Sample { return Sample{C: s[i], Random: true} }

// Drawer draws random seeds from a generator it owns. It is not safe for concurrent use.
type Drawer struct {
	rng  *rand.Rand
	dist fractal.Distribution
	view fractal.Viewport
	r    float64
}

// NewDrawer returns a Drawer seeded with seed. view bounds the Rectangle
// distribution; radius bounds the Polar one.
func NewDrawer(seed int64, dist fractal.Distribution, view fractal.Viewport, radius float64) *Drawer {
	return &Drawer{
		rng:  rand.New(rand.NewSource(seed)),
		dist: dist,
		view: view,
		r:    radius,
	}
}

// Next draws one seed.
func (d *Drawer) Next() complex128 {
	switch d.dist {
	case fractal.Polar:
		theta := math.Pi * d.rng.Float64()
		r := d.r * d.rng.Float64()
		return complex(r*math.Cos(theta), r*math.Sin(theta))
	default:
		re := d.view.Left + d.view.Width*d.rng.Float64()
		im := d.view.Top + d.view.Height*d.rng.Float64()
		return complex(re, im)
	}
}

// Draw draws n seeds.
func (d *Drawer) Draw(n int) Seeds {
	s := make(Seeds, n)
	for i := range s {
		s[i] = d.Next()
	}
	return s
}

// ForConfig returns the sample space for cfg's mode.
func ForConfig(cfg fractal.Config) (Space, error) {
	switch cfg.Mode {
	case fractal.EscapeTime:
		return Pixels{View: cfg.View}, nil
	case fractal.OrbitDensity:
		return NewDrawer(cfg.Seed, cfg.Distribution, cfg.View, cfg.PolarRadius).Draw(cfg.Samples), nil
	}
	return nil, fmt.Errorf("%w: mode %v", fractal.ErrInvalidConfig, cfg.Mode)
}
