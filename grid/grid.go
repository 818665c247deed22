// Package grid holds the pixel counters shared by a run and the single
// accumulator that mutates them.
package grid

import (
	"fmt"

	fractal "github.com/lesguillemets/rgae"
)

// Grid is a row-major array of per-pixel counters.
type Grid struct {
	Width, Height int
	Cells         []uint32
}

// New allocates a zero-filled w x h grid.
func New(w, h int) *Grid {
	return &Grid{Width: w, Height: h, Cells: make([]uint32, w*h)}
}

// At returns the counter of pixel (x, y).
func (g *Grid) At(x, y int) uint32 { return g.Cells[x+y*g.Width] }

// Max returns the largest counter, 0 for an empty grid.
func (g *Grid) Max() uint32 {
	var m uint32
	for _, v := range g.Cells {
		m = max(m, v)
	}
	return m
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := *g
	c.Cells = append([]uint32(nil), g.Cells...)
	return &c
}

// Equal reports whether g and o have the same size and counters.
func (g *Grid) Equal(o *Grid) bool {
	if g.Width != o.Width || g.Height != o.Height || len(g.Cells) != len(o.Cells) {
		return false
	}
	for i, v := range g.Cells {
		if o.Cells[i] != v {
			return false
		}
	}
	return true
}

// Accumulator applies iterator outcomes to its grid.
// It is not safe for concurrent use: one goroutine must own it for the whole run.
type Accumulator struct {
	view fractal.Viewport
	g    *Grid
}

// NewAccumulator allocates a zero grid for view.
func NewAccumulator(view fractal.Viewport) *Accumulator {
	return &Accumulator{view: view, g: New(view.ImgWidth, view.ImgHeight)}
}

// Grid returns the live grid. Callers must not modify it while the run is in progress.
func (a *Accumulator) Grid() *Grid { return a.g }

// SetEscape records that the sample of pixel idx diverged at step n.
// Bounded samples are never passed here: their cell keeps the sentinel 0.
func (a *Accumulator) SetEscape(idx, n int) error {
	if idx < 0 || idx >= len(a.g.Cells) {
		return fmt.Errorf("%w: pixel index %d of %d", fractal.ErrOutOfGrid, idx, len(a.g.Cells))
	}
	a.g.Cells[idx] = uint32(n)
	return nil
}

// AddOrbit increments, for each visited point z, the cells containing z and conj(z).
// A point outside the view is fatal for the run.
func (a *Accumulator) AddOrbit(zs []complex128) error {
	for _, z := range zs {
		for _, p := range [2]complex128{z, complex(real(z), -imag(z))} {
			idx, ok := a.view.Cell(p)
			if !ok {
				return fmt.Errorf("%w: orbit point %v not in view %v", fractal.ErrOutOfGrid, p, a.view)
			}
			a.g.Cells[idx]++
		}
	}
	return nil
}
