// Package colour turns a completed pixel grid into an RGBA image.
package colour

import (
	"image"
	"image/color"
	"math"

	fractal "github.com/lesguillemets/rgae"
	"github.com/lesguillemets/rgae/grid"
)

// Intensity maps one counter to a channel intensity given the grid maximum.
// ok is false when the cell is drawn with the background colour.
type Intensity func(v uint32) (level uint8, ok bool)

// NewIntensity returns the intensity function of t for a grid whose largest counter is maximum.
// Identity never consults level: every non-zero cell is foreground.
func NewIntensity(t fractal.Transfer, maximum uint32) Intensity {
	none := func(uint32) (uint8, bool) { return 0, false }
	if maximum == 0 {
		return none
	}
	m := float64(maximum)

	switch t {
	case fractal.Identity:
		return func(v uint32) (uint8, bool) { return 255, v != 0 }
	case fractal.Logarithmic, fractal.PowerLaw:
		if maximum <= 1 {
			return none
		}
		lm := math.Log(m)
		square := t == fractal.PowerLaw
		return func(v uint32) (uint8, bool) {
			if v == 0 {
				return 0, false
			}
			r := math.Log(float64(v)) / lm
			if square {
				r *= r
			}
			return level(255 * r), true
		}
	case fractal.SqrtRatio:
		return func(v uint32) (uint8, bool) {
			if v == 0 {
				return 0, false
			}
			return level(255 * math.Sqrt(float64(v)/m)), true
		}
	default:
		return func(v uint32) (uint8, bool) {
			if v == 0 {
				return 0, false
			}
			return level(255 * float64(v) / m), true
		}
	}
}

func level(f float64) uint8 {
	return uint8(min(255, max(0, math.Floor(f))))
}

// Map colours every cell of g in one pass. The maximum is taken from g as
// given, so g must be final: mapping the same grid twice gives identical pixels.
func Map(g *grid.Grid, t fractal.Transfer, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	f := NewIntensity(t, g.Max())
	for i, v := range g.Cells {
		c := p.Background
		if lvl, ok := f(v); ok {
			if t == fractal.Identity {
				c = p.Foreground
			} else {
				c = p.Ramp(lvl)
			}
		}
		x, y := i%g.Width, i/g.Width
		o := img.PixOffset(x, y)
		img.Pix[o+0], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// Palette assigns output channels to an intensity.
type Palette struct {
	Name string
	// Background colours cells with no count and every cell of a degenerate grid.
	Background color.RGBA
	// Foreground colours non-zero cells under the identity transfer.
	Foreground color.RGBA
	Ramp       func(level uint8) color.RGBA
}
