package fractal

import (
	"fmt"
	"sort"
)

// Viewport is a rectangle of the complex plane mapped onto an image of
// ImgWidth x ImgHeight pixels. Top is the imaginary part of row 0; rows grow
// towards Top+Height. The aspect ratio is not corrected.
type Viewport struct {
	Left, Top     float64
	Width, Height float64

	ImgWidth, ImgHeight int
}

// GridWidth is the real-axis step between neighbouring pixel columns.
func (v Viewport) GridWidth() float64 { return v.Width / float64(v.ImgWidth) }

// GridHeight is the imaginary-axis step between neighbouring pixel rows.
func (v Viewport) GridHeight() float64 { return v.Height / float64(v.ImgHeight) }

// Pixels returns ImgWidth*ImgHeight.
func (v Viewport) Pixels() int { return v.ImgWidth * v.ImgHeight }

// Point maps the row-major pixel index i to its complex coordinate.
func (v Viewport) Point(i int) complex128 {
	x := i % v.ImgWidth
	y := i / v.ImgWidth
	return complex(v.Left+v.GridWidth()*float64(x), v.Top+v.GridHeight()*float64(y))
}

// Cell returns the row-major index of the pixel containing z.
// ok is false when z lies outside the viewport. The viewport is closed:
// points on the far edges belong to the last column or row.
func (v Viewport) Cell(z complex128) (idx int, ok bool) {
	fx := (real(z) - v.Left) / v.GridWidth()
	fy := (imag(z) - v.Top) / v.GridHeight()
	if !(fx >= 0 && fx <= float64(v.ImgWidth)) || !(fy >= 0 && fy <= float64(v.ImgHeight)) {
		return 0, false
	}
	x := min(int(fx), v.ImgWidth-1)
	y := min(int(fy), v.ImgHeight-1)
	return x + y*v.ImgWidth, true
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%g%+gi, %gx%g] @ %dx%d", v.Left, v.Top, v.Width, v.Height, v.ImgWidth, v.ImgHeight)
}

// Region is a rectangle of the complex plane without an image size.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Viewport maps the region onto a w x h image.
func (r Region) Viewport(w, h int) Viewport {
	return Viewport{
		Left:      r.Xmin,
		Top:       r.Ymin,
		Width:     r.Xmax - r.Xmin,
		Height:    r.Ymax - r.Ymin,
		ImgWidth:  w,
		ImgHeight: h,
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Full set as rendered by the escape-time program
	Full = Region{Xmin: -1.5, Xmax: 1.5, Ymin: -1.5, Ymax: 1.5}

	// Disk of radius 2 that contains every bounded orbit point
	Buddha = Region{Xmin: -2, Xmax: 2, Ymin: -2, Ymax: 2}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{Xmin: -1.7390, Xmax: -1.7375, Ymin: -0.0235, Ymax: -0.0220}
)

var regions = map[string]Region{
	"full":          Full,
	"buddha":        Buddha,
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"mini-spiral":   MinibrotInMiniSpiral,
}

// RegionByName looks up a landmark region.
func RegionByName(name string) (Region, error) {
	r, ok := regions[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: unknown region %q (have %v)", ErrInvalidConfig, name, RegionNames())
	}
	return r, nil
}

// RegionNames lists the landmark names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for n := range regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
