package colour

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	fractal "github.com/lesguillemets/rgae"
)

var (
	// Classic is the binary escape-time look: the set in translucent blue, the rest black.
	Classic = Palette{
		Name:       "classic",
		Background: color.RGBA{0, 63, 125, 125},
		Foreground: color.RGBA{0, 0, 0, 255},
		Ramp:       cyan,
	}

	// Nebula puts the intensity in the green and blue channels.
	Nebula = Palette{
		Name:       "nebula",
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{0, 255, 255, 255},
		Ramp:       cyan,
	}

	Grey = Palette{
		Name:       "grey",
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 255, 255, 255},
		Ramp: func(v uint8) color.RGBA {
			return color.RGBA{v, v, v, 255}
		},
	}

	HSV = Palette{
		Name:       "hsv",
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 0, 0, 255},
		Ramp: func(v uint8) color.RGBA {
			return hsv(float64(v)/256, 1, 1)
		},
	}

	// Wiki is the 16 stop gradient of the Wikipedia Mandelbrot renderings.
	Wiki = Palette{
		Name:       "wiki",
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 170, 0, 255},
		Ramp:       wikiRamp,
	}
)

var palettes = map[string]Palette{}

func init() {
	for _, p := range []Palette{Classic, Nebula, Grey, HSV, Wiki} {
		palettes[p.Name] = p
	}
}

// ByName looks up a palette.
func ByName(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return Palette{}, fmt.Errorf("%w: unknown palette %q (have %v)", fractal.ErrInvalidConfig, name, Names())
	}
	return p, nil
}

// Names lists the palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func cyan(v uint8) color.RGBA {
	return color.RGBA{0, v, v, 255}
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

var wikiStops = [16]color.RGBA{
	{66, 30, 15, 255},
	{25, 7, 26, 255},
	{9, 1, 47, 255},
	{4, 4, 73, 255},
	{0, 7, 100, 255},
	{12, 44, 138, 255},
	{24, 82, 177, 255},
	{57, 125, 209, 255},
	{134, 181, 229, 255},
	{211, 236, 248, 255},
	{241, 233, 191, 255},
	{248, 201, 95, 255},
	{255, 170, 0, 255},
	{204, 128, 0, 255},
	{153, 87, 0, 255},
	{106, 52, 3, 255},
}

func wikiRamp(v uint8) color.RGBA {
	i, frac := math.Modf(float64(len(wikiStops)-1) * float64(v) / 255)
	if int(i) >= len(wikiStops)-1 {
		return wikiStops[len(wikiStops)-1]
	}
	return cosineInterpolation(wikiStops[int(i)], wikiStops[int(i)+1], frac)
}

func cosineInterpolation(c1, c2 color.RGBA, mu float64) color.RGBA {
	mu2 := (1 - math.Cos(mu*math.Pi)) / 2.0
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-mu2) + float64(b)*mu2)
	}
	return color.RGBA{lerp(c1.R, c2.R), lerp(c1.G, c2.G), lerp(c1.B, c2.B), 255}
}
