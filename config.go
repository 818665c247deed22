package fractal

import (
	"fmt"
	"math"
	"runtime"
)

// Mode selects what is accumulated into the pixel grid.
type Mode int

const (
	// EscapeTime stores, per pixel, the iteration at which its seed diverged.
	EscapeTime Mode = iota
	// OrbitDensity counts how often diverging orbits visit each pixel.
	OrbitDensity
)

func (m Mode) String() string {
	switch m {
	case EscapeTime:
		return "escape-time"
	case OrbitDensity:
		return "orbit-density"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "escape-time", "escape", "mandelbrot":
		return EscapeTime, nil
	case "orbit-density", "orbit", "buddhabrot":
		return OrbitDensity, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// Transfer maps a cell count to a colour intensity.
type Transfer int

const (
	Identity Transfer = iota
	Logarithmic
	PowerLaw
	LinearRatio
	SqrtRatio
)

var transferNames = [...]string{
	Identity:    "identity",
	Logarithmic: "log",
	PowerLaw:    "power",
	LinearRatio: "linear",
	SqrtRatio:   "sqrt",
}

func (t Transfer) String() string {
	if t < 0 || int(t) >= len(transferNames) {
		return fmt.Sprintf("Transfer(%d)", int(t))
	}
	return transferNames[t]
}

// ParseTransfer accepts the names returned by Transfer.String.
func ParseTransfer(s string) (Transfer, error) {
	for i, n := range transferNames {
		if n == s {
			return Transfer(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown transfer function %q", ErrInvalidConfig, s)
}

// Distribution selects how orbit-mode seeds are drawn.
type Distribution int

const (
	// Rectangle draws re and im uniformly over the viewport.
	Rectangle Distribution = iota
	// Polar draws r uniformly in [0, PolarRadius] and θ uniformly in [0, π].
	// The result is not uniform over the half disk: density grows towards the origin.
	Polar
)

func (d Distribution) String() string {
	switch d {
	case Rectangle:
		return "rect"
	case Polar:
		return "polar"
	}
	return fmt.Sprintf("Distribution(%d)", int(d))
}

// ParseDistribution accepts the names returned by Distribution.String.
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "rect", "rectangle":
		return Rectangle, nil
	case "polar":
		return Polar, nil
	}
	return 0, fmt.Errorf("%w: unknown distribution %q", ErrInvalidConfig, s)
}

// Config is a fully resolved render configuration.
type Config struct {
	View          Viewport
	MaxIterations int
	// Threshold is compared against |z|².
	Threshold float64
	Workers   int
	Mode      Mode

	// Orbit mode only.
	Samples      int
	Distribution Distribution
	PolarRadius  float64
	Seed         int64

	Transfer Transfer
	Palette  string
}

// DefaultConfig returns the settings of the reference programs for a mode.
func DefaultConfig(mode Mode) Config {
	switch mode {
	case OrbitDensity:
		return Config{
			View:          Buddha.Viewport(600, 600),
			MaxIterations: 10000,
			Threshold:     4,
			Workers:       runtime.NumCPU(),
			Mode:          OrbitDensity,
			Samples:       400000,
			Distribution:  Rectangle,
			PolarRadius:   2,
			Seed:          1,
			Transfer:      LinearRatio,
			Palette:       "nebula",
		}
	default:
		return Config{
			View:          Full.Viewport(2000, 2000),
			MaxIterations: 20000,
			Threshold:     4,
			Workers:       runtime.NumCPU(),
			Mode:          EscapeTime,
			Transfer:      Identity,
			Palette:       "classic",
		}
	}
}

// Validate reports the first reason cfg cannot be rendered.
func (cfg Config) Validate() error {
	v := cfg.View
	switch {
	case v.ImgWidth <= 0 || v.ImgHeight <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, v.ImgWidth, v.ImgHeight)
	case !(v.Width > 0) || !(v.Height > 0):
		return fmt.Errorf("%w: view size %gx%g", ErrInvalidConfig, v.Width, v.Height)
	case cfg.MaxIterations <= 0 || uint64(cfg.MaxIterations) > math.MaxUint32:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, cfg.MaxIterations)
	case !(cfg.Threshold > 0):
		return fmt.Errorf("%w: divergence threshold %g", ErrInvalidConfig, cfg.Threshold)
	case cfg.Workers <= 0:
		return fmt.Errorf("%w: worker count %d", ErrInvalidConfig, cfg.Workers)
	case cfg.Transfer < Identity || cfg.Transfer > SqrtRatio:
		return fmt.Errorf("%w: transfer %v", ErrInvalidConfig, cfg.Transfer)
	}
	switch cfg.Mode {
	case EscapeTime:
		return nil
	case OrbitDensity:
	default:
		return fmt.Errorf("%w: mode %v", ErrInvalidConfig, cfg.Mode)
	}

	if cfg.Samples <= 0 {
		return fmt.Errorf("%w: random sample count %d", ErrInvalidConfig, cfg.Samples)
	}
	switch cfg.Distribution {
	case Rectangle:
	case Polar:
		if !(cfg.PolarRadius > 0) {
			return fmt.Errorf("%w: polar radius %g", ErrInvalidConfig, cfg.PolarRadius)
		}
	default:
		return fmt.Errorf("%w: distribution %v", ErrInvalidConfig, cfg.Distribution)
	}
	// Recorded orbit points satisfy |z| <= sqrt(T); the grid must hold all of them.
	r := math.Sqrt(cfg.Threshold)
	if v.Left > -r || v.Left+v.Width < r || v.Top > -r || v.Top+v.Height < r {
		return fmt.Errorf("%w: orbit view %v does not cover the escape disk of radius %g", ErrInvalidConfig, v, r)
	}
	return nil
}
