package fractal

import "fmt"

// Request is the user-facing description of a render. Zero fields take the
// defaults of the requested mode. It is the JSON body the server accepts.
type Request struct {
	Mode   string `json:"mode"`
	Region string `json:"region,omitempty"`
	// View overrides Region when set.
	View *Rect `json:"view,omitempty"`

	ImageWidth    int     `json:"imageWidth,omitempty"`
	ImageHeight   int     `json:"imageHeight,omitempty"`
	MaxIterations int     `json:"maxIterations,omitempty"`
	Threshold     float64 `json:"divergenceThreshold,omitempty"`
	Workers       int     `json:"workerCount,omitempty"`

	Samples      int     `json:"randomSampleCount,omitempty"`
	Distribution string  `json:"distribution,omitempty"`
	PolarRadius  float64 `json:"polarRadius,omitempty"`
	Seed         *int64  `json:"seed,omitempty"`

	Transfer string `json:"colourTransferFunction,omitempty"`
	Palette  string `json:"palette,omitempty"`
}

// Rect is a viewport rectangle without an image size.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Config resolves r against DefaultConfig and validates the result.
func (r Request) Config() (Config, error) {
	mode := EscapeTime
	if r.Mode != "" {
		m, err := ParseMode(r.Mode)
		if err != nil {
			return Config{}, err
		}
		mode = m
	}
	cfg := DefaultConfig(mode)

	w, h := cfg.View.ImgWidth, cfg.View.ImgHeight
	if r.ImageWidth != 0 {
		w = r.ImageWidth
	}
	if r.ImageHeight != 0 {
		h = r.ImageHeight
	}
	switch {
	case r.View != nil:
		cfg.View = Viewport{Left: r.View.Left, Top: r.View.Top, Width: r.View.Width, Height: r.View.Height}
	case r.Region != "":
		reg, err := RegionByName(r.Region)
		if err != nil {
			return Config{}, err
		}
		cfg.View = reg.Viewport(w, h)
	}
	cfg.View.ImgWidth, cfg.View.ImgHeight = w, h

	if r.MaxIterations != 0 {
		cfg.MaxIterations = r.MaxIterations
	}
	if r.Threshold != 0 {
		cfg.Threshold = r.Threshold
	}
	if r.Workers != 0 {
		cfg.Workers = r.Workers
	}
	if r.Samples != 0 {
		cfg.Samples = r.Samples
	}
	if r.Distribution != "" {
		d, err := ParseDistribution(r.Distribution)
		if err != nil {
			return Config{}, err
		}
		cfg.Distribution = d
	}
	if r.PolarRadius != 0 {
		cfg.PolarRadius = r.PolarRadius
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.Transfer != "" {
		t, err := ParseTransfer(r.Transfer)
		if err != nil {
			return Config{}, err
		}
		cfg.Transfer = t
	}
	if r.Palette != "" {
		cfg.Palette = r.Palette
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("request: %w", err)
	}
	return cfg, nil
}
