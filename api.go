package fractal

import (
	"image"
)

// Renderer computes the image described by a fully resolved configuration.
type Renderer interface {
	Render(cfg Config) (*image.RGBA, error)
}

// ImageSink writes a finished colour image to path.
// It either creates the file completely or returns an error.
type ImageSink interface {
	Save(img image.Image, path string) error
}
