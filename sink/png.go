// Package sink writes finished images to disk.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	fractal "github.com/lesguillemets/rgae"
)

// PNG writes images as PNG files. When Overlay is set it is drawn over a copy
// of the image before encoding.
type PNG struct {
	Overlay *Overlay
}

// Save encodes img next to path and renames it into place, so a failed
// encode never leaves a partial file behind.
func (s PNG) Save(img image.Image, path string) error {
	if s.Overlay != nil {
		decorated, err := s.Overlay.Apply(img)
		if err != nil {
			return fmt.Errorf("decorate: %w", err)
		}
		img = decorated
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".render-*.png")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

var _ fractal.ImageSink = PNG{}
