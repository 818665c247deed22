package fractal

import "errors"

var (
	// ErrInvalidConfig is returned when a configuration cannot be rendered.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrOutOfGrid is returned when a sample or orbit point maps outside the pixel grid.
	ErrOutOfGrid = errors.New("point outside grid")

	// ErrWorker is returned when a worker fails to produce or deliver its results.
	ErrWorker = errors.New("worker failed")
)
