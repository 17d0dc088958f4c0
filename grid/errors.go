package grid

import "errors"

var (
	// ErrGridTooSmall indicates a grid without an interior (N < 3).
	ErrGridTooSmall = errors.New("grid: size must be at least 3x3")
	// ErrNonSquare indicates rows of differing length or a non-square shape.
	ErrNonSquare = errors.New("grid: grid must be square")
	// ErrDiffusionRate indicates a diffusion rate outside (0, 1).
	ErrDiffusionRate = errors.New("grid: diffusion rate must be in (0, 1)")
	// ErrIterations indicates a non-positive iteration or pass count.
	ErrIterations = errors.New("grid: iterations must be positive")
	// ErrOutOfBounds indicates a configured cell outside the grid.
	ErrOutOfBounds = errors.New("grid: cell out of bounds")
	// ErrUnstable indicates a diffusion run that produced NaN or ±Inf.
	ErrUnstable = errors.New("grid: diffusion diverged; lower the rate or the iteration count")
)
