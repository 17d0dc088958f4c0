package grid

import (
	"context"
	"fmt"
	"math"
)

// Source seeds a cell with an initial cost before diffusion.
type Source struct {
	Cell  Cell    `json:"cell" mapstructure:"cell" yaml:"cell"`
	Value float64 `json:"value" mapstructure:"value" yaml:"value"`
}

// FieldConfig describes how a cost field is generated.
type FieldConfig struct {
	Size          int     `json:"size" mapstructure:"size" yaml:"size" validate:"min=3"`
	DiffusionRate float64 `json:"diffusion_rate" mapstructure:"diffusion_rate" yaml:"diffusion_rate" validate:"gt=0,lt=1"`
	// Iterations per diffusion pass.
	Iterations int `json:"iterations" mapstructure:"iterations" yaml:"iterations" validate:"min=1"`
	// Passes is how many times the whole diffusion call is repeated.
	Passes  int      `json:"passes" mapstructure:"passes" yaml:"passes" validate:"min=1"`
	Sources []Source `json:"sources,omitempty" mapstructure:"sources" yaml:"sources,omitempty"`
	Walls   []Cell   `json:"walls,omitempty" mapstructure:"walls" yaml:"walls,omitempty"`
}

// DefaultFieldConfig matches the reference run: an empty 50x50 grid,
// rate 0.1, 10 passes of 5 iterations.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Size:          50,
		DiffusionRate: 0.1,
		Iterations:    5,
		Passes:        10,
	}
}

// Generate builds the cost field: seed sources, run the diffusion passes,
// then overlay walls as +Inf.
func Generate(cfg FieldConfig) (*Grid, error) {
	return GenerateContext(context.Background(), cfg)
}

// GenerateContext is Generate bounded by ctx. A diverging pass fails with
// ErrUnstable.
func GenerateContext(ctx context.Context, cfg FieldConfig) (*Grid, error) {
	g, err := New(cfg.Size)
	if err != nil {
		return nil, err
	}
	if cfg.Passes < 1 {
		return nil, fmt.Errorf("passes=%d: %w", cfg.Passes, ErrIterations)
	}
	for _, s := range cfg.Sources {
		if !g.InBounds(s.Cell) {
			return nil, fmt.Errorf("source %v: %w", s.Cell, ErrOutOfBounds)
		}
		if s.Value < 0 || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, fmt.Errorf("source %v: value %v must be finite and non-negative", s.Cell, s.Value)
		}
		g.Set(s.Cell, s.Value)
	}
	for _, w := range cfg.Walls {
		if !g.InBounds(w) {
			return nil, fmt.Errorf("wall %v: %w", w, ErrOutOfBounds)
		}
	}

	for p := 0; p < cfg.Passes; p++ {
		if g, err = DiffuseContext(ctx, g, cfg.DiffusionRate, cfg.Iterations); err != nil {
			return nil, fmt.Errorf("pass %d: %w", p+1, err)
		}
	}

	for _, w := range cfg.Walls {
		g.Set(w, math.Inf(1))
	}
	return g, nil
}
