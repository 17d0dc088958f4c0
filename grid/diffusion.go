package grid

import (
	"context"
	"fmt"
	"math"
)

// Diffuse smooths g by discrete diffusion and returns the result as a new
// grid; g itself is left untouched.
//
// Each iteration updates every interior cell from the previous iteration's
// snapshot:
//
//	new = old + rate * (sum of the 3x3 neighbourhood including old - 8*old)
//
// The border ring is never written and keeps its input values. Walls (+Inf)
// would spread through the stencil, so callers overlay them after diffusion
// (see Generate).
//
// The update is not unconditionally stable: a large rate over many
// iterations overflows. The first NaN or ±Inf cell aborts the run with
// ErrUnstable.
func Diffuse(g *Grid, rate float64, iterations int) (*Grid, error) {
	return DiffuseContext(context.Background(), g, rate, iterations)
}

// DiffuseContext is Diffuse with cancellation checked before every iteration.
func DiffuseContext(ctx context.Context, g *Grid, rate float64, iterations int) (*Grid, error) {
	if g == nil || g.n < MinSize {
		return nil, ErrGridTooSmall
	}
	if !(rate > 0 && rate < 1) {
		return nil, ErrDiffusionRate
	}
	if iterations < 1 {
		return nil, ErrIterations
	}

	n := g.n
	cur := g.Clone()
	next := g.Clone()
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := cur.raw()
		dst := next.raw()
		for i := 1; i < n-1; i++ {
			for j := 1; j < n-1; j++ {
				old := src[i*n+j]
				sum := 0.0
				for di := -1; di <= 1; di++ {
					row := (i + di) * n
					sum += src[row+j-1] + src[row+j] + src[row+j+1]
				}
				v := old + rate*(sum-8*old)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: cell (%d, %d) at iteration %d", ErrUnstable, i, j, it+1)
				}
				dst[i*n+j] = v
			}
		}
		cur, next = next, cur
	}
	return cur, nil
}
