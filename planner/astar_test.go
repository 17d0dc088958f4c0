package planner_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/planner"
)

func zeroField(t *testing.T, n int) *grid.Grid {
	t.Helper()
	g, err := grid.New(n)
	require.NoError(t, err)
	return g
}

func randomField(t *testing.T, rng *rand.Rand, n int) *grid.Grid {
	t.Helper()
	g := zeroField(t, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			g.Set(grid.Cell{Row: r, Col: c}, rng.Float64()*5)
		}
	}
	return g
}

// referenceCost is a quadratic Dijkstra used to check optimality.
func referenceCost(field *grid.Grid, start, goal grid.Cell) float64 {
	n := field.Size()
	dist := make([]float64, n*n)
	done := make([]bool, n*n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[start.Row*n+start.Col] = 0
	for {
		best := -1
		for i := range dist {
			if !done[i] && !math.IsInf(dist[i], 1) && (best == -1 || dist[i] < dist[best]) {
				best = i
			}
		}
		if best == -1 {
			return math.Inf(1)
		}
		done[best] = true
		cur := grid.Cell{Row: best / n, Col: best % n}
		if cur == goal {
			return dist[best]
		}
		for _, a := range grid.Actions {
			nb := cur.Move(a)
			if !field.Walkable(nb) {
				continue
			}
			j := nb.Row*n + nb.Col
			if d := dist[best] + 1 + math.Max(0, field.At(nb)); d < dist[j] {
				dist[j] = d
			}
		}
	}
}

func pathCost(field *grid.Grid, p grid.Path) float64 {
	cost := 0.0
	for _, c := range p[1:] {
		cost += 1 + math.Max(0, field.At(c))
	}
	return cost
}

func TestNew_Validation(t *testing.T) {
	_, err := planner.New(nil)
	assert.ErrorIs(t, err, planner.ErrNilField)

	field := zeroField(t, 3)
	_, err = planner.New(field, planner.WithStepCost(0))
	assert.ErrorIs(t, err, planner.ErrStepCost)
	_, err = planner.New(field, planner.WithStepCost(math.Inf(1)))
	assert.ErrorIs(t, err, planner.ErrStepCost)
}

func TestSearch_ZeroFieldExactPath(t *testing.T) {
	p, err := planner.New(zeroField(t, 5))
	require.NoError(t, err)

	res := p.Search(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 2, Col: 2})
	require.True(t, res.Found)
	assert.Equal(t, grid.Path{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}}, res.Path)
	assert.Equal(t, 4, res.Path.Steps())
	assert.Equal(t, 4.0, res.Cost)
}

func TestSearch_StartIsGoal(t *testing.T) {
	p, err := planner.New(zeroField(t, 4))
	require.NoError(t, err)
	res := p.Search(grid.Cell{Row: 1, Col: 1}, grid.Cell{Row: 1, Col: 1})
	require.True(t, res.Found)
	assert.Equal(t, grid.Path{{Row: 1, Col: 1}}, res.Path)
	assert.Equal(t, 0.0, res.Cost)
}

func TestSearch_AvoidsExpensiveCells(t *testing.T) {
	field := zeroField(t, 3)
	field.Set(grid.Cell{Row: 1, Col: 1}, 10)

	path := planner.FindPath(grid.Cell{Row: 1, Col: 0}, grid.Cell{Row: 1, Col: 2}, field)
	require.NotNil(t, path)
	assert.Equal(t, 4, path.Steps())
	assert.False(t, path.Contains(grid.Cell{Row: 1, Col: 1}))
}

func TestSearch_Unreachable(t *testing.T) {
	field := zeroField(t, 5)
	goal := grid.Cell{Row: 2, Col: 2}
	for _, a := range grid.Actions {
		field.Set(goal.Move(a), math.Inf(1))
	}
	p, err := planner.New(field)
	require.NoError(t, err)

	res := p.Search(grid.Cell{}, goal)
	assert.False(t, res.Found)
	assert.Nil(t, res.Path)
	// everything outside the wall ring was explored
	assert.Equal(t, 25-5, res.Expanded)

	assert.Nil(t, planner.FindPath(grid.Cell{}, grid.Cell{Row: 5, Col: 5}, field))
	assert.Nil(t, planner.FindPath(grid.Cell{Row: -1, Col: 0}, goal, field))
	assert.Nil(t, planner.FindPath(grid.Cell{}, goal.Move(grid.Up), field))
	assert.Nil(t, planner.FindPath(grid.Cell{}, goal, nil))
}

func TestSearch_OptimalAndConnected(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 20; trial++ {
		n := 4 + rng.Intn(6)
		field := randomField(t, rng, n)
		// sprinkle some walls
		for k := 0; k < n; k++ {
			field.Set(grid.Cell{Row: rng.Intn(n), Col: rng.Intn(n)}, math.Inf(1))
		}
		start := grid.Cell{Row: 0, Col: 0}
		goal := grid.Cell{Row: n - 1, Col: n - 1}
		field.Set(start, 0)
		field.Set(goal, 0)

		p, err := planner.New(field)
		require.NoError(t, err)
		res := p.Search(start, goal)
		want := referenceCost(field, start, goal)

		if math.IsInf(want, 1) {
			assert.False(t, res.Found, "trial %d", trial)
			continue
		}
		require.True(t, res.Found, "trial %d", trial)
		assert.Equal(t, start, res.Path[0])
		assert.Equal(t, goal, res.Path[len(res.Path)-1])
		assert.True(t, res.Path.Connected())
		assert.InDelta(t, want, res.Cost, 1e-9, "trial %d", trial)
		assert.InDelta(t, res.Cost, pathCost(field, res.Path), 1e-9)
	}
}

func TestSearch_ExpansionOrderMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	field := randomField(t, rng, 12)
	p, err := planner.New(field, planner.WithExpansionTrace())
	require.NoError(t, err)

	res := p.Search(grid.Cell{Row: 1, Col: 2}, grid.Cell{Row: 10, Col: 9})
	require.True(t, res.Found)
	require.Len(t, res.Trace, res.Expanded)
	for i := 1; i < len(res.Trace); i++ {
		assert.LessOrEqual(t, res.Trace[i-1].F, res.Trace[i].F+1e-9, "expansion %d", i)
	}
	assert.Equal(t, grid.Cell{Row: 10, Col: 9}, res.Trace[len(res.Trace)-1].Cell)
}

func TestSearch_DeterministicAndIsolated(t *testing.T) {
	field := zeroField(t, 8)
	p, err := planner.New(field, planner.WithStepCost(2))
	require.NoError(t, err)

	// writes after construction do not leak into the planner
	field.Set(grid.Cell{Row: 1, Col: 0}, math.Inf(1))

	a := p.Search(grid.Cell{}, grid.Cell{Row: 6, Col: 5})
	b := p.Search(grid.Cell{}, grid.Cell{Row: 6, Col: 5})
	require.True(t, a.Found)
	assert.Equal(t, a.Path, b.Path)
	assert.Equal(t, 22.0, a.Cost)
	assert.Equal(t, grid.Cell{Row: 1, Col: 0}, a.Path[1])
}
