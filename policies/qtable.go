package policies

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/zeu5/gridnav/grid"
)

// QTable maps (cell, action) to a value estimate. Values live in one flat
// buffer of N*N*NumActions entries; cell (r, c) owns the row starting at
// (r*N + c) * NumActions.
type QTable struct {
	n     int
	table []float64
}

// NewQTable returns a zero-initialised table for an n×n grid.
func NewQTable(n int) *QTable {
	return &QTable{
		n:     n,
		table: make([]float64, n*n*grid.NumActions),
	}
}

func (q *QTable) Size() int {
	return q.n
}

func (q *QTable) offset(c grid.Cell) int {
	return (c.Row*q.n + c.Col) * grid.NumActions
}

func (q *QTable) inBounds(c grid.Cell) bool {
	return c.Row >= 0 && c.Row < q.n && c.Col >= 0 && c.Col < q.n
}

// Get returns Q(c, a), or 0 for an out-of-bounds cell or invalid action.
func (q *QTable) Get(c grid.Cell, a grid.Action) float64 {
	if !q.inBounds(c) || !a.Valid() {
		return 0
	}
	return q.table[q.offset(c)+int(a)]
}

// Set writes Q(c, a). Out-of-bounds writes are dropped.
func (q *QTable) Set(c grid.Cell, a grid.Action, val float64) {
	if !q.inBounds(c) || !a.Valid() {
		return
	}
	q.table[q.offset(c)+int(a)] = val
}

// Values returns a copy of the action values for c, in action index order.
func (q *QTable) Values(c grid.Cell) []float64 {
	out := make([]float64, grid.NumActions)
	if !q.inBounds(c) {
		return out
	}
	copy(out, q.table[q.offset(c):q.offset(c)+grid.NumActions])
	return out
}

// ArgMax returns the action among actions with the highest value at c.
// Ties go to the first maximum in the order given. ok is false when
// actions is empty.
func (q *QTable) ArgMax(c grid.Cell, actions []grid.Action) (grid.Action, float64, bool) {
	if len(actions) == 0 {
		return 0, 0, false
	}
	vals := make([]float64, len(actions))
	for i, a := range actions {
		vals[i] = q.Get(c, a)
	}
	i := floats.MaxIdx(vals)
	return actions[i], vals[i], true
}

// Max returns max over actions of Q(c, a), or 0 when actions is empty.
func (q *QTable) Max(c grid.Cell, actions []grid.Action) float64 {
	_, v, ok := q.ArgMax(c, actions)
	if !ok {
		return 0
	}
	return v
}

// ValueGrid returns max_a Q(c, a) for every cell as a grid, for plotting.
func (q *QTable) ValueGrid() (*grid.Grid, error) {
	g, err := grid.New(q.n)
	if err != nil {
		return nil, err
	}
	for r := 0; r < q.n; r++ {
		for col := 0; col < q.n; col++ {
			c := grid.Cell{Row: r, Col: col}
			o := q.offset(c)
			g.Set(c, floats.Max(q.table[o:o+grid.NumActions]))
		}
	}
	return g, nil
}

// Finite reports whether every entry is a finite number.
func (q *QTable) Finite() bool {
	for _, v := range q.table {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (q *QTable) Clone() *QTable {
	return &QTable{n: q.n, table: append([]float64(nil), q.table...)}
}

// Reset zeroes every entry.
func (q *QTable) Reset() {
	for i := range q.table {
		q.table[i] = 0
	}
}
