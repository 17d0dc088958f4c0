package grid

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinSize is the smallest grid that still has an interior cell.
const MinSize = 3

// Grid is a fixed-size N×N scalar field. Values live in a single row-major
// buffer; cell (r, c) sits at offset r*N + c. The dimensions never change
// after construction.
type Grid struct {
	n    int
	data *mat.Dense
}

// New returns an N×N grid of zeros.
func New(n int) (*Grid, error) {
	if n < MinSize {
		return nil, ErrGridTooSmall
	}
	return &Grid{n: n, data: mat.NewDense(n, n, nil)}, nil
}

// FromRows builds a grid from a square 2D slice. The rows are copied.
func FromRows(rows [][]float64) (*Grid, error) {
	n := len(rows)
	if n < MinSize {
		return nil, ErrGridTooSmall
	}
	buf := make([]float64, 0, n*n)
	for _, row := range rows {
		if len(row) != n {
			return nil, ErrNonSquare
		}
		buf = append(buf, row...)
	}
	return &Grid{n: n, data: mat.NewDense(n, n, buf)}, nil
}

// Size returns N.
func (g *Grid) Size() int {
	return g.n
}

// At returns the value at c. c must be in bounds.
func (g *Grid) At(c Cell) float64 {
	return g.data.At(c.Row, c.Col)
}

// Set writes v at c. c must be in bounds.
func (g *Grid) Set(c Cell, v float64) {
	g.data.Set(c.Row, c.Col, v)
}

func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.n && c.Col >= 0 && c.Col < g.n
}

// Walkable reports whether c is in bounds and not a wall.
func (g *Grid) Walkable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	v := g.At(c)
	return !math.IsInf(v, 1) && !math.IsNaN(v)
}

// Interior reports whether c is in bounds and off the border ring.
func (g *Grid) Interior(c Cell) bool {
	return c.Row > 0 && c.Row < g.n-1 && c.Col > 0 && c.Col < g.n-1
}

func (g *Grid) Clone() *Grid {
	return &Grid{n: g.n, data: mat.DenseCopyOf(g.data)}
}

// Matrix exposes the field as a read-only gonum matrix.
func (g *Grid) Matrix() mat.Matrix {
	return g.data
}

// raw returns the backing buffer. The stride always equals N since the
// matrix is never sliced.
func (g *Grid) raw() []float64 {
	return g.data.RawMatrix().Data
}

// Rows copies the grid into a fresh 2D slice.
func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, g.data)
	}
	return rows
}

// Border returns the border ring clockwise from (0,0).
func (g *Grid) Border() []float64 {
	n := g.n
	out := make([]float64, 0, 4*(n-1))
	for c := 0; c < n; c++ {
		out = append(out, g.data.At(0, c))
	}
	for r := 1; r < n; r++ {
		out = append(out, g.data.At(r, n-1))
	}
	for c := n - 2; c >= 0; c-- {
		out = append(out, g.data.At(n-1, c))
	}
	for r := n - 2; r > 0; r-- {
		out = append(out, g.data.At(r, 0))
	}
	return out
}

// Stats summarises the finite values of a field.
type Stats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Walls int     `json:"walls"`
}

func (g *Grid) Stats() Stats {
	finite := make([]float64, 0, g.n*g.n)
	walls := 0
	for _, v := range g.raw() {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			walls++
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return Stats{Walls: walls}
	}
	return Stats{
		Min:   floats.Min(finite),
		Max:   floats.Max(finite),
		Mean:  stat.Mean(finite, nil),
		Walls: walls,
	}
}

// Finite reports whether no cell holds NaN or -Inf. Walls (+Inf) are allowed.
func (g *Grid) Finite() bool {
	for _, v := range g.raw() {
		if math.IsNaN(v) || math.IsInf(v, -1) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the grid as rows. Walls are encoded as null since JSON
// has no infinity.
func (g *Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]*float64, g.n)
	for r := 0; r < g.n; r++ {
		rows[r] = make([]*float64, g.n)
		for c := 0; c < g.n; c++ {
			v := g.data.At(r, c)
			if math.IsInf(v, 1) {
				continue
			}
			rows[r][c] = &v
		}
	}
	return json.Marshal(rows)
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var rows [][]*float64
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	values := make([][]float64, len(rows))
	for r, row := range rows {
		values[r] = make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				values[r][c] = math.Inf(1)
				continue
			}
			values[r][c] = *v
		}
	}
	parsed, err := FromRows(values)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
