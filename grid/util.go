package grid

import (
	"math"

	"gonum.org/v1/plot/plotter"
)

// HeatMapData adapts a grid to plotter.GridXYZ. Plot row 0 is the bottom of
// the image, so grid rows are flipped to keep (0,0) in the top-left corner.
// Walls are drawn with the hottest finite value.
type HeatMapData struct {
	g    *Grid
	wall float64
}

var _ plotter.GridXYZ = &HeatMapData{}

func NewHeatMapData(g *Grid) *HeatMapData {
	wall := g.Stats().Max
	return &HeatMapData{g: g, wall: wall}
}

func (h *HeatMapData) Dims() (int, int) {
	return h.g.n, h.g.n
}

func (h *HeatMapData) Z(c, r int) float64 {
	v := h.g.At(Cell{Row: h.g.n - 1 - r, Col: c})
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return h.wall
	}
	return v
}

func (h *HeatMapData) X(c int) float64 {
	return float64(c)
}

func (h *HeatMapData) Y(r int) float64 {
	return float64(r)
}

// PlotXY converts a cell to the heat map's coordinates.
func (h *HeatMapData) PlotXY(c Cell) plotter.XY {
	return plotter.XY{X: float64(c.Col), Y: float64(h.g.n - 1 - c.Row)}
}

// VisitGrid counts how often each cell appears across the given paths.
// Out-of-bounds cells are ignored.
func VisitGrid(size int, paths []Path) (*Grid, error) {
	g, err := New(size)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		for _, c := range p {
			if !g.InBounds(c) {
				continue
			}
			g.Set(c, g.At(c)+1)
		}
	}
	return g, nil
}
