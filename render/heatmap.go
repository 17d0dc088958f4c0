package render

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/zeu5/gridnav/grid"
)

var ErrNilField = errors.New("render: field is nil")

var (
	pathColor  = color.RGBA{R: 30, G: 90, B: 220, A: 255}
	startColor = color.RGBA{G: 160, A: 255}
	goalColor  = color.RGBA{R: 200, A: 255}
)

// HeatMap renders fields as heat maps into Dir, one file per Render call
// named <name>.<Format>. The format is anything plot.Save understands by
// extension (png, svg, pdf, ...).
type HeatMap struct {
	Dir    string
	Format string
	Size   vg.Length
}

var _ Visualizer = &HeatMap{}

// NewHeatMap creates dir if needed and renders 6 inch PNGs.
func NewHeatMap(dir string) (*HeatMap, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("render: create %s: %w", dir, err)
	}
	return &HeatMap{Dir: dir, Format: "png", Size: 6 * vg.Inch}, nil
}

// File is where Render writes name.
func (h *HeatMap) File(name string) string {
	return filepath.Join(h.Dir, name+"."+h.Format)
}

func (h *HeatMap) Render(name string, field *grid.Grid, path grid.Path) error {
	if field == nil {
		return ErrNilField
	}
	data := grid.NewHeatMapData(field)

	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row (flipped)"

	stats := field.Stats()
	pal := palette.Heat(16, 1)
	hm := plotter.NewHeatMap(data, pal)
	if stats.Max == stats.Min {
		// a flat field has no range to map; pin it to the coolest colour
		hm.Min, hm.Max = stats.Min, stats.Min+1
	}
	p.Add(hm)

	if len(path) > 0 {
		pts := make(plotter.XYs, len(path))
		for i, c := range path {
			pts[i] = data.PlotXY(c)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("render: path overlay: %w", err)
		}
		line.Color = pathColor
		line.Width = vg.Points(2)
		p.Add(line)

		ends, err := plotter.NewScatter(plotter.XYs{pts[0], pts[len(pts)-1]})
		if err != nil {
			return fmt.Errorf("render: path endpoints: %w", err)
		}
		ends.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			c := startColor
			if i == 1 {
				c = goalColor
			}
			return draw.GlyphStyle{Color: c, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
		}
		p.Add(ends)
		p.Legend.Add(fmt.Sprintf("path (%d steps)", path.Steps()), line)
	}

	if err := p.Save(h.Size, h.Size, h.File(name)); err != nil {
		return fmt.Errorf("render: save %s: %w", name, err)
	}
	return nil
}
