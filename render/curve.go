package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/gridnav/rl"
)

// LearningCurve plots steps per episode, one line per series.
func LearningCurve(file string, names []string, series [][]float64) error {
	if len(names) != len(series) {
		return fmt.Errorf("render: %d names for %d series", len(names), len(series))
	}
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return fmt.Errorf("render: create %s: %w", filepath.Dir(file), err)
	}

	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Steps"
	for i := 0; i < len(names); i++ {
		if len(series[i]) == 0 {
			continue
		}
		points := make(plotter.XYs, len(series[i]))
		for j, v := range series[i] {
			points[j] = plotter.XY{
				X: float64(j),
				Y: v,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("render: series %s: %w", names[i], err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("render: save %s: %w", file, err)
	}
	return nil
}

// CurveComparator plots the step series produced by rl.StepsAnalyzer.
func CurveComparator(file string) rl.Comparator {
	return func(names []string, ds []rl.DataSet) error {
		series := make([][]float64, len(ds))
		for i, d := range ds {
			s, ok := d.([]float64)
			if !ok {
				return fmt.Errorf("render: data set %s is %T, want []float64", names[i], d)
			}
			series[i] = s
		}
		return LearningCurve(file, names, series)
	}
}
