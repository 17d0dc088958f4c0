// Package render draws cost fields, paths and learning curves.
//
// Rendering is a side effect with no feedback into planning or learning; the
// simulation only ever talks to the Visualizer interface, and Nop keeps
// headless runs and tests free of any drawing.
package render

import "github.com/zeu5/gridnav/grid"

// Visualizer renders a field with an optional path overlay (path may be nil).
type Visualizer interface {
	Render(name string, field *grid.Grid, path grid.Path) error
}

// Nop discards everything.
type Nop struct{}

var _ Visualizer = Nop{}

func (Nop) Render(string, *grid.Grid, grid.Path) error { return nil }
