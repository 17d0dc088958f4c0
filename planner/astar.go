// Package planner finds least-cost 4-connected paths over a cost field with A*.
//
// Entering a cell costs StepCost plus the field's value at that cell, so the
// field acts as extra traversal cost on top of the unit move. Negative field
// values are clamped to zero and +Inf cells are walls. The heuristic is the
// Manhattan distance scaled by StepCost, which never overestimates and is
// consistent, so a cell is final the first time it is popped.
//
// The open set is a binary heap ordered by f = g + h. Equal f values pop in
// insertion order, which makes the returned path deterministic. Neighbours are
// expanded in grid.Actions order (Up, Down, Left, Right). Improvements push a
// new heap entry ("lazy decrease-key"); stale entries are skipped on pop.
//
// Complexity: O(V log V) time and O(V) space for V = N*N cells.
package planner

import (
	"container/heap"
	"math"

	"github.com/zeu5/gridnav/grid"
)

// Expansion records one popped node.
type Expansion struct {
	Cell grid.Cell `json:"cell"`
	G    float64   `json:"g"`
	F    float64   `json:"f"`
}

// Result of a search. When Found is false Path is nil.
type Result struct {
	Path     grid.Path   `json:"path"`
	Cost     float64     `json:"cost"`
	Expanded int         `json:"expanded"`
	Found    bool        `json:"found"`
	Trace    []Expansion `json:"trace,omitempty"`
}

// Planner runs searches over one frozen cost field.
type Planner struct {
	field   *grid.Grid
	options Options
}

// New validates the options and takes a private copy of field, so later
// writes by the caller cannot change the planner's view.
func New(field *grid.Grid, opts ...Option) (*Planner, error) {
	if field == nil {
		return nil, ErrNilField
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !(cfg.StepCost > 0) || math.IsInf(cfg.StepCost, 0) {
		return nil, ErrStepCost
	}
	return &Planner{field: field.Clone(), options: cfg}, nil
}

// Search finds a least-cost path from start to goal. A start or goal that is
// out of bounds or on a wall, or an exhausted open set, yields Found=false.
func (p *Planner) Search(start, goal grid.Cell) Result {
	if !p.field.Walkable(start) || !p.field.Walkable(goal) {
		return Result{}
	}
	n := p.field.Size()
	r := &runner{
		field:    p.field,
		options:  p.options,
		n:        n,
		goal:     goal,
		gScore:   make([]float64, n*n),
		cameFrom: make([]int, n*n),
		closed:   make([]bool, n*n),
		pq:       make(openSet, 0, n),
	}
	r.init(start)
	return r.process()
}

// FindPath is a one-shot search with default options. It returns nil when no
// path exists or the field is nil.
func FindPath(start, goal grid.Cell, field *grid.Grid) grid.Path {
	p, err := New(field)
	if err != nil {
		return nil
	}
	return p.Search(start, goal).Path
}

// runner holds the mutable state of a single search.
type runner struct {
	field   *grid.Grid
	options Options
	n       int
	goal    grid.Cell

	gScore   []float64 // best known g per cell, +Inf if unseen
	cameFrom []int     // predecessor index, -1 if none
	closed   []bool
	pq       openSet
	seq      uint64

	expanded int
	trace    []Expansion
}

func (r *runner) index(c grid.Cell) int {
	return c.Row*r.n + c.Col
}

func (r *runner) cell(i int) grid.Cell {
	return grid.Cell{Row: i / r.n, Col: i % r.n}
}

func (r *runner) heuristic(c grid.Cell) float64 {
	return r.options.StepCost * float64(grid.Manhattan(c, r.goal))
}

func (r *runner) moveCost(c grid.Cell) float64 {
	return r.options.StepCost + math.Max(0, r.field.At(c))
}

func (r *runner) init(start grid.Cell) {
	for i := range r.gScore {
		r.gScore[i] = math.Inf(1)
		r.cameFrom[i] = -1
	}
	heap.Init(&r.pq)
	r.gScore[r.index(start)] = 0
	r.push(start, 0)
}

func (r *runner) push(c grid.Cell, g float64) {
	heap.Push(&r.pq, &nodeItem{cell: c, g: g, f: g + r.heuristic(c), seq: r.seq})
	r.seq++
}

func (r *runner) process() Result {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		idx := r.index(item.cell)
		if r.closed[idx] || item.g > r.gScore[idx] {
			continue
		}
		r.closed[idx] = true
		r.expanded++
		if r.options.Trace {
			r.trace = append(r.trace, Expansion{Cell: item.cell, G: item.g, F: item.f})
		}

		if item.cell == r.goal {
			return Result{
				Path:     r.reconstruct(idx),
				Cost:     item.g,
				Expanded: r.expanded,
				Found:    true,
				Trace:    r.trace,
			}
		}

		for _, a := range grid.Actions {
			nb := item.cell.Move(a)
			if !r.field.Walkable(nb) {
				continue
			}
			nidx := r.index(nb)
			if r.closed[nidx] {
				continue
			}
			tentative := item.g + r.moveCost(nb)
			if tentative < r.gScore[nidx] {
				r.gScore[nidx] = tentative
				r.cameFrom[nidx] = idx
				r.push(nb, tentative)
			}
		}
	}
	return Result{Expanded: r.expanded, Trace: r.trace}
}

func (r *runner) reconstruct(goalIdx int) grid.Path {
	var rev grid.Path
	for i := goalIdx; i != -1; i = r.cameFrom[i] {
		rev = append(rev, r.cell(i))
	}
	path := make(grid.Path, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
