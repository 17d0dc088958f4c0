package rl

import "github.com/zeu5/gridnav/grid"

// Trace of an episode as the applied transitions, in order.
type Trace struct {
	start       grid.Cell
	transitions []Transition
}

func NewTrace(start grid.Cell) *Trace {
	return &Trace{
		start:       start,
		transitions: make([]Transition, 0),
	}
}

func (t *Trace) Append(tr Transition) {
	t.transitions = append(t.transitions, tr)
}

func (t *Trace) Len() int {
	return len(t.transitions)
}

func (t *Trace) Get(i int) (Transition, bool) {
	if i < 0 || i >= len(t.transitions) {
		return Transition{}, false
	}
	return t.transitions[i], true
}

func (t *Trace) Last() (Transition, bool) {
	return t.Get(len(t.transitions) - 1)
}

// Path is the sequence of cells visited, start included.
func (t *Trace) Path() grid.Path {
	path := make(grid.Path, 0, len(t.transitions)+1)
	path = append(path, t.start)
	for _, tr := range t.transitions {
		path = append(path, tr.To)
	}
	return path
}
