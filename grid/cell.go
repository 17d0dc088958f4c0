package grid

import "fmt"

// Cell is a (row, column) coordinate on the grid, 0-indexed.
type Cell struct {
	Row int `json:"row" mapstructure:"row" yaml:"row"`
	Col int `json:"col" mapstructure:"col" yaml:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Move returns the cell reached by applying the action's delta.
// The result is not bounds checked.
func (c Cell) Move(a Action) Cell {
	dr, dc := a.Delta()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Adjacent reports whether a and b share an edge.
func Adjacent(a, b Cell) bool {
	return Manhattan(a, b) == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Action is one of the four unit moves. The numeric value doubles as the
// action's index in a Q-table row.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

// NumActions is the size of the action set.
const NumActions = 4

// Actions lists every action in index order. Neighbor expansion and
// tie-breaking both follow this order.
var Actions = []Action{Up, Down, Left, Right}

var deltas = [NumActions][2]int{
	{-1, 0},
	{1, 0},
	{0, -1},
	{0, 1},
}

// Delta returns the (row, col) offset of the action.
func (a Action) Delta() (int, int) {
	if !a.Valid() {
		return 0, 0
	}
	d := deltas[a]
	return d[0], d[1]
}

func (a Action) Valid() bool {
	return a >= 0 && a < NumActions
}

func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Path is an ordered sequence of cells from start to goal, inclusive.
// A nil Path means no path exists.
type Path []Cell

// Steps is the number of moves along the path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Connected reports whether consecutive cells are 4-adjacent.
func (p Path) Connected() bool {
	for i := 1; i < len(p); i++ {
		if !Adjacent(p[i-1], p[i]) {
			return false
		}
	}
	return true
}

func (p Path) Contains(c Cell) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}
