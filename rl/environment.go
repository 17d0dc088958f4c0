package rl

import "github.com/zeu5/gridnav/grid"

// Environment is the task an Agent interacts with.
type Environment interface {
	// Reset is called at the start of each episode and returns the start cell
	Reset() grid.Cell
	// Actions lists the moves allowed from a cell; none at terminal cells
	Actions(grid.Cell) []grid.Action
	// Step applies an action from the current cell
	Step(grid.Action) grid.StepResult
}

var _ Environment = &grid.Environment{}

// Transition is one applied step, as seen by a learning policy.
type Transition struct {
	From        grid.Cell
	Action      grid.Action
	Reward      float64
	To          grid.Cell
	NextActions []grid.Action
	Done        bool
}
