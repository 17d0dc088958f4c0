package grid

import "fmt"

// Rewards configures the learner's reward signal.
type Rewards struct {
	Step float64 `json:"step" mapstructure:"step" yaml:"step"`
	Goal float64 `json:"goal" mapstructure:"goal" yaml:"goal"`
}

// DefaultRewards: every move costs 1, reaching the goal pays 100.
func DefaultRewards() Rewards {
	return Rewards{Step: -1, Goal: 100}
}

// StepResult is the outcome of one Environment.Step call.
type StepResult struct {
	Next   Cell
	Reward float64
	Done   bool
	// Moved is false when the action was masked and the agent stayed put.
	Moved bool
}

// Environment is the navigation task seen by the learner: a fixed start,
// a fixed goal, and moves masked at the grid boundary and at walls.
type Environment struct {
	Size    int
	Start   Cell
	Goal    Cell
	Rewards Rewards
	CurPos  Cell

	field *Grid
}

// NewEnvironment creates an environment over an empty size×size grid.
func NewEnvironment(size int, start, goal Cell, rewards Rewards) (*Environment, error) {
	g, err := New(size)
	if err != nil {
		return nil, err
	}
	return NewFieldEnvironment(g, start, goal, rewards)
}

// NewFieldEnvironment creates an environment whose walls come from field.
// The learner ignores the field's finite costs.
func NewFieldEnvironment(field *Grid, start, goal Cell, rewards Rewards) (*Environment, error) {
	if field == nil {
		return nil, ErrGridTooSmall
	}
	if !field.Walkable(start) {
		return nil, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !field.Walkable(goal) {
		return nil, fmt.Errorf("goal %v: %w", goal, ErrOutOfBounds)
	}
	return &Environment{
		Size:    field.Size(),
		Start:   start,
		Goal:    goal,
		Rewards: rewards,
		CurPos:  start,
		field:   field,
	}, nil
}

// Reset puts the agent back on the start cell.
func (e *Environment) Reset() Cell {
	e.CurPos = e.Start
	return e.CurPos
}

// Actions lists the moves from c that stay in bounds and off walls, in
// index order. The goal has no actions.
func (e *Environment) Actions(c Cell) []Action {
	if c == e.Goal {
		return nil
	}
	out := make([]Action, 0, NumActions)
	for _, a := range Actions {
		if e.field.Walkable(c.Move(a)) {
			out = append(out, a)
		}
	}
	return out
}

// Step applies a from the current position. A masked action is rejected
// before it touches any state: the agent stays put and Moved is false.
func (e *Environment) Step(a Action) StepResult {
	next := e.CurPos.Move(a)
	if !a.Valid() || e.CurPos == e.Goal || !e.field.Walkable(next) {
		return StepResult{Next: e.CurPos}
	}
	e.CurPos = next
	if next == e.Goal {
		return StepResult{Next: next, Reward: e.Rewards.Goal, Done: true, Moved: true}
	}
	return StepResult{Next: next, Reward: e.Rewards.Step, Moved: true}
}
