package sim

import (
	"errors"
	"fmt"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/policies"
	"github.com/zeu5/gridnav/rl"
)

var ErrConfig = errors.New("sim: invalid configuration")

// Config is everything one run needs. Learner.Size always follows Field.Size;
// a non-zero Seed overrides Learner.Seed.
type Config struct {
	Field    grid.FieldConfig         `json:"field" mapstructure:"field" yaml:"field"`
	Start    grid.Cell                `json:"start" mapstructure:"start" yaml:"start"`
	Goal     grid.Cell                `json:"goal" mapstructure:"goal" yaml:"goal"`
	Learner  policies.QLearningConfig `json:"learner" mapstructure:"learner" yaml:"learner"`
	Rewards  grid.Rewards             `json:"rewards" mapstructure:"rewards" yaml:"rewards"`
	Episodes int                      `json:"episodes" mapstructure:"episodes" yaml:"episodes" validate:"min=1"`
	Horizon  int                      `json:"horizon" mapstructure:"horizon" yaml:"horizon" validate:"min=1"`
	// StepCost is the planner's base cost per move.
	StepCost float64 `json:"step_cost" mapstructure:"step_cost" yaml:"step_cost" validate:"gt=0"`
	Seed     uint64  `json:"seed" mapstructure:"seed" yaml:"seed"`
}

// DefaultConfig reproduces the reference run: a 50x50 field diffused for 10
// passes of 5 iterations at rate 0.1, start (10,10), goal (40,40), one
// training episode of at most 1000 steps.
func DefaultConfig() Config {
	field := grid.DefaultFieldConfig()
	return Config{
		Field:    field,
		Start:    grid.Cell{Row: 10, Col: 10},
		Goal:     grid.Cell{Row: 40, Col: 40},
		Learner:  policies.DefaultQLearningConfig(field.Size),
		Rewards:  grid.DefaultRewards(),
		Episodes: 1,
		Horizon:  rl.DefaultHorizon,
		StepCost: 1,
		Seed:     1,
	}
}

// LearnerConfig returns the Q-learning parameters with size and seed resolved.
func (c Config) LearnerConfig() policies.QLearningConfig {
	lc := c.Learner
	lc.Size = c.Field.Size
	if c.Seed != 0 {
		lc.Seed = c.Seed
	}
	return lc
}

func (c Config) Validate() error {
	if c.Field.Size < grid.MinSize {
		return fmt.Errorf("%w: field size %d below %d", ErrConfig, c.Field.Size, grid.MinSize)
	}
	inBounds := func(cell grid.Cell) bool {
		return cell.Row >= 0 && cell.Col >= 0 && cell.Row < c.Field.Size && cell.Col < c.Field.Size
	}
	if !inBounds(c.Start) {
		return fmt.Errorf("%w: start %v outside %dx%d grid", ErrConfig, c.Start, c.Field.Size, c.Field.Size)
	}
	if !inBounds(c.Goal) {
		return fmt.Errorf("%w: goal %v outside %dx%d grid", ErrConfig, c.Goal, c.Field.Size, c.Field.Size)
	}
	for _, w := range c.Field.Walls {
		if w == c.Start || w == c.Goal {
			return fmt.Errorf("%w: wall on %v", ErrConfig, w)
		}
	}
	if c.Episodes < 1 {
		return fmt.Errorf("%w: episodes=%d", ErrConfig, c.Episodes)
	}
	if c.Horizon < 1 {
		return fmt.Errorf("%w: horizon=%d", ErrConfig, c.Horizon)
	}
	if !(c.StepCost > 0) {
		return fmt.Errorf("%w: step cost %v", ErrConfig, c.StepCost)
	}
	if err := c.LearnerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
