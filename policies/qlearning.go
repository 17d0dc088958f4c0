package policies

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/rl"
)

var (
	ErrAlpha   = errors.New("policies: learning rate must be in (0, 1]")
	ErrGamma   = errors.New("policies: discount factor must be in [0, 1]")
	ErrEpsilon = errors.New("policies: exploration rate must be in [0, 1]")
	ErrSize    = errors.New("policies: grid size must be at least 3")
)

// QLearningConfig holds the fixed hyper-parameters of one run.
type QLearningConfig struct {
	Size    int     `json:"size" mapstructure:"size" yaml:"size"`
	Alpha   float64 `json:"alpha" mapstructure:"alpha" yaml:"alpha" validate:"gt=0,lte=1"`
	Gamma   float64 `json:"gamma" mapstructure:"gamma" yaml:"gamma" validate:"gte=0,lte=1"`
	Epsilon float64 `json:"epsilon" mapstructure:"epsilon" yaml:"epsilon" validate:"gte=0,lte=1"`
	// Seed for exploration. Zero seeds from the clock.
	Seed uint64 `json:"seed" mapstructure:"seed" yaml:"seed"`
}

func DefaultQLearningConfig(size int) QLearningConfig {
	return QLearningConfig{
		Size:    size,
		Alpha:   0.1,
		Gamma:   0.9,
		Epsilon: 0.1,
		Seed:    1,
	}
}

func (c QLearningConfig) Validate() error {
	if c.Size < grid.MinSize {
		return fmt.Errorf("size=%d: %w", c.Size, ErrSize)
	}
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		return fmt.Errorf("alpha=%v: %w", c.Alpha, ErrAlpha)
	}
	if !(c.Gamma >= 0 && c.Gamma <= 1) {
		return fmt.Errorf("gamma=%v: %w", c.Gamma, ErrGamma)
	}
	if !(c.Epsilon >= 0 && c.Epsilon <= 1) {
		return fmt.Errorf("epsilon=%v: %w", c.Epsilon, ErrEpsilon)
	}
	return nil
}

// QLearning is an epsilon-greedy tabular Q-learning policy. The Q-table is
// its only learnable state.
type QLearning struct {
	qTable  *QTable
	alpha   float64
	gamma   float64
	epsilon float64
	seed    uint64
	rand    *rand.Rand
}

var _ rl.Policy = &QLearning{}

func NewQLearning(cfg QLearningConfig) (*QLearning, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &QLearning{
		qTable:  NewQTable(cfg.Size),
		alpha:   cfg.Alpha,
		gamma:   cfg.Gamma,
		epsilon: cfg.Epsilon,
		seed:    seed,
		rand:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Table exposes the learned values.
func (q *QLearning) Table() *QTable {
	return q.qTable
}

// SelectAction picks uniformly among actions with probability epsilon and
// otherwise the greedy action. ok is false when there is nothing to pick.
func (q *QLearning) SelectAction(cell grid.Cell, actions []grid.Action) (grid.Action, bool) {
	if len(actions) == 0 {
		return 0, false
	}
	if q.rand.Float64() < q.epsilon {
		return actions[q.rand.Intn(len(actions))], true
	}
	return q.Greedy(cell, actions)
}

// Greedy picks the highest valued action, first maximum in actions order.
func (q *QLearning) Greedy(cell grid.Cell, actions []grid.Action) (grid.Action, bool) {
	a, _, ok := q.qTable.ArgMax(cell, actions)
	return a, ok
}

// UpdateValue applies the temporal-difference update
//
//	Q(s,a) <- Q(s,a) + alpha * (r + gamma * max_a' Q(s',a') - Q(s,a))
//
// where a' ranges over nextActions. A terminal next cell has no actions and
// contributes zero.
func (q *QLearning) UpdateValue(cell grid.Cell, action grid.Action, reward float64, next grid.Cell, nextActions []grid.Action) {
	curVal := q.qTable.Get(cell, action)
	nextVal := q.qTable.Max(next, nextActions)
	q.qTable.Set(cell, action, curVal+q.alpha*(reward+q.gamma*nextVal-curVal))
}

func (q *QLearning) NextAction(_ int, cell grid.Cell, actions []grid.Action) (grid.Action, bool) {
	return q.SelectAction(cell, actions)
}

func (q *QLearning) Update(_ int, t rl.Transition) {
	q.UpdateValue(t.From, t.Action, t.Reward, t.To, t.NextActions)
}

// Reset clears the table and rewinds the exploration source.
func (q *QLearning) Reset() {
	q.qTable.Reset()
	q.rand = rand.New(rand.NewSource(q.seed))
}

// GreedyPolicy wraps a learned table as a policy that never explores and never
// learns, for evaluation rollouts.
type GreedyPolicy struct {
	qTable *QTable
}

var _ rl.Policy = &GreedyPolicy{}

func NewGreedyPolicy(table *QTable) *GreedyPolicy {
	return &GreedyPolicy{qTable: table}
}

func (g *GreedyPolicy) NextAction(_ int, cell grid.Cell, actions []grid.Action) (grid.Action, bool) {
	a, _, ok := g.qTable.ArgMax(cell, actions)
	return a, ok
}

func (g *GreedyPolicy) Update(_ int, _ rl.Transition) {}

func (g *GreedyPolicy) Reset() {}
