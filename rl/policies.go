package rl

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/zeu5/gridnav/grid"
)

// Policy chooses actions and learns from applied transitions.
type Policy interface {
	NextAction(step int, cell grid.Cell, actions []grid.Action) (grid.Action, bool)
	Update(step int, t Transition)
	Reset()
}

// RandomPolicy picks uniformly among the allowed actions and never learns.
// It is the baseline learners are compared against.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

// NewRandomPolicy seeds from the clock when seed is zero.
func NewRandomPolicy(seed uint64) *RandomPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) NextAction(_ int, _ grid.Cell, actions []grid.Action) (grid.Action, bool) {
	if len(actions) == 0 {
		return 0, false
	}
	return actions[r.rand.Intn(len(actions))], true
}

func (r *RandomPolicy) Update(_ int, _ Transition) {}
