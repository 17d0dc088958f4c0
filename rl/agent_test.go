package rl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/gridnav/grid"
)

// scriptedPolicy replays a fixed list of actions and records updates.
type scriptedPolicy struct {
	script  []grid.Action
	updates []Transition
}

func (s *scriptedPolicy) NextAction(step int, _ grid.Cell, _ []grid.Action) (grid.Action, bool) {
	if step >= len(s.script) {
		return 0, false
	}
	return s.script[step], true
}

func (s *scriptedPolicy) Update(_ int, t Transition) {
	s.updates = append(s.updates, t)
}

func (s *scriptedPolicy) Reset() {}

func newEnv(t *testing.T, n int, goal grid.Cell) *grid.Environment {
	t.Helper()
	env, err := grid.NewEnvironment(n, grid.Cell{}, goal, grid.DefaultRewards())
	require.NoError(t, err)
	return env
}

func TestNewAgent_Validation(t *testing.T) {
	env := newEnv(t, 3, grid.Cell{Row: 2, Col: 2})
	_, err := NewAgent(nil)
	assert.ErrorIs(t, err, ErrAgentConfig)
	_, err = NewAgent(&AgentConfig{Episodes: 1, Horizon: 1, Environment: env})
	assert.ErrorIs(t, err, ErrAgentConfig)
	_, err = NewAgent(&AgentConfig{Episodes: 0, Horizon: 1, Environment: env, Policy: NewRandomPolicy(1)})
	assert.ErrorIs(t, err, ErrAgentConfig)
	_, err = NewAgent(&AgentConfig{Episodes: 1, Horizon: 0, Environment: env, Policy: NewRandomPolicy(1)})
	assert.ErrorIs(t, err, ErrAgentConfig)
}

func TestRunEpisode_ReachesGoal(t *testing.T) {
	env := newEnv(t, 3, grid.Cell{Row: 1, Col: 1})
	policy := &scriptedPolicy{script: []grid.Action{grid.Down, grid.Right, grid.Up}}

	trace, stats := Rollout(env, policy, 10)
	assert.True(t, stats.Reached)
	assert.Equal(t, 2, stats.Steps)
	assert.Equal(t, 99.0, stats.Reward)
	assert.Equal(t, grid.Path{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}, trace.Path())

	require.Len(t, policy.updates, 2)
	assert.Equal(t, []grid.Action{grid.Up, grid.Down, grid.Right}, policy.updates[0].NextActions)
	last := policy.updates[1]
	assert.True(t, last.Done)
	assert.Nil(t, last.NextActions)
	assert.Equal(t, 100.0, last.Reward)
}

func TestRunEpisode_HorizonAbandonsEpisode(t *testing.T) {
	env := newEnv(t, 5, grid.Cell{Row: 4, Col: 4})
	policy := &scriptedPolicy{script: []grid.Action{grid.Down, grid.Up, grid.Down, grid.Up, grid.Down, grid.Up}}

	trace, stats := Rollout(env, policy, 4)
	assert.False(t, stats.Reached)
	assert.Equal(t, 4, stats.Steps)
	assert.Equal(t, 4, trace.Len())
	assert.Equal(t, -4.0, stats.Reward)
}

func TestRunEpisode_MaskedActionIsNotApplied(t *testing.T) {
	env := newEnv(t, 3, grid.Cell{Row: 2, Col: 2})
	// Up from the corner is rejected by the environment
	policy := &scriptedPolicy{script: []grid.Action{grid.Up, grid.Right}}

	trace, stats := Rollout(env, policy, 10)
	assert.Equal(t, 2, stats.Steps)
	assert.Equal(t, 1, trace.Len())
	require.Len(t, policy.updates, 1)
	assert.Equal(t, grid.Right, policy.updates[0].Action)
}

func TestAgent_RandomPolicyEventuallyReachesGoal(t *testing.T) {
	env := newEnv(t, 4, grid.Cell{Row: 3, Col: 3})
	agent, err := NewAgent(&AgentConfig{
		Episodes:    20,
		Horizon:     DefaultHorizon,
		Policy:      NewRandomPolicy(3),
		Environment: env,
	})
	require.NoError(t, err)
	require.NoError(t, agent.Run(context.Background()))

	require.Len(t, agent.Stats(), 20)
	require.Len(t, agent.Traces(), 20)
	for i, tr := range agent.Traces() {
		p := tr.Path()
		assert.True(t, p.Connected(), "episode %d", i)
		for _, c := range p {
			assert.True(t, c.Row >= 0 && c.Row < 4 && c.Col >= 0 && c.Col < 4)
		}
	}
	summary := Summarize(agent.Stats())
	assert.Equal(t, 20, summary.Successes)
	assert.GreaterOrEqual(t, summary.MinSteps, 6)
}

func TestAgent_CancelledContext(t *testing.T) {
	env := newEnv(t, 4, grid.Cell{Row: 3, Col: 3})
	agent, err := NewAgent(&AgentConfig{Episodes: 5, Horizon: 10, Policy: NewRandomPolicy(1), Environment: env})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, agent.Run(ctx), context.Canceled)
	assert.Empty(t, agent.Stats())
}

// shuttlePolicy bounces between two cells forever and cancels its context
// once it has been asked for cancelAt actions.
type shuttlePolicy struct {
	cancel   context.CancelFunc
	cancelAt int
	calls    int
}

func (p *shuttlePolicy) NextAction(step int, _ grid.Cell, _ []grid.Action) (grid.Action, bool) {
	p.calls++
	if p.calls == p.cancelAt {
		p.cancel()
	}
	if step%2 == 0 {
		return grid.Down, true
	}
	return grid.Up, true
}

func (p *shuttlePolicy) Update(int, Transition) {}

func (p *shuttlePolicy) Reset() {}

func TestAgent_CancelledMidEpisode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	policy := &shuttlePolicy{cancel: cancel, cancelAt: 300}
	agent, err := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     1_000_000_000,
		Policy:      policy,
		Environment: newEnv(t, 5, grid.Cell{Row: 4, Col: 4}),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, agent.Run(ctx), context.Canceled)
	assert.Empty(t, agent.Stats())
	assert.Less(t, policy.calls, 300+cancelCheckEvery+1)

	ctx, cancel = context.WithCancel(context.Background())
	policy = &shuttlePolicy{cancel: cancel, cancelAt: 10}
	_, stats, err := RolloutContext(ctx, newEnv(t, 5, grid.Cell{Row: 4, Col: 4}), policy, 1_000_000_000)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, stats.Reached)
	assert.Equal(t, cancelCheckEvery, stats.Steps)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]EpisodeStats{
		{Episode: 0, Steps: 10, Reward: -10},
		{Episode: 1, Steps: 6, Reward: 95, Reached: true},
		{Episode: 2, Steps: 8, Reward: 93, Reached: true},
	})
	assert.Equal(t, 3, s.Episodes)
	assert.Equal(t, 2, s.Successes)
	assert.Equal(t, 1, s.FirstSuccess)
	assert.Equal(t, 6, s.MinSteps)
	assert.InDelta(t, 8.0, s.MeanSteps, 1e-12)
	assert.InDelta(t, 178.0/3, s.MeanReward, 1e-12)

	empty := Summarize(nil)
	assert.Equal(t, -1, empty.FirstSuccess)
}

func TestComparison_RunsInOrder(t *testing.T) {
	var gotNames []string
	var gotData []DataSet
	c := NewComparison(StepsAnalyzer(), func(names []string, ds []DataSet) error {
		gotNames = names
		gotData = ds
		return nil
	}, nil)
	for _, name := range []string{"a", "b"} {
		c.AddExperiment(NewExperiment(name, &AgentConfig{
			Episodes:    3,
			Horizon:     50,
			Policy:      NewRandomPolicy(9),
			Environment: newEnv(t, 3, grid.Cell{Row: 2, Col: 2}),
		}))
	}
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, []string{"a", "b"}, gotNames)
	require.Len(t, gotData, 2)
	assert.Len(t, gotData[0].([]float64), 3)
}
