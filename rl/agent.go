package rl

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zeu5/gridnav/grid"
)

// ErrAgentConfig indicates a missing policy/environment or a non-positive
// episode count or horizon.
var ErrAgentConfig = errors.New("rl: agent needs a policy, an environment, episodes > 0 and horizon > 0")

// DefaultHorizon is the per-episode step budget.
const DefaultHorizon = 1000

// cancelCheckEvery is how many steps an episode runs between context checks.
const cancelCheckEvery = 256

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
	Logger      *slog.Logger
}

// EpisodeStats summarises one episode.
type EpisodeStats struct {
	Episode int     `json:"episode"`
	Steps   int     `json:"steps"`
	Reward  float64 `json:"reward"`
	Reached bool    `json:"reached"`
}

// Agent runs a policy against an environment for a number of episodes.
type Agent struct {
	config *AgentConfig
	// collected by Run
	traces []*Trace
	stats  []EpisodeStats
	logger *slog.Logger
}

func NewAgent(config *AgentConfig) (*Agent, error) {
	if config == nil || config.Policy == nil || config.Environment == nil ||
		config.Episodes < 1 || config.Horizon < 1 {
		return nil, ErrAgentConfig
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		config: config,
		traces: make([]*Trace, 0, config.Episodes),
		stats:  make([]EpisodeStats, 0, config.Episodes),
		logger: logger,
	}, nil
}

// Run plays the configured number of episodes. Cancellation is checked
// between episodes and every few hundred steps inside one; finished episodes
// are kept, the interrupted one is dropped.
func (a *Agent) Run(ctx context.Context) error {
	for i := 0; i < a.config.Episodes; i++ {
		trace, stats, err := runEpisode(ctx, i, a.config.Horizon, a.config.Policy, a.config.Environment)
		if err != nil {
			a.logger.Warn("training interrupted", "episode", i, "step", stats.Steps, "err", err)
			return err
		}
		a.traces = append(a.traces, trace)
		a.stats = append(a.stats, stats)
		a.logger.Debug("episode finished", "episode", i, "steps", stats.Steps, "reached", stats.Reached)
	}
	return nil
}

func (a *Agent) Traces() []*Trace {
	return a.traces
}

func (a *Agent) Stats() []EpisodeStats {
	return a.stats
}

// Rollout plays a single episode without touching the agent bookkeeping,
// typically with a GreedyPolicy to evaluate a learned table.
func Rollout(env Environment, policy Policy, horizon int) (*Trace, EpisodeStats) {
	trace, stats, _ := runEpisode(context.Background(), 0, horizon, policy, env)
	return trace, stats
}

// RolloutContext is Rollout bounded by ctx.
func RolloutContext(ctx context.Context, env Environment, policy Policy, horizon int) (*Trace, EpisodeStats, error) {
	return runEpisode(ctx, 0, horizon, policy, env)
}

// runEpisode loops select, step, update until the goal or the horizon. Running
// out of steps abandons the episode; it is not an error. A done ctx is.
func runEpisode(ctx context.Context, episode, horizon int, policy Policy, env Environment) (*Trace, EpisodeStats, error) {
	cell := env.Reset()
	trace := NewTrace(cell)
	stats := EpisodeStats{Episode: episode}

	for step := 0; step < horizon; step++ {
		if step%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return trace, stats, err
			}
		}
		actions := env.Actions(cell)
		action, ok := policy.NextAction(step, cell, actions)
		if !ok {
			break
		}
		res := env.Step(action)
		stats.Steps++
		if res.Moved {
			var nextActions []grid.Action
			if !res.Done {
				nextActions = env.Actions(res.Next)
			}
			tr := Transition{
				From:        cell,
				Action:      action,
				Reward:      res.Reward,
				To:          res.Next,
				NextActions: nextActions,
				Done:        res.Done,
			}
			policy.Update(step, tr)
			trace.Append(tr)
			stats.Reward += res.Reward
		}
		cell = res.Next
		if res.Done {
			stats.Reached = true
			break
		}
	}
	return trace, stats, nil
}
