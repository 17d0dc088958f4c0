// Package sim wires field generation, planning and learning into one run.
package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/planner"
	"github.com/zeu5/gridnav/policies"
	"github.com/zeu5/gridnav/render"
	"github.com/zeu5/gridnav/rl"
)

// Render names used for the three snapshots of a run.
const (
	FieldFrame  = "field"
	PlanFrame   = "astar"
	PolicyFrame = "policy"
)

// Result of one simulation run.
type Result struct {
	Field    grid.Stats `json:"field"`
	Path     grid.Path  `json:"path"`
	PathCost float64    `json:"path_cost"`
	Found    bool       `json:"found"`
	Expanded int        `json:"expanded"`

	Episodes []rl.EpisodeStats `json:"episodes"`
	Summary  rl.Summary        `json:"summary"`

	GreedyPath  grid.Path `json:"greedy_path"`
	GreedySteps int       `json:"greedy_steps"`
	Reached     bool      `json:"reached"`
}

type Option func(*Simulation)

// WithVisualizer replaces the default render.Nop.
func WithVisualizer(v render.Visualizer) Option {
	return func(s *Simulation) {
		s.visualizer = v
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// WithLearningCurve plots the training step series to file after the run.
func WithLearningCurve(file string) Option {
	return func(s *Simulation) {
		s.curveFile = file
	}
}

// Simulation owns every component of a run; nothing is shared between runs.
type Simulation struct {
	config     Config
	visualizer render.Visualizer
	logger     *slog.Logger
	curveFile  string

	field   *grid.Grid
	learner *policies.QLearning
}

func New(config Config, opts ...Option) (*Simulation, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		config:     config,
		visualizer: render.Nop{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Field is the generated cost field, nil before Run.
func (s *Simulation) Field() *grid.Grid {
	return s.field
}

// Learner is the trained policy, nil before Run.
func (s *Simulation) Learner() *policies.QLearning {
	return s.learner
}

// Run generates the field, plans the A* path, trains the learner and rolls
// out its greedy policy. Rendering failures are logged and do not fail the run.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	field, err := grid.GenerateContext(ctx, cfg.Field)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	s.field = field
	res := &Result{Field: field.Stats()}
	s.logger.Info("cost field generated",
		"size", field.Size(), "min", res.Field.Min, "max", res.Field.Max, "walls", res.Field.Walls)
	s.render(FieldFrame, field, nil)

	p, err := planner.New(field, planner.WithStepCost(cfg.StepCost))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	plan := p.Search(cfg.Start, cfg.Goal)
	res.Path, res.PathCost, res.Found, res.Expanded = plan.Path, plan.Cost, plan.Found, plan.Expanded
	if plan.Found {
		s.logger.Info("path planned", "steps", plan.Path.Steps(), "cost", plan.Cost, "expanded", plan.Expanded)
	} else {
		s.logger.Warn("no path between start and goal", "start", cfg.Start, "goal", cfg.Goal, "expanded", plan.Expanded)
	}
	s.render(PlanFrame, field, plan.Path)

	env, err := grid.NewFieldEnvironment(field, cfg.Start, cfg.Goal, cfg.Rewards)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	learner, err := policies.NewQLearning(cfg.LearnerConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	s.learner = learner
	agent, err := rl.NewAgent(&rl.AgentConfig{
		Episodes:    cfg.Episodes,
		Horizon:     cfg.Horizon,
		Policy:      learner,
		Environment: env,
		Logger:      s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := agent.Run(ctx); err != nil {
		return nil, err
	}
	res.Episodes = agent.Stats()
	res.Summary = rl.Summarize(res.Episodes)
	s.logger.Info("training finished",
		"episodes", res.Summary.Episodes, "successes", res.Summary.Successes, "mean_steps", res.Summary.MeanSteps)

	trace, stats, err := rl.RolloutContext(ctx, env, policies.NewGreedyPolicy(learner.Table()), cfg.Horizon)
	if err != nil {
		return nil, err
	}
	res.GreedyPath = trace.Path()
	res.GreedySteps = stats.Steps
	res.Reached = stats.Reached
	if stats.Reached {
		s.logger.Info("agent reached goal", "steps", stats.Steps)
	} else {
		s.logger.Info("agent did not reach goal", "steps", stats.Steps)
	}

	values, err := learner.Table().ValueGrid()
	if err == nil {
		s.render(PolicyFrame, values, res.GreedyPath)
	}
	if s.curveFile != "" {
		if err := render.LearningCurve(s.curveFile, []string{"q-learning"}, [][]float64{rl.StepSeries(res.Episodes)}); err != nil {
			s.logger.Warn("learning curve not rendered", "file", s.curveFile, "err", err)
		}
	}
	return res, nil
}

func (s *Simulation) render(name string, field *grid.Grid, path grid.Path) {
	if err := s.visualizer.Render(name, field, path); err != nil {
		s.logger.Warn("render failed", "frame", name, "err", err)
	}
}

// Run is a one-shot helper for New followed by Simulation.Run.
func Run(ctx context.Context, config Config, opts ...Option) (*Result, error) {
	s, err := New(config, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
