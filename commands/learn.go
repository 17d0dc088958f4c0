package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zeu5/gridnav/config"
	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/policies"
	"github.com/zeu5/gridnav/render"
	"github.com/zeu5/gridnav/rl"
)

// Learn trains Q-learning and the random baseline on the same field and
// compares their steps per episode.
func Learn(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	s := cfg.Simulation
	field, err := grid.GenerateContext(ctx, s.Field)
	if err != nil {
		return err
	}
	newEnv := func() (*grid.Environment, error) {
		return grid.NewFieldEnvironment(field, s.Start, s.Goal, s.Rewards)
	}

	qEnv, err := newEnv()
	if err != nil {
		return err
	}
	learner, err := policies.NewQLearning(s.LearnerConfig())
	if err != nil {
		return err
	}
	randomEnv, err := newEnv()
	if err != nil {
		return err
	}

	var comparator rl.Comparator
	if !cfg.Output.Headless {
		comparator = render.CurveComparator(filepath.Join(cfg.Output.Dir, "comparison."+cfg.Output.Format))
	}
	c := rl.NewComparison(rl.StepsAnalyzer(), comparator, logger)
	c.AddExperiment(rl.NewExperiment("Q-Learning", &rl.AgentConfig{
		Episodes:    s.Episodes,
		Horizon:     s.Horizon,
		Policy:      learner,
		Environment: qEnv,
		Logger:      logger,
	}))
	c.AddExperiment(rl.NewExperiment("Random", &rl.AgentConfig{
		Episodes:    s.Episodes,
		Horizon:     s.Horizon,
		Policy:      rl.NewRandomPolicy(s.LearnerConfig().Seed),
		Environment: randomEnv,
		Logger:      logger,
	}))
	if err := c.Run(ctx); err != nil {
		return err
	}

	for _, e := range c.Experiments {
		sum := rl.Summarize(e.Stats)
		fmt.Fprintf(out, "%-10s episodes=%d successes=%d mean_steps=%.1f min_steps=%d first_success=%d\n",
			e.Name, sum.Episodes, sum.Successes, sum.MeanSteps, sum.MinSteps, sum.FirstSuccess)
	}

	_, greedy, err := rl.RolloutContext(ctx, qEnv, policies.NewGreedyPolicy(learner.Table()), s.Horizon)
	if err != nil {
		return err
	}
	if greedy.Reached {
		fmt.Fprintf(out, "Agent reached goal in %d steps\n", greedy.Steps)
	} else {
		fmt.Fprintf(out, "Agent did not reach goal within %d steps\n", greedy.Steps)
	}

	if !cfg.Output.Headless {
		visits, err := grid.VisitGrid(field.Size(), rl.Paths(c.Experiments[0].Traces))
		if err != nil {
			return err
		}
		v, err := newVisualizer(cfg.Output)
		if err != nil {
			return err
		}
		if err := v.Render("visits", visits, nil); err != nil {
			logger.Warn("render failed", "err", err)
		}
	}
	return nil
}

func LearnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "learn",
		Short: "Compare Q-learning against a random policy on the generated field",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return Learn(cmd.Context(), cfg, newLogger(cfg), cmd.OutOrStdout())
		},
	}
}
