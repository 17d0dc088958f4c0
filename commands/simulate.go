package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zeu5/gridnav/config"
	"github.com/zeu5/gridnav/render"
	"github.com/zeu5/gridnav/sim"
	"github.com/zeu5/gridnav/util"
)

// Simulate runs the full pipeline and reports the outcome on out. Unless the
// output is headless, plots and result.json are written to cfg.Output.Dir.
func Simulate(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) (*sim.Result, error) {
	opts := []sim.Option{sim.WithLogger(logger)}
	if !cfg.Output.Headless {
		v, err := newVisualizer(cfg.Output)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			sim.WithVisualizer(v),
			sim.WithLearningCurve(filepath.Join(cfg.Output.Dir, "learning."+cfg.Output.Format)),
		)
	}

	res, err := sim.Run(ctx, cfg.Simulation, opts...)
	if err != nil {
		return nil, err
	}

	if res.Found {
		fmt.Fprintf(out, "A* path: %d steps, cost %.4f, %d cells expanded\n", res.Path.Steps(), res.PathCost, res.Expanded)
	} else {
		fmt.Fprintf(out, "A* found no path (%d cells expanded)\n", res.Expanded)
	}
	if res.Reached {
		fmt.Fprintf(out, "Agent reached goal in %d steps\n", res.GreedySteps)
	} else {
		fmt.Fprintf(out, "Agent did not reach goal within %d steps\n", res.GreedySteps)
	}

	if !cfg.Output.Headless {
		file := filepath.Join(cfg.Output.Dir, "result.json")
		if err := util.WriteJSON(file, res); err != nil {
			return nil, err
		}
		logger.Info("results saved", "dir", cfg.Output.Dir)
	}
	return res, nil
}

func newVisualizer(out config.OutputConfig) (render.Visualizer, error) {
	h, err := render.NewHeatMap(out.Dir)
	if err != nil {
		return nil, err
	}
	h.Format = out.Format
	return h, nil
}

func SimulateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Generate a cost field, plan with A*, train Q-learning and roll out the greedy policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, err = Simulate(cmd.Context(), cfg, newLogger(cfg), cmd.OutOrStdout())
			return err
		},
	}
}
