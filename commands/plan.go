package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/planner"
	"github.com/zeu5/gridnav/util"
)

func PlanCommand() *cobra.Command {
	var traceFile string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate the cost field and print the A* path between start and goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			s := cfg.Simulation

			field, err := grid.GenerateContext(cmd.Context(), s.Field)
			if err != nil {
				return err
			}
			opts := []planner.Option{planner.WithStepCost(s.StepCost)}
			if traceFile != "" {
				opts = append(opts, planner.WithExpansionTrace())
			}
			p, err := planner.New(field, opts...)
			if err != nil {
				return err
			}
			res := p.Search(s.Start, s.Goal)

			out := cmd.OutOrStdout()
			if !res.Found {
				fmt.Fprintf(out, "no path from %v to %v (%d cells expanded)\n", s.Start, s.Goal, res.Expanded)
			} else {
				fmt.Fprintf(out, "path: %d steps, cost %.4f, %d cells expanded\n", res.Path.Steps(), res.Cost, res.Expanded)
				for _, c := range res.Path {
					fmt.Fprintln(out, c)
				}
			}

			if traceFile != "" {
				lines := make([]string, len(res.Trace))
				for i, e := range res.Trace {
					lines[i] = fmt.Sprintf("%d %d %g %g", e.Cell.Row, e.Cell.Col, e.G, e.F)
				}
				if err := util.WriteToFile(traceFile, lines...); err != nil {
					return err
				}
				logger.Info("expansion trace saved", "file", traceFile, "expanded", len(lines))
			}

			if !cfg.Output.Headless {
				v, err := newVisualizer(cfg.Output)
				if err != nil {
					return err
				}
				if err := v.Render("astar", field, res.Path); err != nil {
					logger.Warn("render failed", "err", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&traceFile, "trace", "", "Write the expansion order (row col g f per line) to this file")
	return cmd
}
