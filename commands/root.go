package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeu5/gridnav/config"
)

var (
	configFile string
	logLevel   string
	saveDir    string
	headless   bool
	episodes   int
	seed       uint64
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "gridnav",
		Short:         "Diffusion cost fields, A* planning and tabular Q-learning on a grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "", "Save plots and results in the specified folder (overrides output.dir)")
	rootCommand.PersistentFlags().BoolVar(&headless, "headless", false, "Do not render any plots")
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 0, "Number of training episodes (overrides simulation.episodes)")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Exploration seed (overrides simulation.seed)")
	// adding the subcommands here
	rootCommand.AddCommand(SimulateCommand())
	rootCommand.AddCommand(PlanCommand())
	rootCommand.AddCommand(LearnCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(ConfigCommand())
	return rootCommand
}

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if saveDir != "" {
		cfg.Output.Dir = saveDir
	}
	if headless {
		cfg.Output.Headless = true
	}
	if episodes > 0 {
		cfg.Simulation.Episodes = episodes
	}
	if seed > 0 {
		cfg.Simulation.Seed = seed
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := config.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)
	return logger
}
