package rl

import (
	"context"
	"log/slog"
)

// Experiment pairs a named policy with its environment.
type Experiment struct {
	Name   string
	config *AgentConfig
	Stats  []EpisodeStats
	Traces []*Trace
}

func NewExperiment(name string, config *AgentConfig) *Experiment {
	return &Experiment{
		Name:   name,
		config: config,
	}
}

func (e *Experiment) Run(ctx context.Context) error {
	agent, err := NewAgent(e.config)
	if err != nil {
		return err
	}
	err = agent.Run(ctx)
	e.Stats = agent.Stats()
	e.Traces = agent.Traces()
	return err
}

type DataSet interface{}

// Analyzer reduces an experiment's episodes to a data set.
type Analyzer func(*Experiment) DataSet

// Comparator consumes the data sets of all experiments, in insertion order.
type Comparator func(names []string, ds []DataSet) error

// Comparison runs several experiments and compares them with one analyzer.
type Comparison struct {
	Experiments []*Experiment
	analyzer    Analyzer
	comparator  Comparator
	logger      *slog.Logger
}

func NewComparison(analyzer Analyzer, comparator Comparator, logger *slog.Logger) *Comparison {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzer:    analyzer,
		comparator:  comparator,
		logger:      logger,
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run executes the experiments in order and hands the analysed data sets to
// the comparator.
func (c *Comparison) Run(ctx context.Context) error {
	datasets := make([]DataSet, len(c.Experiments))
	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		c.logger.Info("running experiment", "name", e.Name)
		if err := e.Run(ctx); err != nil {
			return err
		}
		summary := Summarize(e.Stats)
		c.logger.Info("experiment finished",
			"name", e.Name,
			"episodes", summary.Episodes,
			"successes", summary.Successes,
			"mean_steps", summary.MeanSteps)
		datasets[i] = c.analyzer(e)
		names[i] = e.Name
	}
	if c.comparator == nil {
		return nil
	}
	return c.comparator(names, datasets)
}

// StepsAnalyzer returns the steps-per-episode series of an experiment.
func StepsAnalyzer() Analyzer {
	return func(e *Experiment) DataSet {
		return StepSeries(e.Stats)
	}
}
