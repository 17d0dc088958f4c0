package planner

import "errors"

var (
	// ErrNilField indicates that no cost field was supplied.
	ErrNilField = errors.New("planner: cost field is nil")
	// ErrStepCost indicates a non-positive or non-finite step cost.
	ErrStepCost = errors.New("planner: step cost must be positive and finite")
)

// Options configures a Planner.
type Options struct {
	// StepCost is the base cost of a single move. The heuristic is scaled by
	// the same factor so it never overestimates.
	StepCost float64
	// Trace records every expansion in pop order.
	Trace bool
}

// Option mutates Options.
type Option func(*Options)

func DefaultOptions() Options {
	return Options{StepCost: 1}
}

func WithStepCost(c float64) Option {
	return func(o *Options) {
		o.StepCost = c
	}
}

func WithExpansionTrace() Option {
	return func(o *Options) {
		o.Trace = true
	}
}
