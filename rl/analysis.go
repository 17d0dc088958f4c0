package rl

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zeu5/gridnav/grid"
)

// Summary aggregates episode statistics.
type Summary struct {
	Episodes  int     `json:"episodes"`
	Successes int     `json:"successes"`
	MeanSteps float64 `json:"mean_steps"`
	// MinSteps is the shortest successful episode, 0 if none succeeded.
	MinSteps   int     `json:"min_steps"`
	MeanReward float64 `json:"mean_reward"`
	// FirstSuccess is the index of the first episode that reached the goal, -1 if none.
	FirstSuccess int `json:"first_success"`
}

func Summarize(stats []EpisodeStats) Summary {
	s := Summary{Episodes: len(stats), FirstSuccess: -1}
	if len(stats) == 0 {
		return s
	}
	steps := StepSeries(stats)
	rewards := make([]float64, len(stats))
	successful := make([]float64, 0, len(stats))
	for i, st := range stats {
		rewards[i] = st.Reward
		if st.Reached {
			s.Successes++
			successful = append(successful, float64(st.Steps))
			if s.FirstSuccess < 0 {
				s.FirstSuccess = i
			}
		}
	}
	s.MeanSteps = stat.Mean(steps, nil)
	s.MeanReward = stat.Mean(rewards, nil)
	if len(successful) > 0 {
		s.MinSteps = int(floats.Min(successful))
	}
	return s
}

// StepSeries is the number of steps per episode, in episode order.
func StepSeries(stats []EpisodeStats) []float64 {
	out := make([]float64, len(stats))
	for i, st := range stats {
		out[i] = float64(st.Steps)
	}
	return out
}

// Paths extracts the visited cells of every trace.
func Paths(traces []*Trace) []grid.Path {
	out := make([]grid.Path, len(traces))
	for i, t := range traces {
		out[i] = t.Path()
	}
	return out
}
