package server

import (
	"github.com/google/uuid"

	"github.com/zeu5/gridnav/grid"
	"github.com/zeu5/gridnav/planner"
	"github.com/zeu5/gridnav/sim"
)

// PlanRequest asks for a single A* search. Field takes precedence over
// FieldConfig; with neither the default field is generated.
type PlanRequest struct {
	Field       *grid.Grid        `json:"field,omitempty"`
	FieldConfig *grid.FieldConfig `json:"field_config,omitempty"`
	Start       grid.Cell         `json:"start"`
	Goal        grid.Cell         `json:"goal"`
	StepCost    float64           `json:"step_cost,omitempty"`
	Trace       bool              `json:"trace,omitempty"`
}

type PlanResponse struct {
	planner.Result
	Steps int `json:"steps"`
}

// SimulationResponse is returned by POST /simulations.
type SimulationResponse struct {
	ID     uuid.UUID   `json:"id"`
	Result *sim.Result `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}
