package models

import "github.com/claude/repcounter/internal/workout"

// ActionResult is returned by the lifecycle endpoints. Changed is false when
// the action did not apply in the current state (pause while not running,
// resume while not paused).
type ActionResult struct {
	Changed bool          `json:"changed"`
	State   workout.State `json:"state"`
}

// PresetRequest is the body for creating or replacing a preset. A nil Config
// on create snapshots the engine's current configuration.
type PresetRequest struct {
	Name   string          `json:"name"`
	Config *workout.Config `json:"config,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
