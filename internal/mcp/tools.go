package mcp

import (
	"context"
	"fmt"

	"github.com/claude/repcounter/internal/workout"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetWorkoutState = mcp.NewTool("get_workout_state",
	mcp.WithDescription("Current workout state: status (pristine/running/paused/finished), set, rep, phase, elapsed seconds in the phase, and for each phase its duration, beats, continuous and stepped progress, active beat and coach cue."),
)

var toolStartWorkout = mcp.NewTool("start_workout",
	mcp.WithDescription("Start a new workout from set 1 rep 1, discarding any progress. Fails if a phase duration is outside 0.1-10 seconds."),
)

var toolPauseWorkout = mcp.NewTool("pause_workout",
	mcp.WithDescription("Pause a running workout. Has no effect when not running."),
)

var toolResumeWorkout = mcp.NewTool("resume_workout",
	mcp.WithDescription("Resume a paused workout. Has no effect unless paused."),
)

var toolResetWorkout = mcp.NewTool("reset_workout",
	mcp.WithDescription("Stop the workout and return to the pristine state (set 1, rep 0)."),
)

var toolGetConfiguration = mcp.NewTool("get_configuration",
	mcp.WithDescription("Current workout configuration: sets, reps per set, phase durations in seconds, beats per phase and beat number display toggles."),
)

var toolUpdateConfiguration = mcp.NewTool("update_configuration",
	mcp.WithDescription("Change one or more configuration fields. Refused while the workout is running. Omitted fields are unchanged."),
	mcp.WithNumber("sets", mcp.Description("Number of sets (at least 1)")),
	mcp.WithNumber("reps_per_set", mcp.Description("Reps in each set (at least 1)")),
	mcp.WithNumber("concentric_duration", mcp.Description("Concentric phase seconds (0.1-10)")),
	mcp.WithNumber("eccentric_duration", mcp.Description("Eccentric phase seconds (0.1-10)")),
	mcp.WithNumber("concentric_beats", mcp.Description("Beats in the concentric phase (1-3)")),
	mcp.WithNumber("eccentric_beats", mcp.Description("Beats in the eccentric phase (1-3)")),
	mcp.WithBoolean("show_concentric_beat_numbers", mcp.Description("Show beat numbers on the concentric bar")),
	mcp.WithBoolean("show_eccentric_beat_numbers", mcp.Description("Show beat numbers on the eccentric bar")),
)

var toolListPresets = mcp.NewTool("list_presets",
	mcp.WithDescription("List saved workout presets with their configurations, oldest first."),
)

var toolApplyPreset = mcp.NewTool("apply_preset",
	mcp.WithDescription("Load a preset's configuration and reset the workout. A running workout is stopped."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Preset ID (UUID) from list_presets")),
)

var toolSavePreset = mcp.NewTool("save_preset",
	mcp.WithDescription("Save the current configuration as a new preset."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Preset name")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := h.ctrl.State(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_state", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(st)
}

func (h *handlers) startWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.ctrl.Start(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) pauseWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.ctrl.Pause(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) resumeWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.ctrl.Resume(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) resetWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.ctrl.Reset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) getConfiguration(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.ctrl.Configuration(ctx)
	if err != nil {
		h.log.Error("mcp get_configuration", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(cfg)
}

func (h *handlers) updateConfiguration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patch, err := patchFromArgs(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patch.Empty() {
		return mcp.NewToolResultError("no configuration fields given"), nil
	}
	cfg, err := h.ctrl.UpdateConfiguration(ctx, patch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cfg)
}

func (h *handlers) listPresets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ctrl.ListPresets(ctx)
	if err != nil {
		h.log.Error("mcp list_presets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(list)
}

func (h *handlers) applyPreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid preset id: " + raw), nil
	}
	st, err := h.ctrl.ApplyPreset(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st)
}

func (h *handlers) savePreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	p, err := h.ctrl.SavePreset(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// patchFromArgs builds a ConfigPatch from tool arguments. JSON numbers
// arrive as float64; counts must be whole.
func patchFromArgs(args map[string]any) (workout.ConfigPatch, error) {
	var p workout.ConfigPatch
	var err error
	ints := []struct {
		key string
		dst **int
	}{
		{"sets", &p.Sets},
		{"reps_per_set", &p.RepsPerSet},
		{"concentric_beats", &p.ConcentricBeats},
		{"eccentric_beats", &p.EccentricBeats},
	}
	for _, f := range ints {
		if *f.dst, err = intArg(args, f.key); err != nil {
			return p, err
		}
	}
	if p.ConcentricDuration, err = floatArg(args, "concentric_duration"); err != nil {
		return p, err
	}
	if p.EccentricDuration, err = floatArg(args, "eccentric_duration"); err != nil {
		return p, err
	}
	if p.ShowConcentricBeatNumbers, err = boolArg(args, "show_concentric_beat_numbers"); err != nil {
		return p, err
	}
	if p.ShowEccentricBeatNumbers, err = boolArg(args, "show_eccentric_beat_numbers"); err != nil {
		return p, err
	}
	return p, nil
}

func floatArg(args map[string]any, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func intArg(args map[string]any, key string) (*int, error) {
	f, err := floatArg(args, key)
	if err != nil || f == nil {
		return nil, err
	}
	n := int(*f)
	if float64(n) != *f {
		return nil, fmt.Errorf("%s must be a whole number", key)
	}
	return &n, nil
}

func boolArg(args map[string]any, key string) (*bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &b, nil
}
