package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ctrl Controller, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCounter", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCounter tempo timer. Inspect the running set/rep/phase, start, pause, resume or reset the workout, edit its configuration while it is not running, and manage saved presets."),
	)

	h := &handlers{ctrl: ctrl, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutState, Handler: h.getWorkoutState},
		server.ServerTool{Tool: toolStartWorkout, Handler: h.startWorkout},
		server.ServerTool{Tool: toolPauseWorkout, Handler: h.pauseWorkout},
		server.ServerTool{Tool: toolResumeWorkout, Handler: h.resumeWorkout},
		server.ServerTool{Tool: toolResetWorkout, Handler: h.resetWorkout},
		server.ServerTool{Tool: toolGetConfiguration, Handler: h.getConfiguration},
		server.ServerTool{Tool: toolUpdateConfiguration, Handler: h.updateConfiguration},
		server.ServerTool{Tool: toolListPresets, Handler: h.listPresets},
		server.ServerTool{Tool: toolApplyPreset, Handler: h.applyPreset},
		server.ServerTool{Tool: toolSavePreset, Handler: h.savePreset},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWorkoutState, Handler: h.workoutState},
		server.ServerResource{Resource: resPresets, Handler: h.presetList},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ctrl Controller
	log  *slog.Logger
}

// --- Resource definitions ---

var resWorkoutState = mcp.NewResource(
	"repcounter://workout_state",
	"Workout State",
	mcp.WithResourceDescription("Current set, rep, phase, elapsed time and per-phase progress bars"),
	mcp.WithMIMEType("application/json"),
)

var resPresets = mcp.NewResource(
	"repcounter://presets",
	"Workout Presets",
	mcp.WithResourceDescription("Saved workout configurations, oldest first"),
	mcp.WithMIMEType("application/json"),
)
