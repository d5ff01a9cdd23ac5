package mcp

import (
	"context"
	"fmt"

	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/presets"
	"github.com/claude/repcounter/internal/workout"
	"github.com/google/uuid"
)

// Controller abstracts the workout engine for MCP tools. Local drives an
// in-process engine; client.Client drives a remote server over REST.
type Controller interface {
	State(ctx context.Context) (workout.State, error)
	Start(ctx context.Context) (*models.ActionResult, error)
	Pause(ctx context.Context) (*models.ActionResult, error)
	Resume(ctx context.Context) (*models.ActionResult, error)
	Reset(ctx context.Context) (*models.ActionResult, error)
	Configuration(ctx context.Context) (workout.Config, error)
	UpdateConfiguration(ctx context.Context, patch workout.ConfigPatch) (workout.Config, error)
	ListPresets(ctx context.Context) ([]models.WorkoutPreset, error)
	ApplyPreset(ctx context.Context, id uuid.UUID) (workout.State, error)
	SavePreset(ctx context.Context, name string) (*models.WorkoutPreset, error)
}

// Local implements Controller on an in-process engine and preset service.
type Local struct {
	engine  *workout.Engine
	presets *presets.Service
}

// Compile-time check: Local satisfies Controller.
var _ Controller = (*Local)(nil)

// NewLocal creates a Local controller.
func NewLocal(engine *workout.Engine, presetSvc *presets.Service) *Local {
	return &Local{engine: engine, presets: presetSvc}
}

func (l *Local) State(_ context.Context) (workout.State, error) {
	return l.engine.State(), nil
}

func (l *Local) Start(_ context.Context) (*models.ActionResult, error) {
	if err := l.engine.Start(); err != nil {
		return nil, err
	}
	return &models.ActionResult{Changed: true, State: l.engine.State()}, nil
}

func (l *Local) Pause(_ context.Context) (*models.ActionResult, error) {
	changed := l.engine.Pause()
	return &models.ActionResult{Changed: changed, State: l.engine.State()}, nil
}

func (l *Local) Resume(_ context.Context) (*models.ActionResult, error) {
	changed := l.engine.Resume()
	return &models.ActionResult{Changed: changed, State: l.engine.State()}, nil
}

func (l *Local) Reset(_ context.Context) (*models.ActionResult, error) {
	l.engine.Reset()
	return &models.ActionResult{Changed: true, State: l.engine.State()}, nil
}

func (l *Local) Configuration(_ context.Context) (workout.Config, error) {
	return l.engine.Configuration(), nil
}

// UpdateConfiguration refuses edits while a run is ticking, like the HTTP API.
func (l *Local) UpdateConfiguration(_ context.Context, patch workout.ConfigPatch) (workout.Config, error) {
	if l.engine.Runtime().Running {
		return workout.Config{}, fmt.Errorf("%w; pause or reset first", workout.ErrRunning)
	}
	return l.engine.Patch(patch)
}

func (l *Local) ListPresets(ctx context.Context) ([]models.WorkoutPreset, error) {
	return l.presets.List(ctx)
}

func (l *Local) ApplyPreset(ctx context.Context, id uuid.UUID) (workout.State, error) {
	if _, err := l.presets.Apply(ctx, id); err != nil {
		return workout.State{}, err
	}
	return l.engine.State(), nil
}

func (l *Local) SavePreset(ctx context.Context, name string) (*models.WorkoutPreset, error) {
	return l.presets.SaveCurrent(ctx, name)
}
