// Package presets stores named workout configurations and applies them to
// the running engine.
package presets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/workout"
	"github.com/google/uuid"
)

// ErrEmptyName is returned when a preset is created or renamed without a name.
var ErrEmptyName = errors.New("preset name is required")

// Store persists presets. *storage.DB and *storage.SQLiteDB satisfy it.
type Store interface {
	ListPresets(ctx context.Context) ([]models.WorkoutPreset, error)
	GetPreset(ctx context.Context, id uuid.UUID) (*models.WorkoutPreset, error)
	InsertPreset(ctx context.Context, p models.WorkoutPreset) error
	UpdatePreset(ctx context.Context, p models.WorkoutPreset) error
	DeletePreset(ctx context.Context, id uuid.UUID) error
}

// Engine is the part of *workout.Engine the service needs.
type Engine interface {
	ExportConfiguration() workout.Config
	ApplyConfiguration(cfg workout.Config)
	Reset()
}

// Service couples a Store with the workout engine.
type Service struct {
	store  Store
	engine Engine
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a preset service.
func NewService(store Store, engine Engine, log *slog.Logger) *Service {
	return &Service{store: store, engine: engine, log: log, now: time.Now}
}

// Defaults returns the built-in presets offered on first launch.
func Defaults() []models.WorkoutPreset {
	mk := func(sets, reps int, con, ecc float64, conBeats, eccBeats int) workout.Config {
		cfg := workout.DefaultConfig()
		cfg.Sets = sets
		cfg.RepsPerSet = reps
		cfg.ConcentricDuration = con
		cfg.EccentricDuration = ecc
		cfg.ConcentricBeats = conBeats
		cfg.EccentricBeats = eccBeats
		return cfg
	}
	return []models.WorkoutPreset{
		{Name: "Tempo 3-2 (Standard)", Config: mk(3, 12, 3.0, 2.0, 3, 2)},
		{Name: "Speed 1-1 (HIIT)", Config: mk(4, 15, 1.0, 1.0, 1, 1)},
		{Name: "Slow 3-3 (TUT)", Config: mk(4, 10, 3.0, 3.0, 3, 3)},
	}
}

// SeedDefaults inserts the built-in presets when the store is empty. It
// returns the number of presets inserted.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := s.store.ListPresets(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing presets: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	base := s.now().UTC()
	for i, d := range Defaults() {
		p := models.NewWorkoutPreset(d.Name, d.Config)
		// Distinct timestamps keep the seeded order stable.
		p.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		if err := s.store.InsertPreset(ctx, p); err != nil {
			return i, fmt.Errorf("seeding preset %q: %w", d.Name, err)
		}
	}
	s.log.Info("seeded default presets", "count", len(Defaults()))
	return len(Defaults()), nil
}

// List returns every preset, oldest first.
func (s *Service) List(ctx context.Context) ([]models.WorkoutPreset, error) {
	return s.store.ListPresets(ctx)
}

// Get returns one preset.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.WorkoutPreset, error) {
	return s.store.GetPreset(ctx, id)
}

// Create stores cfg under name.
func (s *Service) Create(ctx context.Context, name string, cfg workout.Config) (*models.WorkoutPreset, error) {
	name, err := checkPreset(name, cfg)
	if err != nil {
		return nil, err
	}
	p := models.NewWorkoutPreset(name, cfg)
	p.CreatedAt = s.now().UTC()
	if err := s.store.InsertPreset(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("preset created", "id", p.ID, "name", p.Name)
	return &p, nil
}

// SaveCurrent snapshots the engine's configuration as a new preset.
func (s *Service) SaveCurrent(ctx context.Context, name string) (*models.WorkoutPreset, error) {
	return s.Create(ctx, name, s.engine.ExportConfiguration())
}

// Update replaces the name and configuration of an existing preset.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name string, cfg workout.Config) (*models.WorkoutPreset, error) {
	name, err := checkPreset(name, cfg)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetPreset(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Config = cfg
	if err := s.store.UpdatePreset(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a preset.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeletePreset(ctx, id); err != nil {
		return err
	}
	s.log.Info("preset deleted", "id", id)
	return nil
}

// Apply loads a preset into the engine and resets it, so any run in
// progress is stopped and the next start uses the preset.
func (s *Service) Apply(ctx context.Context, id uuid.UUID) (*models.WorkoutPreset, error) {
	p, err := s.store.GetPreset(ctx, id)
	if err != nil {
		return nil, err
	}
	s.engine.ApplyConfiguration(p.Config)
	s.engine.Reset()
	s.log.Info("preset applied", "id", p.ID, "name", p.Name)
	return p, nil
}

func checkPreset(name string, cfg workout.Config) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid preset configuration: %w", err)
	}
	return name, nil
}
