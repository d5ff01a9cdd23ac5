package models

import (
	"time"

	"github.com/claude/repcounter/internal/workout"
	"github.com/google/uuid"
)

// WorkoutPreset is a named snapshot of a workout configuration.
type WorkoutPreset struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Config    workout.Config `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewWorkoutPreset builds a preset with a fresh ID and creation time.
func NewWorkoutPreset(name string, cfg workout.Config) WorkoutPreset {
	return WorkoutPreset{
		ID:        uuid.New(),
		Name:      name,
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}
}
