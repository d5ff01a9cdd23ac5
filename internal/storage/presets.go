package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/repcounter/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const presetColumns = `id, name, sets, reps_per_set, concentric_duration, eccentric_duration,
	concentric_beats, eccentric_beats, show_concentric_beat_numbers, show_eccentric_beat_numbers, created_at`

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (models.WorkoutPreset, error) {
	var p models.WorkoutPreset
	err := row.Scan(&p.ID, &p.Name, &p.Config.Sets, &p.Config.RepsPerSet,
		&p.Config.ConcentricDuration, &p.Config.EccentricDuration,
		&p.Config.ConcentricBeats, &p.Config.EccentricBeats,
		&p.Config.ShowConcentricBeatNumbers, &p.Config.ShowEccentricBeatNumbers,
		&p.CreatedAt)
	return p, err
}

func presetArgs(p models.WorkoutPreset) []any {
	return []any{p.ID, p.Name, p.Config.Sets, p.Config.RepsPerSet,
		p.Config.ConcentricDuration, p.Config.EccentricDuration,
		p.Config.ConcentricBeats, p.Config.EccentricBeats,
		p.Config.ShowConcentricBeatNumbers, p.Config.ShowEccentricBeatNumbers,
		p.CreatedAt}
}

// ListPresets returns all presets, oldest first.
func (db *DB) ListPresets(ctx context.Context) ([]models.WorkoutPreset, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+presetColumns+` FROM workout_presets ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutPreset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetPreset returns a single preset by ID.
func (db *DB) GetPreset(ctx context.Context, id uuid.UUID) (*models.WorkoutPreset, error) {
	p, err := scanPreset(db.Pool.QueryRow(ctx,
		`SELECT `+presetColumns+` FROM workout_presets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("preset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying preset: %w", err)
	}
	return &p, nil
}

// InsertPreset stores a new preset.
func (db *DB) InsertPreset(ctx context.Context, p models.WorkoutPreset) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_presets (`+presetColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		presetArgs(p)...)
	if err != nil {
		return fmt.Errorf("inserting preset: %w", err)
	}
	return nil
}

// UpdatePreset replaces the name and configuration of an existing preset.
// ID and creation time are preserved.
func (db *DB) UpdatePreset(ctx context.Context, p models.WorkoutPreset) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_presets SET name = $2, sets = $3, reps_per_set = $4,
		 concentric_duration = $5, eccentric_duration = $6,
		 concentric_beats = $7, eccentric_beats = $8,
		 show_concentric_beat_numbers = $9, show_eccentric_beat_numbers = $10
		 WHERE id = $1`,
		presetArgs(p)[:10]...)
	if err != nil {
		return fmt.Errorf("updating preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("preset %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeletePreset removes a preset.
func (db *DB) DeletePreset(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_presets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("preset %s: %w", id, ErrNotFound)
	}
	return nil
}
