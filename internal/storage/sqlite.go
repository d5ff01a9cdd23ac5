package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/repcounter/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB is the single-file preset store used when no Postgres server is
// configured.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workout_presets (
		id                           TEXT PRIMARY KEY,
		name                         TEXT NOT NULL,
		sets                         INTEGER NOT NULL,
		reps_per_set                 INTEGER NOT NULL,
		concentric_duration          REAL NOT NULL,
		eccentric_duration           REAL NOT NULL,
		concentric_beats             INTEGER NOT NULL,
		eccentric_beats              INTEGER NOT NULL,
		show_concentric_beat_numbers BOOLEAN NOT NULL DEFAULT 1,
		show_eccentric_beat_numbers  BOOLEAN NOT NULL DEFAULT 1,
		created_at                   TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating presets table: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// ListPresets returns all presets, oldest first.
func (s *SQLiteDB) ListPresets(ctx context.Context) ([]models.WorkoutPreset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+presetColumns+` FROM workout_presets ORDER BY created_at ASC, rowid ASC`)
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
func (s *SQLiteDB) GetPreset(ctx context.Context, id uuid.UUID) (*models.WorkoutPreset, error) {
	p, err := scanPreset(s.db.QueryRowContext(ctx,
		`SELECT `+presetColumns+` FROM workout_presets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("preset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying preset: %w", err)
	}
	return &p, nil
}

// InsertPreset stores a new preset.
func (s *SQLiteDB) InsertPreset(ctx context.Context, p models.WorkoutPreset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workout_presets (`+presetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		presetArgs(p)...)
	if err != nil {
		return fmt.Errorf("inserting preset: %w", err)
	}
	return nil
}

// UpdatePreset replaces the name and configuration of an existing preset.
func (s *SQLiteDB) UpdatePreset(ctx context.Context, p models.WorkoutPreset) error {
	args := presetArgs(p)
	res, err := s.db.ExecContext(ctx,
		`UPDATE workout_presets SET name = ?, sets = ?, reps_per_set = ?,
		 concentric_duration = ?, eccentric_duration = ?,
		 concentric_beats = ?, eccentric_beats = ?,
		 show_concentric_beat_numbers = ?, show_eccentric_beat_numbers = ?
		 WHERE id = ?`,
		append(args[1:10:10], args[0])...)
	if err != nil {
		return fmt.Errorf("updating preset: %w", err)
	}
	return checkAffected(res, p.ID)
}

// DeletePreset removes a preset.
func (s *SQLiteDB) DeletePreset(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workout_presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting preset: %w", err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("preset %s: %w", id, ErrNotFound)
	}
	return nil
}
