package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// openTestPostgres connects to the database named by REPCOUNTER_TEST_POSTGRES_DSN,
// applying migrations first. Tests are skipped when it is unset.
func openTestPostgres(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("REPCOUNTER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("REPCOUNTER_TEST_POSTGRES_DSN not set")
	}
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	db, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestPostgresPresetLifecycle mirrors the SQLite lifecycle test against Postgres.
func TestPostgresPresetLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestPostgres(t)

	p := samplePreset("pg-"+uuid.NewString(), time.Now().UTC().Truncate(time.Microsecond))
	if err := db.InsertPreset(ctx, p); err != nil {
		t.Fatalf("InsertPreset: %v", err)
	}
	t.Cleanup(func() { _ = db.DeletePreset(context.Background(), p.ID) })

	got, err := db.GetPreset(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	if got.Name != p.Name || got.Config != p.Config || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("GetPreset = %+v, want %+v", got, p)
	}

	p.Config.Sets = 7
	if err := db.UpdatePreset(ctx, p); err != nil {
		t.Fatalf("UpdatePreset: %v", err)
	}
	list, err := db.ListPresets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, l := range list {
		if l.ID == p.ID {
			found = true
			if l.Config.Sets != 7 {
				t.Errorf("listed sets = %d, want 7", l.Config.Sets)
			}
		}
	}
	if !found {
		t.Error("inserted preset missing from list")
	}

	if err := db.DeletePreset(ctx, p.ID); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}
	if _, err := db.GetPreset(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPreset after delete = %v, want ErrNotFound", err)
	}
}
