package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"road-status-service/internal/adapters/cache"
	"road-status-service/internal/domain"
	"testing"

	_ "modernc.org/sqlite"
)

const seedJSON = `[
	{"_id": "rw-2", "title": "B2 resurfacing", "road": "B2", "status": "Ongoing",
	 "location": {"type": "Point", "coordinates": [15.85, -21.93]}},
	{"id": "rw-1", "title": "B1 bridge closed", "road": "B1", "status": "Closed",
	 "expectedDelayMinutes": 45, "coordinates": {"latitude": -23.3, "longitude": 17.08},
	 "alternateRoutes": [{"routeName": "Via D1268", "approved": true, "isRecommended": true}]}
]`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(context.Background(), db, cache.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roadworks.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestSeedAndListRecords(t *testing.T) {
	// build test data
	db := setupDB(t)
	ctx := context.Background()
	if err := SeedFromJSON(ctx, db, cache.SQLite, writeSeed(t, seedJSON)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// call the method under test
	repo := NewSQLRecordRepository(db, cache.SQLite)
	recs, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ID != "rw-2" || recs[1].ID != "rw-1" {
		t.Fatalf("expected file order [rw-2 rw-1], got [%s %s]", recs[0].ID, recs[1].ID)
	}
	if len(recs[1].AlternateRoutes) != 1 || !recs[1].AlternateRoutes[0].IsRecommended {
		t.Fatalf("expected alternate routes to survive storage, got %+v", recs[1].AlternateRoutes)
	}

	rec, err := repo.GetRecord(ctx, "rw-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ExpectedDelayMinutes == nil || *rec.ExpectedDelayMinutes != 45 {
		t.Fatalf("unexpected record %+v", rec)
	}

	if _, err := repo.GetRecord(ctx, "missing"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSeedRejectsRecordWithoutID(t *testing.T) {
	db := setupDB(t)
	err := SeedFromJSON(context.Background(), db, cache.SQLite, writeSeed(t, `[{"title":"anonymous"}]`))
	if err == nil {
		t.Fatalf("expected error for record without id")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	path := writeSeed(t, seedJSON)

	for i := 0; i < 2; i++ {
		if err := SeedFromJSON(ctx, db, cache.SQLite, path); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	recs, err := NewSQLRecordRepository(db, cache.SQLite).ListRecords(ctx)
	if err != nil || len(recs) != 2 {
		t.Fatalf("expected 2 records after reseed, got %d err=%v", len(recs), err)
	}
}
