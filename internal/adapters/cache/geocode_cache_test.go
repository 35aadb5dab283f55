package cache

import (
	"context"
	"database/sql"
	"road-status-service/internal/domain"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// each connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
	CREATE TABLE geocode_cache (query TEXT PRIMARY KEY, lat REAL NOT NULL, lon REAL NOT NULL);
	CREATE TABLE region_cache (cell TEXT PRIMARY KEY, region TEXT NOT NULL);
	`)
	if err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}

func TestSQLiteGeocodeCache(t *testing.T) {
	db := openTestDB(t)
	c := NewSQLGeocodeCache(db, SQLite)
	ctx := context.Background()

	err := c.PutMany(ctx, map[string]domain.Coordinates{
		"B1 Rehoboth Namibia": {Lat: -23.3167, Lon: 17.0833},
		"Karibib Namibia":     {Lat: -21.9333, Lon: 15.85},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"Karibib Namibia", " Karibib Namibia ", "Atlantis", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one hit, got %v", got)
	}
	if got["Karibib Namibia"].Lon != 15.85 {
		t.Fatalf("unexpected coordinates %+v", got["Karibib Namibia"])
	}
}

func TestSQLiteRegionCache(t *testing.T) {
	db := openTestDB(t)
	c := NewSQLRegionCache(db, SQLite)
	ctx := context.Background()

	if _, ok, err := c.GetRegion(ctx, "-22.57,17.08"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.PutRegion(ctx, "-22.57,17.08", "Khomas"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.PutRegion(ctx, "0.00,0.00", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	region, ok, err := c.GetRegion(ctx, "-22.57,17.08")
	if err != nil || !ok || region != "Khomas" {
		t.Fatalf("expected Khomas, got %q ok=%v err=%v", region, ok, err)
	}

	unknown, ok, err := c.GetRegion(ctx, "0.00,0.00")
	if err != nil || !ok || unknown != "" {
		t.Fatalf("expected cached unknown, got %q ok=%v err=%v", unknown, ok, err)
	}
}
